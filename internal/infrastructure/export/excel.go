// Package export renders productivity reports as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

const (
	SheetInstallers = "Instaladores"
	SheetJobs       = "Jobs"
	SheetFamilies   = "Famílias"
	SheetItems      = "Itens"
)

type sheet struct {
	name   string
	header []string
	widths []float64
	rows   [][]any
}

// ReportWorkbook renders one sheet per report table.
type ReportWorkbook struct{}

func NewReportWorkbook() ReportWorkbook {
	return ReportWorkbook{}
}

func (ReportWorkbook) Render(report domain.ProductivityReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []sheet{
		installerSheet(report.ByInstaller),
		jobSheet(report.ByJob),
		familySheet(report.ByFamily),
		itemSheet(report.ByItem),
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", s.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	for i, width := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(s.name, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, s.name, err)
		}
	}
	return nil
}

func installerSheet(rows []domain.InstallerRow) sheet {
	s := sheet{
		name:   SheetInstallers,
		header: []string{"Instalador", "Área (m²)", "Tempo líquido (min)", "Sessões", "Jobs", "Produtividade (m²/h)"},
		widths: []float64{30, 14, 20, 10, 10, 22},
	}
	for _, r := range rows {
		s.rows = append(s.rows, []any{r.InstallerName, r.AreaM2, r.NetMinutes, r.Sessions, r.Jobs, optional(r.ProductivityM2PerH)})
	}
	return s
}

func jobSheet(rows []domain.JobRow) sheet {
	s := sheet{
		name:   SheetJobs,
		header: []string{"Job", "Título", "Cliente", "Área catálogo (m²)", "Área executada (m²)", "Tempo líquido (min)", "Sessões", "Instaladores", "Produtividade (m²/h)"},
		widths: []float64{12, 36, 30, 18, 18, 20, 10, 12, 22},
	}
	for _, r := range rows {
		s.rows = append(s.rows, []any{r.ExternalJobID, r.Title, r.ClientName, r.CatalogAreaM2, r.ExecutedAreaM2, r.NetMinutes, r.Sessions, r.Installers, optional(r.ProductivityM2PerH)})
	}
	return s
}

func familySheet(rows []domain.FamilyRow) sheet {
	s := sheet{
		name:   SheetFamilies,
		header: []string{"Família", "Área (m²)", "Tempo líquido (min)", "Itens", "Jobs", "Instaladores", "Produtividade (m²/h)"},
		widths: []float64{28, 14, 20, 10, 10, 12, 22},
	}
	for _, r := range rows {
		s.rows = append(s.rows, []any{r.FamilyName, r.AreaM2, r.NetMinutes, r.Items, r.Jobs, r.Installers, optional(r.ProductivityM2PerH)})
	}
	return s
}

func itemSheet(rows []domain.ItemRow) sheet {
	s := sheet{
		name:   SheetItems,
		header: []string{"Job", "Item", "Família", "Área catálogo (m²)", "Área executada (m²)", "Tempo líquido (min)", "Sessões", "Instaladores", "Produtividade (m²/h)"},
		widths: []float64{30, 36, 24, 18, 18, 20, 10, 12, 22},
	}
	for _, r := range rows {
		s.rows = append(s.rows, []any{r.JobTitle, r.ItemName, r.FamilyName, optional(r.CatalogAreaM2), r.ExecutedAreaM2, r.NetMinutes, r.Sessions, r.Installers, optional(r.ProductivityM2PerH)})
	}
	return s
}

// optional leaves the cell blank for a missing value.
func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
