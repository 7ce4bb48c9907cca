package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/export"
)

func TestReportWorkbookHasOneSheetPerTable(t *testing.T) {
	t.Parallel()

	prod := 4.8
	report := domain.ProductivityReport{
		ByInstaller: []domain.InstallerRow{{InstallerID: "inst-a", InstallerName: "Ana", AreaM2: 4, NetMinutes: 50, Sessions: 2, Jobs: 1, ProductivityM2PerH: &prod}},
		ByJob:       []domain.JobRow{{JobID: "job-1", ExternalJobID: "4242", Title: "Loja Centro", CatalogAreaM2: 7, ExecutedAreaM2: 7}},
		ByFamily:    []domain.FamilyRow{{FamilyName: "Adesivos", AreaM2: 1}},
		ByItem:      []domain.ItemRow{{JobTitle: "Loja Centro", ItemName: "Serviço"}},
	}

	content, err := export.NewReportWorkbook().Render(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetInstallers, export.SheetJobs, export.SheetFamilies, export.SheetItems}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetInstallers)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Instalador", rows[0][0])
	assert.Equal(t, "Ana", rows[1][0])
	assert.Equal(t, "4.8", rows[1][5])

	items, err := f.GetRows(export.SheetItems)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Serviço", items[1][1])
}

func TestReportWorkbookEmptyReport(t *testing.T) {
	t.Parallel()

	content, err := export.NewReportWorkbook().Render(domain.ProductivityReport{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetJobs)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
