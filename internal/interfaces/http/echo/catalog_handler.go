package echo

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
)

// PhotoReader streams stored check-in and checkout photos.
type PhotoReader interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

type CatalogHandler struct {
	uc     CatalogUseCases
	photos PhotoReader
}

type CatalogUseCases struct {
	CreateFamily           app.CreateFamily
	ListFamilies           app.ListFamilies
	CreateInstaller        app.CreateInstaller
	ListInstallers         app.ListInstallers
	UpdateInstaller        app.UpdateInstaller
	ListBenchmarks         app.ListBenchmarks
	RecomputeBenchmarks    app.RecomputeBenchmarks
	EstimateInstallTime    app.EstimateInstallTime
	RecordInstalledProduct app.RecordInstalledProduct
	ListInstalledProducts  app.ListInstalledProducts
}

type createFamilyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

type createInstallerRequest struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
	Branch   string `json:"branch"`
	Phone    string `json:"phone"`
}

type updateInstallerRequest struct {
	FullName *string `json:"full_name"`
	Branch   *string `json:"branch"`
	Phone    *string `json:"phone"`
}

type installedProductRequest struct {
	JobID            string   `json:"job_id"`
	ProductName      string   `json:"product_name"`
	FamilyName       string   `json:"family_name"`
	WidthM           *float64 `json:"width_m"`
	HeightM          *float64 `json:"height_m"`
	AreaM2           *float64 `json:"area_m2"`
	ComplexityLevel  *int     `json:"complexity_level"`
	HeightCategory   *string  `json:"height_category"`
	ScenarioCategory *string  `json:"scenario_category"`
	EstimatedTimeMin *int     `json:"estimated_time_min"`
	ActualTimeMin    int      `json:"actual_time_min"`
	InstallersCount  int      `json:"installers_count"`
	Notes            string   `json:"notes"`
	CauseNotes       string   `json:"cause_notes"`
}

func NewCatalogHandler(uc CatalogUseCases, photos PhotoReader) *CatalogHandler {
	return &CatalogHandler{uc: uc, photos: photos}
}

func (h *CatalogHandler) ListFamilies(c echo.Context) error {
	out, err := h.uc.ListFamilies.Execute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CatalogHandler) CreateFamily(c echo.Context) error {
	var req createFamilyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.uc.CreateFamily.Execute(c.Request().Context(), app.CreateFamilyInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *CatalogHandler) ListInstallers(c echo.Context) error {
	out, err := h.uc.ListInstallers.Execute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CatalogHandler) CreateInstaller(c echo.Context) error {
	var req createInstallerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.uc.CreateInstaller.Execute(c.Request().Context(), app.CreateInstallerInput{
		UserID:   req.UserID,
		FullName: req.FullName,
		Branch:   req.Branch,
		Phone:    req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *CatalogHandler) UpdateInstaller(c echo.Context) error {
	var req updateInstallerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.uc.UpdateInstaller.Execute(c.Request().Context(), app.UpdateInstallerInput{
		ID:       c.Param("id"),
		FullName: req.FullName,
		Branch:   req.Branch,
		Phone:    req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CatalogHandler) ListBenchmarks(c echo.Context) error {
	out, err := h.uc.ListBenchmarks.Execute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CatalogHandler) RecomputeBenchmarks(c echo.Context) error {
	out, err := h.uc.RecomputeBenchmarks.Execute(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CatalogHandler) EstimateInstallTime(c echo.Context) error {
	var in app.EstimateInstallTimeInput
	err := echo.QueryParamsBinder(c).
		MustString("family_id", &in.FamilyID).
		MustInt("complexity_level", &in.ComplexityLevel).
		String("height_category", &in.HeightCategory).
		String("scenario_category", &in.ScenarioCategory).
		MustFloat64("area_m2", &in.AreaM2).
		BindError()
	if err != nil {
		return badRequest(c, "family_id, complexity_level and area_m2 are required")
	}

	out, err := h.uc.EstimateInstallTime.Execute(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CatalogHandler) ListInstalledProducts(c echo.Context) error {
	out, err := h.uc.ListInstalledProducts.Execute(c.Request().Context(), app.ListInstalledProductsInput{
		JobID: c.QueryParam("job_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *CatalogHandler) RecordInstalledProduct(c echo.Context) error {
	var req installedProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.uc.RecordInstalledProduct.Execute(c.Request().Context(), app.RecordInstalledProductInput{
		JobID:            req.JobID,
		ProductName:      req.ProductName,
		FamilyName:       req.FamilyName,
		WidthM:           req.WidthM,
		HeightM:          req.HeightM,
		AreaM2:           req.AreaM2,
		ComplexityLevel:  req.ComplexityLevel,
		HeightCategory:   req.HeightCategory,
		ScenarioCategory: req.ScenarioCategory,
		EstimatedTimeMin: req.EstimatedTimeMin,
		ActualTimeMin:    req.ActualTimeMin,
		InstallersCount:  req.InstallersCount,
		Notes:            req.Notes,
		CauseNotes:       req.CauseNotes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *CatalogHandler) Photo(c echo.Context) error {
	rc, err := h.photos.Open(c.Request().Context(), c.Param("ref"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c.JSON(http.StatusNotFound, apiResponse{Error: &errorBody{
				Code:    "not_found",
				Message: "photo not found",
			}})
		}
		return badRequest(c, "invalid photo reference")
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(c.Param("ref")))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
