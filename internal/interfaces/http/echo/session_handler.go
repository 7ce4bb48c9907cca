package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/field-productivity/internal/application/productivity"
)

type SessionHandler struct {
	checkIn    app.CheckIn
	pause      app.PauseSession
	resume     app.ResumeSession
	checkOut   app.CheckOut
	listPauses app.ListSessionPauses
	delete     app.DeleteSession
	list       app.ListSessions
	detail     app.GetSessionDetail
}

type SessionUseCases struct {
	CheckIn    app.CheckIn
	Pause      app.PauseSession
	Resume     app.ResumeSession
	CheckOut   app.CheckOut
	ListPauses app.ListSessionPauses
	Delete     app.DeleteSession
	List       app.ListSessions
	Detail     app.GetSessionDetail
}

type checkInRequest struct {
	ItemID string        `json:"item_id"`
	Photo  string        `json:"photo"`
	GPS    *app.GeoPoint `json:"gps"`
}

type pauseRequest struct {
	Reason string `json:"reason"`
}

type checkOutRequest struct {
	Photo            string        `json:"photo"`
	GPS              *app.GeoPoint `json:"gps"`
	InstalledAreaM2  *float64      `json:"installed_m2"`
	ComplexityLevel  *int          `json:"complexity_level"`
	HeightCategory   *string       `json:"height_category"`
	ScenarioCategory *string       `json:"scenario_category"`
	Notes            string        `json:"notes"`
}

func NewSessionHandler(uc SessionUseCases) *SessionHandler {
	return &SessionHandler{
		checkIn:    uc.CheckIn,
		pause:      uc.Pause,
		resume:     uc.Resume,
		checkOut:   uc.CheckOut,
		listPauses: uc.ListPauses,
		delete:     uc.Delete,
		list:       uc.List,
		detail:     uc.Detail,
	}
}

func (h *SessionHandler) CheckIn(c echo.Context) error {
	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.checkIn.Execute(c.Request().Context(), app.CheckInInput{
		JobID:  c.Param("id"),
		ItemID: req.ItemID,
		Photo:  req.Photo,
		GPS:    req.GPS,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *SessionHandler) Pause(c echo.Context) error {
	var req pauseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.pause.Execute(c.Request().Context(), app.PauseSessionInput{
		SessionID: c.Param("id"),
		Reason:    req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *SessionHandler) Resume(c echo.Context) error {
	out, err := h.resume.Execute(c.Request().Context(), app.ResumeSessionInput{SessionID: c.Param("id")})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *SessionHandler) CheckOut(c echo.Context) error {
	var req checkOutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	out, err := h.checkOut.Execute(c.Request().Context(), app.CheckOutInput{
		SessionID:        c.Param("id"),
		Photo:            req.Photo,
		GPS:              req.GPS,
		InstalledAreaM2:  req.InstalledAreaM2,
		ComplexityLevel:  req.ComplexityLevel,
		HeightCategory:   req.HeightCategory,
		ScenarioCategory: req.ScenarioCategory,
		Notes:            req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *SessionHandler) ListPauses(c echo.Context) error {
	out, err := h.listPauses.Execute(c.Request().Context(), app.ListSessionPausesInput{SessionID: c.Param("id")})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *SessionHandler) Delete(c echo.Context) error {
	if err := h.delete.Execute(c.Request().Context(), app.DeleteSessionInput{SessionID: c.Param("id")}); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *SessionHandler) List(c echo.Context) error {
	out, err := h.list.Execute(c.Request().Context(), app.ListSessionsInput{
		JobID:       c.QueryParam("job_id"),
		InstallerID: c.QueryParam("installer_id"),
		Status:      c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *SessionHandler) Detail(c echo.Context) error {
	out, err := h.detail.Execute(c.Request().Context(), app.GetSessionDetailInput{SessionID: c.Param("id")})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
