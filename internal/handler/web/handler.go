package web

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"EconDash/internal/domain/models"
	domrepo "EconDash/internal/domain/repository"
	"EconDash/internal/usecase"
	xhttp "EconDash/pkg/http"
	applogger "EconDash/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionCookie identifies a dashboard session.
const SessionCookie = "econdash_session"

const rateLimitedMessage = "Too many forecast requests, please wait a moment"

// DashboardHandler serves the dashboard page, its charts, the JSON API and
// the live-update websocket.
type DashboardHandler struct {
	logger   *applogger.Logger
	sessions *usecase.SessionRegistry
	limiter  domrepo.SubmitLimiter
	hub      *StateHub
	metrics  domrepo.Metrics
}

func NewDashboardHandler(
	logger *applogger.Logger,
	sessions *usecase.SessionRegistry,
	limiter domrepo.SubmitLimiter,
	hub *StateHub,
	metrics domrepo.Metrics,
) *DashboardHandler {
	return &DashboardHandler{
		logger:   logger,
		sessions: sessions,
		limiter:  limiter,
		hub:      hub,
		metrics:  metrics,
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Dashboard)
	e.POST("/forecast", h.SubmitForm)
	e.GET("/charts", h.Charts)
	e.GET("/ws", h.Updates)
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/state", h.State)
	g.POST("/forecast", h.SubmitJSON)
}

// Dashboard renders the page for the caller's session. The query string
// carries the last typed input back into the form.
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctrl := h.controller(c)

	form := models.SubmitForm{}
	if verr := xhttp.ReadAndValidateRequest(c, &form); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	page, err := renderDashboard(newDashboardView(ctrl.Validator(), ctrl.State(), form))
	if err != nil {
		h.logger.Error("dashboard render error", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTMLBlob(http.StatusOK, page)
}

// SubmitForm handles the HTML form. Input is passed to the controller as
// typed; no defaults are applied here.
func (h *DashboardHandler) SubmitForm(c echo.Context) error {
	form := models.SubmitForm{}
	if err := c.Bind(&form); err != nil {
		return xhttp.BadRequestResponse(c, xhttp.ValidationErrors(err))
	}

	if err := h.allow(c); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	ctrl := h.controller(c)
	ctrl.Submit(c.Request().Context(), form.Country, string(form.Months))

	q := url.Values{}
	q.Set("country", form.Country)
	q.Set("months", string(form.Months))
	return c.Redirect(http.StatusSeeOther, "/?"+q.Encode())
}

type submitResult struct {
	Phase models.Phase `json:"phase"`
	Seq   uint64       `json:"seq"`
}

// SubmitJSON is the API form of SubmitForm. Months defaults to 1.
func (h *DashboardHandler) SubmitJSON(c echo.Context) error {
	form := &models.SubmitForm{}
	if verr := xhttp.ReadAndValidateRequest(c, form); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.allow(c); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	task := h.controller(c).Submit(c.Request().Context(), form.Country, string(form.Months))
	if task.Rejected() {
		s, _ := task.Wait(c.Request().Context())
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(s.Message).WithParam("seq", task.Seq()))
	}
	return xhttp.AcceptedResponse(c, submitResult{Phase: models.PhaseLoading, Seq: task.Seq()})
}

// State returns the session state with chart series and analysis panel.
func (h *DashboardHandler) State(c echo.Context) error {
	return xhttp.SuccessResponse(c, newStateView(h.controller(c).State()))
}

// Charts renders the chart page of the current Success state.
func (h *DashboardHandler) Charts(c echo.Context) error {
	s := h.controller(c).State()
	if !s.IsSuccess() {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no forecast to chart").WithParam("phase", s.Phase))
	}

	var buf bytes.Buffer
	if err := renderCharts(&buf, usecase.Project(s.Predictions)); err != nil {
		h.logger.Error("charts render error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("chart render failed").WithError(err))
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// Updates streams state transitions over a websocket.
func (h *DashboardHandler) Updates(c echo.Context) error {
	return h.hub.Serve(c, h.controller(c))
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":   "ok",
		"sessions": h.sessions.Len(),
		"time":     time.Now().UTC(),
	})
}

func (h *DashboardHandler) allow(c echo.Context) error {
	ok, err := h.limiter.Allow(c.Request().Context(), c.RealIP())
	if err != nil {
		// A broken limiter backend must not take the dashboard down.
		h.metrics.RecordError("rate_limit")
		h.logger.Warn("rate limiter error", applogger.Error(err))
		return nil
	}
	if !ok {
		h.metrics.RecordSubmit("rate_limited")
		h.logger.Warn("forecast submit rate_limited", applogger.String("remote", c.RealIP()))
		return xhttp.TooManyRequestsError(rateLimitedMessage)
	}
	return nil
}

// controller returns the caller's session controller, issuing a session
// cookie when the request has none.
func (h *DashboardHandler) controller(c echo.Context) *usecase.Controller {
	return h.sessions.Get(sessionID(c))
}

func sessionID(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(ck.Value); err == nil {
			return ck.Value
		}
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Later lookups within the same request must see the new id.
	c.Request().AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	return id
}
