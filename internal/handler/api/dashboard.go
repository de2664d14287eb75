package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"MarketBoard/internal/domain/models"
	"MarketBoard/internal/service/report"
	"MarketBoard/internal/usecase"
	xhttp "MarketBoard/pkg/http"
	xlogger "MarketBoard/pkg/logger"
)

// DashboardHandler exposes the board over HTTP.
type DashboardHandler struct {
	logger   *xlogger.Logger
	board    *usecase.DashboardUseCase
	exporter *report.Exporter
	started  time.Time
}

func NewDashboardHandler(logger *xlogger.Logger, board *usecase.DashboardUseCase, exporter *report.Exporter) *DashboardHandler {
	return &DashboardHandler{logger: logger, board: board, exporter: exporter, started: time.Now()}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dashboard", h.Dashboard)
	g.GET("/assets/:symbol", h.Asset)
	g.GET("/assets/:symbol/simulate", h.Simulate)
	g.GET("/correlation", h.Correlation)
	g.GET("/export", h.Export)
	g.GET("/health", h.Health)
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.board.Snapshot(c.Request().Context(), req.Indicators, req.Correlation)
	if err != nil {
		h.logger.Error("dashboard snapshot error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, snap)
}

func (h *DashboardHandler) Asset(c echo.Context) error {
	req := &models.AssetRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	card, err := h.board.Asset(c.Request().Context(), req.Symbol, req.Bars, req.Indicators)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownSymbol) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("symbol %s is not configured", req.Symbol))
		}
		h.logger.Error("asset lookup error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, card)
}

func (h *DashboardHandler) Simulate(c echo.Context) error {
	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	paths, err := h.board.SimulatePaths(c.Request().Context(), req.Symbol, req.Sims, req.Horizon)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownSymbol) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("symbol %s is not configured", req.Symbol))
		}
		if errors.Is(err, usecase.ErrNoHistory) {
			return xhttp.AppErrorResponse(c, xhttp.UnavailableError(err.Error()))
		}
		h.logger.Error("simulation error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, paths)
}

func (h *DashboardHandler) Correlation(c echo.Context) error {
	m, err := h.board.Correlation(c.Request().Context())
	if err != nil {
		h.logger.Error("correlation error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, m)
}

func (h *DashboardHandler) Export(c echo.Context) error {
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snap, err := h.board.Snapshot(c.Request().Context(), req.Indicators, true)
	if err != nil {
		h.logger.Error("export snapshot error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	filename := "marketboard-" + snap.GeneratedAt.Format("20060102-150405") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := h.exporter.Write(c.Response(), snap); err != nil {
		h.logger.Error("export write error", xlogger.Error(err))
		return err
	}
	return nil
}

func (h *DashboardHandler) Health(c echo.Context) error {
	payload := map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	}
	if col := h.logger.Collector(); col != nil {
		payload["recent_errors"] = col.Recent()
	}
	return xhttp.SuccessResponse(c, payload)
}
