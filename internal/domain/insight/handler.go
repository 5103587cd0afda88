package insight

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthnexus/nexus/internal/domain/observation"
	"github.com/healthnexus/nexus/internal/platform/inference"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.POST("/insightsRad", h.RadiologyInsight)
	e.POST("/insightsGenome", h.GenomeInsight)
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Message: runningMessage})
}

func (h *Handler) RadiologyInsight(c echo.Context) error {
	var req RadiologyInsightRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	return c.JSON(http.StatusOK, h.svc.RadiologyInsight(c.Request().Context(), req))
}

func (h *Handler) GenomeInsight(c echo.Context) error {
	var req GenomeInsightRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	resp, err := h.svc.GenomeInsight(c.Request().Context(), req)
	if err != nil {
		return genomeError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// genomeError maps lookup and interpreter failures to HTTP errors.
func genomeError(err error) error {
	var notFound *observation.NotFoundError
	switch {
	case errors.Is(err, observation.ErrMissingIdentifier):
		return echo.NewHTTPError(http.StatusBadRequest, "Missing patient_id or subject in request body.")
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Error())
	case inference.Outcome(err) == inference.OutcomeTimeout:
		return echo.NewHTTPError(http.StatusGatewayTimeout, "genome agent timed out").SetInternal(err)
	case errors.Is(err, inference.ErrUpstream):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error()).SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}
