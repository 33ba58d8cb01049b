package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wayline/wayline/internal/api/models"
	"github.com/wayline/wayline/internal/api/response"
	"github.com/wayline/wayline/internal/route"
	"github.com/wayline/wayline/internal/sheets"
)

// maxUploadBytes caps CSV upload size at 5 MiB.
const maxUploadBytes = 5 << 20

// RouteHandler handles route planning endpoints.
type RouteHandler struct {
	planner  *route.Service
	importer *sheets.Importer
	logger   zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(planner *route.Service, importer *sheets.Importer, logger zerolog.Logger) *RouteHandler {
	return &RouteHandler{
		planner:  planner,
		importer: importer,
		logger:   logger,
	}
}

// ListRoutes handles GET /v1/routes - route history with stops.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.planner.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, routes)
}

// GetRoute handles GET /v1/routes/{routeId} - single route with stops.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	result, err := h.planner.Get(r.Context(), routeID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// PlanRoute handles POST /v1/routes:plan - plan from manual input.
func (h *RouteHandler) PlanRoute(w http.ResponseWriter, r *http.Request) {
	var input models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.planner.PlanManual(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/routes/"+result.ID, result)
}

// UploadRoute handles POST /v1/routes:upload - plan from an uploaded CSV.
// Accepts a multipart form with a "file" part, or a raw CSV request body.
func (h *RouteHandler) UploadRoute(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var records []map[string]string
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			response.BadRequest(w, r, "missing file upload", nil)
			return
		}
		defer file.Close()

		records, err = route.ReadCSVRecords(file)
		if err != nil {
			response.BadRequest(w, r, "could not parse CSV file", nil)
			return
		}
	} else {
		var err error
		records, err = route.ReadCSVRecords(r.Body)
		if err != nil {
			response.BadRequest(w, r, "could not parse CSV body", nil)
			return
		}
	}

	result, err := h.planner.PlanCSV(r.Context(), records)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/routes/"+result.ID, result)
}

// ImportSheet handles POST /v1/routes:import-sheet - plan from a Google
// Sheet link.
func (h *RouteHandler) ImportSheet(w http.ResponseWriter, r *http.Request) {
	var input models.SheetImportRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.URL == "" {
		response.BadRequest(w, r, "url is required", []models.FieldError{
			{Field: "url", Message: "is required"},
		})
		return
	}

	records, err := h.importer.Fetch(r.Context(), input.URL)
	if err != nil {
		switch {
		case errors.Is(err, sheets.ErrNotConfigured):
			response.ServiceUnavailable(w, r, "spreadsheet import is not configured")
		case errors.Is(err, sheets.ErrInvalidLink):
			response.BadRequest(w, r, "not a valid Google Sheet link", []models.FieldError{
				{Field: "url", Message: "must be a Google Sheet sharing link"},
			})
		case errors.Is(err, sheets.ErrEmptySheet):
			response.BadRequest(w, r, "spreadsheet has no data rows", nil)
		default:
			h.logger.Error().Err(err).Msg("sheet import failed")
			response.InternalError(w, r, "could not read spreadsheet")
		}
		return
	}

	result, err := h.planner.PlanSheet(r.Context(), records)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, r, "/v1/routes/"+result.ID, result)
}

// writeError maps planner errors to problem responses.
func (h *RouteHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *route.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation failed", validationErr.Errors)
	case errors.Is(err, route.ErrRouteNotFound):
		response.NotFound(w, r, "route not found")
	default:
		h.logger.Error().Err(err).Msg("route operation failed")
		response.InternalError(w, r, "an unexpected error occurred")
	}
}
