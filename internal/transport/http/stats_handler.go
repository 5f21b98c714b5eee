package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "vinstats/internal/errors"
	"vinstats/internal/exporter"
	"vinstats/internal/services"
)

const requestDateLayout = "2006-01-02"

// statsRequest is the JSON body of the summary and export endpoints.
type statsRequest struct {
	Files        []string `json:"files"`
	Organization string   `json:"organization"`
	DateFrom     string   `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo       string   `json:"date_to" validate:"required,datetime=2006-01-02"`
}

// StatsHandler serves the statistics API endpoints.
type StatsHandler struct {
	service      StatsService
	validator    *validator.Validate
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewStatsHandler creates a stats handler with its own validator instance.
func NewStatsHandler(service StatsService, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		service:      service,
		validator:    validator.New(),
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// Routes mounts the stats endpoints on a chi router.
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/files", h.handleFiles)
	r.Get("/organizations", h.handleOrganizations)
	r.Post("/summary", h.handleSummary)
	r.Post("/export", h.handleExport)
	r.Post("/reload", h.handleReload)
	return r
}

func (h *StatsHandler) handleFiles(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Files(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{"files": found})
}

func (h *StatsHandler) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	fileNames := r.URL.Query()["file"]
	overview, err := h.service.Organizations(r.Context(), fileNames)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}
	render.JSON(w, r, overview)
}

func (h *StatsHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}
	render.JSON(w, r, summary)
}

func (h *StatsHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	filename, data, err := h.service.Export(r.Context(), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	w.Header().Set("Content-Type", exporter.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export body",
			slog.String("error", err.Error()))
	}
}

func (h *StatsHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	h.service.Reload(r.Context())
	render.JSON(w, r, map[string]string{"status": "reloaded"})
}

// parseFilter decodes and validates the request body. Invalid dates are
// rejected here, before the service is ever called.
func (h *StatsHandler) parseFilter(w http.ResponseWriter, r *http.Request) (services.StatsFilter, bool) {
	var req statsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return services.StatsFilter{}, false
	}

	if err := h.validator.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return services.StatsFilter{}, false
	}

	from, err := time.Parse(requestDateLayout, req.DateFrom)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("date_from", "must be a YYYY-MM-DD date"))
		return services.StatsFilter{}, false
	}
	to, err := time.Parse(requestDateLayout, req.DateTo)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("date_to", "must be a YYYY-MM-DD date"))
		return services.StatsFilter{}, false
	}

	return services.StatsFilter{
		Files:        req.Files,
		Organization: req.Organization,
		From:         from.UTC(),
		To:           to.UTC(),
	}, true
}

// mapServiceError translates service sentinels into API errors; everything
// else passes through for the 500 fallback.
func (h *StatsHandler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange):
		return apierrors.ErrValidation("date_from", services.ErrInvalidDateRange.Error())
	case errors.Is(err, services.ErrUnknownFile):
		return apierrors.NewWithDetails(http.StatusBadRequest, "UNKNOWN_FILE", "Requested file is not available", err.Error())
	case errors.Is(err, services.ErrNoFiles):
		return apierrors.NotFoundError("data files")
	default:
		return err
	}
}

// validationProblem converts validator errors into one VALIDATION_FAILED
// response listing every failing field.
func validationProblem(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	fields := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("failed validation on %q", fe.Tag())
		if fe.Tag() == "datetime" {
			msg = "must be a YYYY-MM-DD date"
		}
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: msg,
		})
	}
	return apierrors.NewValidationErrors(fields)
}
