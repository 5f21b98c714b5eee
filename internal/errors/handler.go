package errors

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"vinstats/internal/infrastructure"
)

// ErrorHandler provides centralized error handling with RFC 7807 responses
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger}
}

// HandleError converts an error into an RFC 7807 problem response
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.ErrorToProblem(r, err)

	logAttrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()),
	}
	if problem.TraceID != "" {
		logAttrs = append(logAttrs, slog.String("trace_id", problem.TraceID))
	}

	if problem.Status >= 500 {
		h.logger.LogAttrs(r.Context(), slog.LevelError, "request failed", logAttrs...)
	} else {
		h.logger.LogAttrs(r.Context(), slog.LevelWarn, "request rejected", logAttrs...)
	}

	if renderErr := problem.Render(w, r); renderErr != nil {
		h.logger.Error("failed to write error response", slog.String("error", renderErr.Error()))
	}
}

// ErrorToProblem maps known error types to problem details
func (h *ErrorHandler) ErrorToProblem(r *http.Request, err error) *ProblemDetails {
	var problem *ProblemDetails

	switch e := err.(type) {
	case *ProblemDetails:
		problem = e
	case *APIError:
		problem = NewProblem(e.StatusCode, e.Message, "")
		problem.WithExtension("error_code", e.ErrorCode)
		if e.Details != nil {
			problem.WithExtension("details", e.Details)
		}
	default:
		problem = NewProblem(http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}

	problem.WithInstance(r.URL.Path)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithTraceID(traceID)
	}
	return problem
}

// HandlePanic recovers from panics and returns a 500 problem response
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	h.logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("panic", fmt.Sprintf("%v", recovered)),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblem(http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	problem.WithInstance(r.URL.Path)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithTraceID(traceID)
	}
	_ = problem.Render(w, r)
}

// NotFound handles unmatched routes with a problem response
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblem(http.StatusNotFound, "Not Found",
		fmt.Sprintf("The requested resource %s was not found", r.URL.Path))
	problem.WithInstance(r.URL.Path)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithTraceID(traceID)
	}
	_ = problem.Render(w, r)
}

// MethodNotAllowed handles unsupported methods with a problem response
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblem(http.StatusMethodNotAllowed, "Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for %s", r.Method, r.URL.Path))
	problem.WithInstance(r.URL.Path)
	_ = problem.Render(w, r)
}
