package events

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/calendar"
	httperr "github.com/aevon-lab/calendar-engine/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed = "Failed to read request body"
	msgInvalidJSON    = "Invalid JSON body"
	msgEventNotFound  = "Event not found"
	msgInternal       = "Internal error"
)

// apiError carries the structured HTTP error shape from a helper back to the
// handler. Helpers return it instead of writing to gin.Context directly.
type apiError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *apiError) Error() string {
	return e.message
}

// CreateHandler handles POST /v1/events.
func (s *Service) CreateHandler(c *gin.Context) {
	in, apiErr := s.parseInput(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	evt, err := s.store.Create(c.Request.Context(), in, policyFor(c))
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	slog.Info("[Events] Event created",
		"event_id", evt.ID,
		"recurrence", evt.Recurrence,
		"date", evt.Date)
	c.JSON(http.StatusCreated, evt)
}

// ListHandler handles GET /v1/events and returns the masters.
func (s *Service) ListHandler(c *gin.Context) {
	filter := calendar.Filter{Query: c.Query("q"), Category: c.Query("category")}
	events := filter.Apply(s.store.Masters())
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// GetHandler handles GET /v1/events/:id.
func (s *Service) GetHandler(c *gin.Context) {
	evt, err := s.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, storeError(err))
		return
	}
	c.JSON(http.StatusOK, evt)
}

// UpdateHandler handles PUT /v1/events/:id.
func (s *Service) UpdateHandler(c *gin.Context) {
	in, apiErr := s.parseInput(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	evt, err := s.store.Update(c.Request.Context(), c.Param("id"), in, policyFor(c))
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	slog.Info("[Events] Event updated", "event_id", evt.ID)
	c.JSON(http.StatusOK, evt)
}

// DeleteHandler handles DELETE /v1/events/:id. Unknown ids also return 204.
func (s *Service) DeleteHandler(c *gin.Context) {
	id := c.Param("id")
	if s.store.Delete(c.Request.Context(), id) {
		slog.Info("[Events] Event deleted", "event_id", id)
	}
	c.Status(http.StatusNoContent)
}

// MoveHandler handles POST /v1/events/:id/move.
func (s *Service) MoveHandler(c *gin.Context) {
	var req moveRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		writeError(c, apiErr)
		return
	}

	day, err := parseDay(req.Date, s.loc)
	if err != nil {
		writeError(c, validationFailed(&v1.ValidationError{Field: "date", Message: err.Error()}))
		return
	}

	evt, err := s.store.Move(c.Request.Context(), c.Param("id"), day, policyFor(c))
	if err != nil {
		writeError(c, storeError(err))
		return
	}

	slog.Info("[Events] Event moved", "event_id", evt.ID, "date", evt.Date)
	c.JSON(http.StatusOK, evt)
}

// ConflictsHandler handles POST /v1/conflicts. It previews the masters a
// candidate would clash with, without changing anything. ?exclude= skips the
// event being edited.
func (s *Service) ConflictsHandler(c *gin.Context) {
	in, apiErr := s.parseInput(c)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	in.Normalize()
	if err := in.Validate(); err != nil {
		writeError(c, storeError(err))
		return
	}

	exclude := c.Query("exclude")
	conflicts := s.store.ConflictsFor(in.ToEvent(exclude), exclude)

	resp := gin.H{
		"conflicts": conflicts,
		"count":     len(conflicts),
	}
	if len(conflicts) > 0 {
		action := calendar.ActionCreate
		if exclude != "" {
			action = calendar.ActionUpdate
		}
		resp["message"] = calendar.ConflictRequest{Action: action, Conflicts: conflicts}.Message()
	}
	c.JSON(http.StatusOK, resp)
}

// OccurrencesHandler handles GET /v1/occurrences.
//
//	?date=YYYY-MM-DD   events on that day
//	?month=YYYY-MM     all occurrences within that month
//	(neither)          all occurrences within the horizon
//
// q and category filter the result.
func (s *Service) OccurrencesHandler(c *gin.Context) {
	var events []v1.Event

	switch {
	case c.Query("date") != "":
		day, err := parseDay(c.Query("date"), s.loc)
		if err != nil {
			writeError(c, validationFailed(&v1.ValidationError{Field: "date", Message: err.Error()}))
			return
		}
		events = s.store.OccurrencesOnDate(day)

	case c.Query("month") != "":
		month, err := parseMonth(c.Query("month"), s.loc)
		if err != nil {
			writeError(c, validationFailed(&v1.ValidationError{Field: "month", Message: err.Error()}))
			return
		}
		for _, e := range s.store.AllOccurrences() {
			if y, m, _ := e.Date.Date(); y == month.Year() && m == month.Month() {
				events = append(events, e)
			}
		}

	default:
		events = s.store.AllOccurrences()
	}

	filter := calendar.Filter{Query: c.Query("q"), Category: c.Query("category")}
	events = filter.Apply(events)

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// parseInput binds an eventRequest and converts it to store input.
func (s *Service) parseInput(c *gin.Context) (v1.EventInput, *apiError) {
	var req eventRequest
	if apiErr := s.bindJSON(c, &req); apiErr != nil {
		return v1.EventInput{}, apiErr
	}

	in, err := req.toInput(s.loc)
	if err != nil {
		return v1.EventInput{}, storeError(err)
	}
	return in, nil
}

// bindJSON reads at most maxBodySizeBytes and decodes them into dst.
func (s *Service) bindJSON(c *gin.Context, dst interface{}) *apiError {
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("[Events] Failed to read request body", "error", err)
		return &apiError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("[Events] Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return &apiError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	if err := c.ShouldBindJSON(dst); err != nil {
		slog.Warn("[Events] Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return &apiError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}
	return nil
}

// policyFor maps ?force=true to Allow. Everything else blocks on conflict.
func policyFor(c *gin.Context) calendar.Policy {
	if force, _ := strconv.ParseBool(c.Query("force")); force {
		return calendar.Allow
	}
	return calendar.Block
}

// storeError maps store and validation errors to HTTP errors.
func storeError(err error) *apiError {
	var verr *v1.ValidationError
	if errors.As(err, &verr) {
		return validationFailed(verr)
	}

	if errors.Is(err, calendar.ErrNotFound) {
		return &apiError{
			statusCode: http.StatusNotFound,
			errorType:  httperr.HttpEventNotFoundError,
			message:    msgEventNotFound,
		}
	}

	var blocked *calendar.BlockedError
	if errors.As(err, &blocked) {
		req := calendar.ConflictRequest{Action: blocked.Action, Conflicts: blocked.Conflicts}
		return &apiError{
			statusCode: http.StatusConflict,
			errorType:  httperr.HttpEventConflictError,
			message:    req.Message(),
			details: map[string]interface{}{
				"action":    blocked.Action,
				"conflicts": blocked.Conflicts,
			},
		}
	}

	slog.Error("[Events] Unexpected store error", "error", err)
	return &apiError{
		statusCode: http.StatusInternalServerError,
		errorType:  httperr.HttpInternalError,
		message:    msgInternal,
	}
}

func validationFailed(verr *v1.ValidationError) *apiError {
	return &apiError{
		statusCode: http.StatusBadRequest,
		errorType:  httperr.HttpValidationError,
		message:    verr.Error(),
		details:    verr.Details(),
	}
}

// writeError serializes an apiError as the JSON HTTP response.
func writeError(c *gin.Context, err *apiError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
