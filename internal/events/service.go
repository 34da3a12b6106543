package events

import (
	"time"

	"github.com/aevon-lab/calendar-engine/internal/calendar"
	"github.com/gin-gonic/gin"
)

// Service exposes the calendar store over HTTP.
type Service struct {
	store            *calendar.Store
	loc              *time.Location
	maxBodySizeBytes int
}

// NewService creates the events service. Naive request times are read in loc
// (nil means time.Local).
func NewService(store *calendar.Store, loc *time.Location, maxBodySizeMB int) *Service {
	if store == nil {
		panic("events: store must not be nil")
	}
	if loc == nil {
		loc = time.Local
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            store,
		loc:              loc,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the event and occurrence routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/events", s.CreateHandler)
	r.GET("/v1/events", s.ListHandler)
	r.GET("/v1/events/:id", s.GetHandler)
	r.PUT("/v1/events/:id", s.UpdateHandler)
	r.DELETE("/v1/events/:id", s.DeleteHandler)
	r.POST("/v1/events/:id/move", s.MoveHandler)

	r.POST("/v1/conflicts", s.ConflictsHandler)
	r.GET("/v1/occurrences", s.OccurrencesHandler)
}
