// Package reports serves read-only views of the calendar: statistics,
// category lists and file exports.
package reports

import (
	"time"

	"github.com/aevon-lab/calendar-engine/internal/calendar"
	"github.com/aevon-lab/calendar-engine/internal/export"
	"github.com/gin-gonic/gin"
)

// Service exposes reports over HTTP.
type Service struct {
	store     *calendar.Store
	exporter  *export.Exporter
	weekStart time.Weekday
	now       func() time.Time
}

// Options configures a Service.
type Options struct {
	WeekStart time.Weekday
	// Now is the reference instant for statistics and export file names.
	Now func() time.Time
	// Location is the calendar's zone. Today, this week and this month are
	// the dates of Now read in Location. Nil keeps Now's own zone.
	Location *time.Location
}

// NewService creates the reports service.
func NewService(store *calendar.Store, exporter *export.Exporter, opts Options) *Service {
	if store == nil {
		panic("reports: store must not be nil")
	}
	if exporter == nil {
		exporter = export.New(export.Options{Now: opts.Now})
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if loc, clock := opts.Location, opts.Now; loc != nil {
		opts.Now = func() time.Time { return clock().In(loc) }
	}
	return &Service{
		store:     store,
		exporter:  exporter,
		weekStart: opts.WeekStart,
		now:       opts.Now,
	}
}

// RegisterRoutes registers the report routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/stats", s.StatsHandler)
	r.GET("/v1/categories", s.CategoriesHandler)
	r.GET("/v1/export", s.ExportHandler)
}
