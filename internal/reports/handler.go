package reports

import (
	"bytes"
	"log/slog"
	"net/http"

	v1 "github.com/aevon-lab/calendar-engine/internal/api/v1"
	"github.com/aevon-lab/calendar-engine/internal/calendar"
	httperr "github.com/aevon-lab/calendar-engine/internal/core/errors"
	"github.com/aevon-lab/calendar-engine/internal/export"
	"github.com/aevon-lab/calendar-engine/internal/stats"
	"github.com/gin-gonic/gin"
)

// StatsHandler handles GET /v1/stats. Counts cover every occurrence inside
// the horizon, filtered by q and category.
func (s *Service) StatsHandler(c *gin.Context) {
	events := filterFrom(c).Apply(s.store.AllOccurrences())
	c.JSON(http.StatusOK, stats.Compute(events, s.now(), s.weekStart))
}

// CategoriesHandler handles GET /v1/categories.
func (s *Service) CategoriesHandler(c *gin.Context) {
	categories := calendar.Categories(s.store.Masters())
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// ExportHandler handles GET /v1/export?format=ics|csv|json|yaml&mode=occurrences|series.
// Series mode exports masters; occurrences mode exports the expanded horizon.
func (s *Service) ExportHandler(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		unsupported(c, "format", err)
		return
	}
	mode, err := export.ParseMode(c.Query("mode"))
	if err != nil {
		unsupported(c, "mode", err)
		return
	}

	var events []v1.Event
	if mode == export.ModeSeries {
		events = s.store.Masters()
	} else {
		events = s.store.AllOccurrences()
	}
	events = filterFrom(c).Apply(events)

	var buf bytes.Buffer
	if err := s.exporter.Write(&buf, format, mode, events); err != nil {
		slog.Error("[Reports] Export failed", "format", format, "mode", mode, "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Export failed",
		})
		return
	}

	slog.Info("[Reports] Calendar exported", "format", format, "mode", mode, "events", len(events))
	c.Header("Content-Disposition", `attachment; filename="`+format.Filename(s.now())+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func filterFrom(c *gin.Context) calendar.Filter {
	return calendar.Filter{Query: c.Query("q"), Category: c.Query("category")}
}

func unsupported(c *gin.Context, field string, err error) {
	c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
		ErrorType: httperr.HttpUnsupportedFormatError,
		Message:   err.Error(),
		Details:   map[string]interface{}{"field": field},
	})
}
