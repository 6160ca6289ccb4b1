// Package handlers provides the HTTP handlers of the public API.
//
// Handlers are transport-thin: they bind and validate input, call the
// services through the interfaces below and translate results and errors
// into JSON responses.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-eco-backend/internal/domain"
	"github.com/tbourn/go-eco-backend/internal/history"
	"github.com/tbourn/go-eco-backend/internal/reminder"
	"github.com/tbourn/go-eco-backend/internal/utils"
)

// FootprintService is the footprint and history surface used by the API.
type FootprintService interface {
	Compute(ctx context.Context, in domain.FootprintInput) (domain.FootprintResult, error)
	Estimate(ctx context.Context, in domain.FootprintInput) (domain.FootprintResult, error)
	History(ctx context.Context) ([]domain.FootprintResult, error)
	HistoryPage(ctx context.Context, page, pageSize int) ([]domain.FootprintResult, int, error)
	Table(ctx context.Context) ([]history.TableRow, error)
	Chart(ctx context.Context) ([]history.ChartPoint, error)
	Summary(ctx context.Context) (history.Summary, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context) ([]byte, error)
	// Version returns the entry count and a change stamp used for ETags.
	Version(ctx context.Context) (int, int64, error)
}

// AssistantService answers free-text eco questions.
type AssistantService interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// ReminderService schedules one-off reminders.
type ReminderService interface {
	Schedule(message string, delay time.Duration) (reminder.Reminder, error)
	Cancel(id string) bool
	Pending() []reminder.Reminder
}

// Handlers groups the API endpoints.
type Handlers struct {
	fp   FootprintService
	asst AssistantService
	rem  ReminderService
}

// New binds the handlers to their services.
func New(fp FootprintService, asst AssistantService, rem ReminderService) *Handlers {
	return &Handlers{fp: fp, asst: asst, rem: rem}
}

// Pagination carries page metadata for list responses.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

func newPagination(page, pageSize, total int) Pagination {
	pages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
	}
}

// clampPagination reads page and page_size, bounded to [1, 100] items.
// The bool reports whether the client asked for paging at all.
func clampPagination(c *gin.Context) (page, pageSize int, paged bool) {
	const (
		defaultPageSize = 20
		maxPageSize     = 100
	)
	paged = c.Query("page") != "" || c.Query("page_size") != ""
	page = utils.AtoiDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, paged
}
