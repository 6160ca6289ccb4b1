// History HTTP handlers.
//
//   - GET    /history          (full log, or a page; weak ETag)
//   - GET    /history/table    (table projection)
//   - GET    /history/chart    (chart projection)
//   - GET    /history/summary  (aggregates)
//   - GET    /history/export   (download in stored format)
//   - DELETE /history          (clear; requires confirm=true)
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-eco-backend/internal/domain"
	"github.com/tbourn/go-eco-backend/internal/history"
)

// ExportFilename is the attachment name of GET /history/export.
const ExportFilename = "eco_history.json"

// HistoryResponse lists history entries, oldest first. Pagination is set
// only when page or page_size was requested.
type HistoryResponse struct {
	Items      []domain.FootprintResult `json:"items"`
	Pagination *Pagination              `json:"pagination,omitempty"`
}

// TableResponse wraps the table projection.
type TableResponse struct {
	Rows []history.TableRow `json:"rows"`
}

// ChartResponse wraps the chart projection.
type ChartResponse struct {
	Points []history.ChartPoint `json:"points"`
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List footprint history
// @Description Returns the saved results, oldest first. Supports page/page_size and a weak ETag via If-None-Match.
// @Tags        History
// @Produce     json
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"history:3:1700000000\")
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.HistoryResponse
// @Header      200  {string}  ETag  "Weak ETag for the current log"
// @Success     304  {string}  string  "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()

	// Best effort: a version failure only disables the ETag.
	if count, stamp, err := h.fp.Version(ctx); err == nil {
		etag := fmt.Sprintf(`W/"history:%d:%d"`, count, stamp)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	page, pageSize, paged := clampPagination(c)
	if !paged {
		items, err := h.fp.History(ctx)
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, HistoryResponse{Items: items})
		return
	}

	items, total, err := h.fp.HistoryPage(ctx, page, pageSize)
	if err != nil {
		failService(c, err)
		return
	}
	p := newPagination(page, pageSize, total)
	ok(c, http.StatusOK, HistoryResponse{Items: items, Pagination: &p})
}

// HistoryTable godoc
// @ID          historyTable
// @Summary     History as table rows
// @Tags        History
// @Produce     json
// @Success     200  {object}  handlers.TableResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /history/table [get]
func (h *Handlers) HistoryTable(c *gin.Context) {
	rows, err := h.fp.Table(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, TableResponse{Rows: rows})
}

// HistoryChart godoc
// @ID          historyChart
// @Summary     History as chart points
// @Tags        History
// @Produce     json
// @Success     200  {object}  handlers.ChartResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /history/chart [get]
func (h *Handlers) HistoryChart(c *gin.Context) {
	points, err := h.fp.Chart(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ChartResponse{Points: points})
}

// HistorySummary godoc
// @ID          historySummary
// @Summary     Aggregates over history
// @Tags        History
// @Produce     json
// @Success     200  {object}  history.Summary
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /history/summary [get]
func (h *Handlers) HistorySummary(c *gin.Context) {
	sum, err := h.fp.Summary(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, sum)
}

// ExportHistory godoc
// @ID          exportHistory
// @Summary     Download history
// @Description Returns the stored history as an attachment, byte for byte.
// @Tags        History
// @Produce     json
// @Success     200  {file}    file
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /history/export [get]
func (h *Handlers) ExportHistory(c *gin.Context) {
	data, err := h.fp.Export(c.Request.Context())
	if err != nil {
		failService(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ClearHistory godoc
// @ID          clearHistory
// @Summary     Delete all history
// @Tags        History
// @Param       confirm  query  bool  true  "Must be true"
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Confirmation missing"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /history [delete]
func (h *Handlers) ClearHistory(c *gin.Context) {
	if confirm, _ := strconv.ParseBool(c.Query("confirm")); !confirm {
		fail(c, http.StatusBadRequest, ErrCodeConfirmRequired, "pass confirm=true to delete history")
		return
	}
	if err := h.fp.Clear(c.Request.Context()); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}
