// Reminder HTTP handlers.
//
//   - GET    /reminders      (pending, soonest first)
//   - POST   /reminders      (schedule)
//   - DELETE /reminders/:id  (cancel)
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-eco-backend/internal/reminder"
)

// ScheduleReminderRequest schedules Message after Delay. Delay is a Go
// duration ("90s", "2h") or a number of seconds.
type ScheduleReminderRequest struct {
	Message string    `json:"message" example:"Log today's footprint"`
	Delay   FlexValue `json:"delay" swaggertype:"string" example:"2h"`
}

// RemindersResponse lists pending reminders.
type RemindersResponse struct {
	Reminders []reminder.Reminder `json:"reminders"`
}

func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("delay is required")
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("delay must be a duration or seconds")
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// ListReminders godoc
// @ID          listReminders
// @Summary     List pending reminders
// @Tags        Reminders
// @Produce     json
// @Success     200  {object}  handlers.RemindersResponse
// @Router      /reminders [get]
func (h *Handlers) ListReminders(c *gin.Context) {
	ok(c, http.StatusOK, RemindersResponse{Reminders: h.rem.Pending()})
}

// ScheduleReminder godoc
// @ID          scheduleReminder
// @Summary     Schedule a reminder
// @Tags        Reminders
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ScheduleReminderRequest  true  "Reminder"
// @Success     201   {object}  reminder.Reminder
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Router      /reminders [post]
func (h *Handlers) ScheduleReminder(c *gin.Context) {
	var req ScheduleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	delay, err := parseDelay(string(req.Delay))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	r, err := h.rem.Schedule(req.Message, delay)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required and delay must not be negative")
		return
	}
	ok(c, http.StatusCreated, r)
}

// CancelReminder godoc
// @ID          cancelReminder
// @Summary     Cancel a pending reminder
// @Tags        Reminders
// @Param       id  path  string  true  "Reminder ID (UUID)"  format(uuid)
// @Success     204  {string}  string  "No Content"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad id"
// @Failure     404  {object}  handlers.ErrorResponse  "Not pending"
// @Router      /reminders/{id} [delete]
func (h *Handlers) CancelReminder(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reminder id must be a UUID")
		return
	}
	if !h.rem.Cancel(id) {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "reminder not found")
		return
	}
	noContent(c)
}
