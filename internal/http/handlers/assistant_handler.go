// Assistant HTTP handler: POST /assistant/chat.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatRequest is a free-text question for the assistant.
type ChatRequest struct {
	Prompt string `json:"prompt" example:"How can I cut my commute emissions?"`
}

// ChatResponse carries the assistant's answer.
type ChatResponse struct {
	Reply string `json:"reply" example:"Try the bus twice a week; it emits about a third less per km than a car."`
}

// AssistantChat godoc
// @ID          assistantChat
// @Summary     Ask the eco assistant
// @Description Relays the prompt to the configured assistant. The latest saved footprint is added as context.
// @Tags        Assistant
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ChatRequest  true  "Prompt"
// @Success     200   {object}  handlers.ChatResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Empty prompt"
// @Failure     413   {object}  handlers.ErrorResponse  "Prompt too long"
// @Failure     502   {object}  handlers.ErrorResponse  "Assistant unavailable"
// @Router      /assistant/chat [post]
func (h *Handlers) AssistantChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	reply, err := h.asst.Reply(c.Request.Context(), req.Prompt)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ChatResponse{Reply: reply})
}
