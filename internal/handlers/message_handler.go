package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat_backend/internal/services"
)

type MessageHandler struct {
	*BaseHandler
	messageService *services.MessageService
}

func NewMessageHandler(base *BaseHandler, messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    base,
		messageService: messageService,
	}
}

func (h *MessageHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/messages", h.SendMessage)
	api.GET("/conversations/:conversationID/messages", h.GetMessages)
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var input services.SendMessageInput
	if !h.BindAndValidate_JSON(c, &input) {
		return
	}

	message, err := h.messageService.SendMessage(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	messages, total, err := h.messageService.GetMessages(c.Request.Context(), c.Param("conversationID"), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":  messages,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
