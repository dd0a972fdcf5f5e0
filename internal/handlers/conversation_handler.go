package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat_backend/internal/services"
)

type ConversationHandler struct {
	*BaseHandler
	conversationService *services.ConversationService
}

func NewConversationHandler(base *BaseHandler, conversationService *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		BaseHandler:         base,
		conversationService: conversationService,
	}
}

func (h *ConversationHandler) RegisterRoutes(api *gin.RouterGroup) {
	conversations := api.Group("/conversations")
	{
		conversations.POST("", h.CreateConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:conversationID", h.GetConversation)
		conversations.PUT("/:conversationID", h.UpdateConversation)
	}
}

func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var input services.CreateConversationInput
	if !h.BindAndValidate_JSON(c, &input) {
		return
	}

	conversation, err := h.conversationService.CreateConversation(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

func (h *ConversationHandler) ListConversations(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	conversations, err := h.conversationService.ListUserConversations(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

func (h *ConversationHandler) GetConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	conversation, err := h.conversationService.GetConversation(c.Request.Context(), c.Param("conversationID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

func (h *ConversationHandler) UpdateConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var input services.UpdateConversationInput
	if !h.BindAndValidate_JSON(c, &input) {
		return
	}

	conversation, err := h.conversationService.UpdateConversation(c.Request.Context(), c.Param("conversationID"), userID, input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversation)
}
