package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat_backend/internal/appErrors"
	"aichat_backend/internal/services"
)

type MembershipHandler struct {
	*BaseHandler
	membershipService *services.MembershipService
}

func NewMembershipHandler(base *BaseHandler, membershipService *services.MembershipService) *MembershipHandler {
	return &MembershipHandler{
		BaseHandler:       base,
		membershipService: membershipService,
	}
}

func (h *MembershipHandler) RegisterRoutes(api *gin.RouterGroup) {
	conversations := api.Group("/conversations")
	{
		conversations.GET("/:conversationID/members", h.GetActiveMembers)
		conversations.GET("/:conversationID/members/me", h.GetMyMembership)
		conversations.POST("/:conversationID/invites", h.InviteUser)
		conversations.POST("/:conversationID/join", h.JoinConversation)
		conversations.POST("/:conversationID/leave", h.LeaveConversation)
		conversations.DELETE("/:conversationID/members/:userID", h.KickUser)
		conversations.PUT("/:conversationID/members/:userID/permissions", h.UpdateMemberPermissions)
		conversations.POST("/:conversationID/transfer-ownership", h.TransferOwnership)
	}
}

func (h *MembershipHandler) GetActiveMembers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	conversationID := c.Param("conversationID")

	hasAccess, err := h.membershipService.HasAccess(c.Request.Context(), conversationID, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if !hasAccess {
		appErrors.HandleError(c, appErrors.ErrNoPermission)
		return
	}

	members, err := h.membershipService.GetActiveMembers(c.Request.Context(), conversationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *MembershipHandler) GetMyMembership(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	member, err := h.membershipService.GetUserMembership(c.Request.Context(), c.Param("conversationID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if member == nil {
		appErrors.HandleError(c, appErrors.ErrMembershipNotFound)
		return
	}

	c.JSON(http.StatusOK, member)
}

type inviteUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (h *MembershipHandler) InviteUser(c *gin.Context) {
	inviterID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req inviteUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	member, err := h.membershipService.InviteUser(c.Request.Context(), c.Param("conversationID"), req.UserID, inviterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

func (h *MembershipHandler) JoinConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	member, err := h.membershipService.JoinConversation(c.Request.Context(), c.Param("conversationID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MembershipHandler) LeaveConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	member, err := h.membershipService.LeaveConversation(c.Request.Context(), c.Param("conversationID"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MembershipHandler) KickUser(c *gin.Context) {
	moderatorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	member, err := h.membershipService.KickUser(c.Request.Context(), c.Param("conversationID"), c.Param("userID"), moderatorID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

func (h *MembershipHandler) UpdateMemberPermissions(c *gin.Context) {
	moderatorID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var patch services.PermissionsPatch
	if !h.BindAndValidate_JSON(c, &patch) {
		return
	}

	member, err := h.membershipService.UpdateMemberPermissions(
		c.Request.Context(), c.Param("conversationID"), c.Param("userID"), moderatorID, patch)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

type transferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" validate:"required"`
}

func (h *MembershipHandler) TransferOwnership(c *gin.Context) {
	currentOwnerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req transferOwnershipRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.membershipService.TransferOwnership(c.Request.Context(), c.Param("conversationID"), req.NewOwnerID, currentOwnerID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
