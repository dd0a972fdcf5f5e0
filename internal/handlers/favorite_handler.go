package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat_backend/internal/services"
)

type FavoriteHandler struct {
	*BaseHandler
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(base *BaseHandler, favoriteService *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		BaseHandler:     base,
		favoriteService: favoriteService,
	}
}

func (h *FavoriteHandler) RegisterRoutes(api *gin.RouterGroup) {
	favorites := api.Group("/favorites")
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("/:conversationID", h.AddFavorite)
		favorites.DELETE("/:conversationID", h.RemoveFavorite)
	}
}

func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	favorite, err := h.favoriteService.AddFavorite(c.Request.Context(), userID, c.Param("conversationID"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.favoriteService.RemoveFavorite(c.Request.Context(), userID, c.Param("conversationID")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
