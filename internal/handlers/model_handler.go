package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat_backend/internal/services"
)

type ModelHandler struct {
	*BaseHandler
	catalogService *services.ModelCatalogService
}

func NewModelHandler(base *BaseHandler, catalogService *services.ModelCatalogService) *ModelHandler {
	return &ModelHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

func (h *ModelHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/models", h.ListModels)
}

func (h *ModelHandler) ListModels(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	aiModels, err := h.catalogService.ListModels(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"models": aiModels})
}
