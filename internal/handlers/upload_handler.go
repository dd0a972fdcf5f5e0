package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aichat_backend/internal/appErrors"
	"aichat_backend/internal/services"
)

const maxUploadSize = 10 << 20 // 10MB

type UploadHandler struct {
	*BaseHandler
	uploadService *services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService *services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(api *gin.RouterGroup) {
	uploads := api.Group("/uploads")
	{
		uploads.POST("", h.Upload)
		uploads.GET("", h.ListUploads)
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		appErrors.HandleError(c, appErrors.NewBadRequestError("Missing form file 'file'"))
		return
	}
	if fileHeader.Size > maxUploadSize {
		appErrors.HandleError(c, appErrors.NewBadRequestError("File too large"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	upload, err := h.uploadService.Upload(c.Request.Context(), userID, fileHeader.Filename, contentType, fileHeader.Size, f)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}

func (h *UploadHandler) ListUploads(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	uploads, err := h.uploadService.ListUserUploads(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}
