package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hanzla-outlet/outlet-backend/internal/errors"
	"github.com/hanzla-outlet/outlet-backend/internal/middleware"
	"github.com/hanzla-outlet/outlet-backend/internal/storage"
)

type UploadController struct {
	storage storage.ImageUploader
}

// NewUploadController accepts a nil uploader when no bucket is configured; requests then get 503.
func NewUploadController(uploader storage.ImageUploader) *UploadController {
	return &UploadController{
		storage: uploader,
	}
}

type GeneratePresignedURLRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
}

// GeneratePresignedURL issues a presigned PUT URL for a product image
// POST /api/v1/admin/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.storage == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadUnavailable, "Image uploads are not configured")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	response, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Filename, storage.ProductImageFolder)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFileType) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
			return
		}
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.InternalError(c, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"key": response.Key,
	})

	c.JSON(http.StatusOK, response)
}
