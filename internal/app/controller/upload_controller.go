package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/jasher/unlimited-options-backend/internal/errors"
	"github.com/jasher/unlimited-options-backend/internal/middleware"
	"github.com/jasher/unlimited-options-backend/internal/storage"
)

const maxImageSize = 5 << 20 // 5 MiB

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// UploadImage accepts a multipart image and stores it on S3, returning the
// public URL used for attribute-value and variant images
// POST /api/v1/upload/image
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "image file is required")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if err := ctrl.storage.ValidateContentType(contentType, allowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}
	if err := ctrl.storage.ValidateFileSize(fileHeader.Size, maxImageSize); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Image exceeds the 5MB size limit")
		return
	}

	folder := c.DefaultPostForm("folder", "attribute-images")

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, nil)
		apperrors.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	fileURL, err := ctrl.storage.UploadFile(c.Request.Context(), fileHeader.Filename, contentType, folder, file)
	if err != nil {
		log.Error("S3 upload failed", err, map[string]interface{}{
			"filename": fileHeader.Filename,
			"folder":   folder,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to upload image")
		return
	}

	log.Info("Image uploaded", map[string]interface{}{
		"filename": fileHeader.Filename,
		"folder":   folder,
		"url":      fileURL,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"file_url": fileURL,
	})
}

type presignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// GeneratePresignedURL hands the admin UI a direct-to-S3 upload URL
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req presignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "attribute-images"
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   folder,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, response)
}
