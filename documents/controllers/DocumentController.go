package controllers

import (
	"errors"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/db/models"
	"complaint-tracking-backend/documents/services"
	"complaint-tracking-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DocumentController struct {
	Service *services.DocumentService
}

// UploadFileController accepts a single multipart file plus its slot.
// Anonymous complainants may upload before submitting; the record binds
// to a complaint at submission time.
func (dc *DocumentController) UploadFileController(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "No file provided",
		})
	}

	fileType := models.FileType(c.FormValue("file_type", string(models.OtherFile)))

	var uploadedByID *uuid.UUID
	if actor := middleware.ActorFromLocals(c); actor != nil {
		uploadedByID = &actor.UserID
	}

	view, err := dc.Service.UploadFile(fileHeader, fileType, uploadedByID)
	if err != nil {
		config.Logger.Warn("File upload rejected",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err),
		)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

func (dc *DocumentController) GetFileController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid file ID",
		})
	}

	view, err := dc.Service.GetFile(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "File not found",
			})
		}
		config.Logger.Error("Failed to load file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not retrieve file",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

// DeleteFileController removes the blob and the record. Blob failures
// surface as errors instead of leaving silent orphans.
func (dc *DocumentController) DeleteFileController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid file ID",
		})
	}

	if err := dc.Service.DeleteFile(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "File not found",
			})
		}
		config.Logger.Error("Failed to delete file", zap.String("fileID", id.String()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not delete file",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "File deleted",
	})
}

// DownloadFileController streams a blob after verifying the signed URL.
func (dc *DocumentController) DownloadFileController(c *fiber.Ctx) error {
	storageKey := c.Params("key")

	if err := dc.Service.Signer.Verify(storageKey, c.Query("expires"), c.Query("signature")); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	reader, err := dc.Service.FileStorage.DownloadFile(storageKey)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "File not found",
		})
	}

	return c.SendStream(reader)
}
