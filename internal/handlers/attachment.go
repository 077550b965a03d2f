package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mkurosawa/task-manager-api/internal/errors"
	"github.com/mkurosawa/task-manager-api/internal/middleware"
	"github.com/mkurosawa/task-manager-api/internal/services"
)

type AttachmentHandler struct {
	attachments *services.AttachmentService
}

func NewAttachmentHandler(attachments *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachments: attachments}
}

// Upload stores a multipart file as a task attachment.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, "No file uploaded")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.Internal(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	p := middleware.GetPrincipal(c)
	attachment, err := h.attachments.Upload(c.Request.Context(), p, c.Param("taskId"), services.UploadAttachmentInput{
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		FileSize:    fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, attachment)
}

// Download streams an attachment back to the caller.
func (h *AttachmentHandler) Download(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	content, err := h.attachments.Download(c.Request.Context(), p, c.Param("taskId"), c.Param("attachmentId"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	defer content.Content.Close()

	disposition := fmt.Sprintf("attachment; filename=%q", content.FileName)
	c.DataFromReader(http.StatusOK, content.FileSize, content.ContentType, content.Content,
		map[string]string{"Content-Disposition": disposition})
}

// Delete removes an attachment from a task.
func (h *AttachmentHandler) Delete(c *gin.Context) {
	p := middleware.GetPrincipal(c)

	if err := h.attachments.Delete(c.Request.Context(), p, c.Param("taskId"), c.Param("attachmentId")); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
