package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/model"
	"github.com/gin-gonic/gin"
)

// 10 MiB на вложение — дальше блоб в таблице уже неразумен.
const maxAttachmentSize = 10 << 20

func (h *TicketHandler) UploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxAttachmentSize+1))
	if err != nil || int64(len(data)) > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	a := &model.Attachment{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}
	if err := h.svc.AddAttachment(c.Request.Context(), c.Param("ticket_id"), a); err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save attachment"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *TicketHandler) ListAttachments(c *gin.Context) {
	items, err := h.svc.ListAttachments(c.Request.Context(), c.Param("ticket_id"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list attachments"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *TicketHandler) DownloadAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	a, err := h.svc.GetAttachment(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errs.ErrAttachmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load attachment"})
		return
	}
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
	c.Data(http.StatusOK, contentType, a.Data)
}

func (h *TicketHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAttachment(c.Request.Context(), id); err != nil {
		if errors.Is(err, errs.ErrAttachmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "attachment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete attachment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
