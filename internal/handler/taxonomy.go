package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/model"
	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

type createLabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (h *TicketHandler) CreateLabel(c *gin.Context) {
	var req createLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	l := &model.Label{Name: req.Name, Color: req.Color}
	if err := h.svc.CreateLabel(c.Request.Context(), l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create label"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *TicketHandler) ListLabels(c *gin.Context) {
	labels, err := h.svc.ListLabels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list labels"})
		return
	}
	c.JSON(http.StatusOK, labels)
}

func (h *TicketHandler) DeleteLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteLabel(c.Request.Context(), id); err != nil {
		if errors.Is(err, errs.ErrLabelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "label not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete label"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *TicketHandler) AttachLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := h.svc.AttachLabel(c.Request.Context(), c.Param("ticket_id"), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		case errors.Is(err, errs.ErrLabelNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "label not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach label"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *TicketHandler) DetachLabel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := h.svc.DetachLabel(c.Request.Context(), c.Param("ticket_id"), id)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to detach label"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type createCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	IsCustom  bool   `json:"is_custom"`
	SortOrder int    `json:"sort_order"`
}

func (h *TicketHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	cat := &model.Category{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		IsCustom:  req.IsCustom,
		IsActive:  true,
		SortOrder: req.SortOrder,
	}
	if err := h.svc.CreateCategory(c.Request.Context(), cat); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *TicketHandler) ListCategories(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	cats, err := h.svc.ListCategories(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

type updateCategoryRequest struct {
	Name      *string `json:"name,omitempty"`
	Color     *string `json:"color,omitempty"`
	Icon      *string `json:"icon,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

func (h *TicketHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	changes := make(map[string]interface{})
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Color != nil {
		changes["color"] = *req.Color
	}
	if req.Icon != nil {
		changes["icon"] = *req.Icon
	}
	if req.IsActive != nil {
		changes["is_active"] = *req.IsActive
	}
	if req.SortOrder != nil {
		changes["sort_order"] = *req.SortOrder
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no changes"})
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), id, changes)
	if err != nil {
		if errors.Is(err, errs.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update category"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *TicketHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, errs.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
