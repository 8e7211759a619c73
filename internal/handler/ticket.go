package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/kafka"
	"github.com/AngelP17/ticketing/internal/model"
	"github.com/AngelP17/ticketing/internal/searchindex"
	"github.com/AngelP17/ticketing/internal/store"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	svc      *store.TicketStore
	producer kafka.TicketEventProducer
	search   *searchindex.Client
}

func NewTicketHandler(svc *store.TicketStore, producer kafka.TicketEventProducer, search *searchindex.Client) *TicketHandler {
	return &TicketHandler{svc: svc, producer: producer, search: search}
}

// ticketResponse — заявка плюс вычисляемое days_open: дни с date_opened,
// null для закрытых/решённых (дашборд показывает "-").
type ticketResponse struct {
	model.Ticket
	DaysOpen *int `json:"days_open"`
}

func toResponse(t model.Ticket, now time.Time) ticketResponse {
	resp := ticketResponse{Ticket: t}
	if model.Closed(t.Status) || t.DateOpened == "" {
		return resp
	}
	opened, err := time.Parse("2006-01-02", t.DateOpened)
	if err != nil {
		return resp
	}
	days := int(now.Sub(opened).Hours() / 24)
	if days < 0 {
		days = 0
	}
	resp.DaysOpen = &days
	return resp
}

func ticketEventPayload(t *model.Ticket) map[string]interface{} {
	if t == nil {
		return nil
	}
	return map[string]interface{}{
		"ticket_id":      t.TicketID,
		"title":          t.Title,
		"status":         t.Status,
		"priority":       t.Priority,
		"request_type":   t.RequestType,
		"staff_assigned": t.StaffAssigned,
	}
}

type createTicketRequest struct {
	TicketID        string `json:"ticket_id"`
	Title           string `json:"title" binding:"required"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	RequestType     string `json:"request_type"`
	StaffAssigned   string `json:"staff_assigned"`
	Requester       string `json:"requester"`
	DateOpened      string `json:"date_opened"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	ResolutionNotes string `json:"resolution_notes"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ctx := c.Request.Context()
	ticketID := req.TicketID
	if ticketID == "" {
		next, err := h.svc.NextTicketID(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
			return
		}
		ticketID = next
	}
	dateOpened := req.DateOpened
	if dateOpened == "" {
		dateOpened = time.Now().Format("2006-01-02")
	}
	ticket := &model.Ticket{
		TicketID:        ticketID,
		Title:           req.Title,
		Status:          req.Status,
		Priority:        req.Priority,
		RequestType:     req.RequestType,
		StaffAssigned:   req.StaffAssigned,
		Requester:       req.Requester,
		DateOpened:      dateOpened,
		Location:        req.Location,
		Description:     req.Description,
		ResolutionNotes: req.ResolutionNotes,
	}
	created, err := h.svc.Upsert(ctx, ticket)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}
	if h.producer != nil {
		event := "ticket.updated"
		if created {
			event = "ticket.created"
		}
		h.producer.ProduceTicketEvent(ctx, event, ticketEventPayload(ticket))
	}
	if h.search != nil {
		h.search.IndexTicketAsync(ticket)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, toResponse(*ticket, time.Now()))
}

func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.svc.GetByTicketID(c.Request.Context(), c.Param("ticket_id"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ticket"})
		return
	}
	c.JSON(http.StatusOK, toResponse(*t, time.Now()))
}

func (h *TicketHandler) List(c *gin.Context) {
	f := store.Filter{
		Status:        c.Query("status"),
		Priority:      c.Query("priority"),
		RequestType:   c.Query("request_type"),
		StaffAssigned: c.Query("staff_assigned"),
		Requester:     c.Query("requester"),
		Search:        c.Query("q"),
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			f.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			f.Offset = parsed
		}
	}
	items, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	now := time.Now()
	out := make([]ticketResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t, now))
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": out,
		"total":   total,
	})
}

type updateTicketRequest struct {
	Title           *string `json:"title,omitempty"`
	Status          *string `json:"status,omitempty"`
	Priority        *string `json:"priority,omitempty"`
	RequestType     *string `json:"request_type,omitempty"`
	StaffAssigned   *string `json:"staff_assigned,omitempty"`
	Requester       *string `json:"requester,omitempty"`
	DateOpened      *string `json:"date_opened,omitempty"`
	Location        *string `json:"location,omitempty"`
	Description     *string `json:"description,omitempty"`
	ResolutionNotes *string `json:"resolution_notes,omitempty"`
}

func (h *TicketHandler) Update(c *gin.Context) {
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	changes := make(map[string]interface{})
	if req.Title != nil {
		changes["title"] = *req.Title
	}
	if req.Status != nil {
		changes["status"] = *req.Status
	}
	if req.Priority != nil {
		changes["priority"] = *req.Priority
	}
	if req.RequestType != nil {
		changes["request_type"] = *req.RequestType
	}
	if req.StaffAssigned != nil {
		changes["staff_assigned"] = *req.StaffAssigned
	}
	if req.Requester != nil {
		changes["requester"] = *req.Requester
	}
	if req.DateOpened != nil {
		changes["date_opened"] = *req.DateOpened
	}
	if req.Location != nil {
		changes["location"] = *req.Location
	}
	if req.Description != nil {
		changes["description"] = *req.Description
	}
	if req.ResolutionNotes != nil {
		changes["resolution_notes"] = *req.ResolutionNotes
	}
	if len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no changes"})
		return
	}
	ctx := c.Request.Context()
	t, err := h.svc.Update(ctx, c.Param("ticket_id"), changes)
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ticket"})
		return
	}
	if h.producer != nil {
		h.producer.ProduceTicketEvent(ctx, "ticket.updated", ticketEventPayload(t))
	}
	if h.search != nil {
		h.search.IndexTicketAsync(t)
	}
	c.JSON(http.StatusOK, toResponse(*t, time.Now()))
}

func (h *TicketHandler) Delete(c *gin.Context) {
	ticketID := c.Param("ticket_id")
	ctx := c.Request.Context()
	if err := h.svc.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ticket"})
		return
	}
	if h.producer != nil {
		h.producer.ProduceTicketEvent(ctx, "ticket.deleted", map[string]interface{}{"ticket_id": ticketID})
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
