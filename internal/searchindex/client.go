package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/AngelP17/ticketing/internal/model"
	"go.uber.org/zap"
)

// Client отправляет тикеты в search-service для индексации (best-effort, не
// блокирует API).
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient возвращает клиент. Если baseURL пустой, вызовы IndexTicket — no-op.
func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		log:     log,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// IndexTicketPayload — тело POST /search/index/ticket.
type IndexTicketPayload struct {
	TicketID        string `json:"ticket_id"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	Priority        string `json:"priority"`
	RequestType     string `json:"request_type"`
	StaffAssigned   string `json:"staff_assigned"`
	Requester       string `json:"requester"`
	Description     string `json:"description"`
	ResolutionNotes string `json:"resolution_notes"`
}

// IndexTicket отправляет тикет в search-service. Вызывать в goroutine после
// Create/Update/Sync.
func (c *Client) IndexTicket(ctx context.Context, t *model.Ticket) {
	if c.baseURL == "" {
		return
	}
	payload := IndexTicketPayload{
		TicketID:        t.TicketID,
		Title:           t.Title,
		Status:          t.Status,
		Priority:        t.Priority,
		RequestType:     t.RequestType,
		StaffAssigned:   t.StaffAssigned,
		Requester:       t.Requester,
		Description:     t.Description,
		ResolutionNotes: t.ResolutionNotes,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		c.log.Warn("searchindex: marshal", zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search/index/ticket", bytes.NewReader(body))
	if err != nil {
		c.log.Warn("searchindex: new request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("searchindex: request", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("searchindex: unexpected status",
			zap.Int("status", resp.StatusCode),
			zap.String("ticket_id", t.TicketID))
	}
}

// IndexTicketAsync вызывает IndexTicket в отдельной горутине (не блокирует
// ответ API).
func (c *Client) IndexTicketAsync(t *model.Ticket) {
	if c.baseURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.IndexTicket(ctx, t)
	}()
}
