package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/etl"
	"github.com/AngelP17/ticketing/internal/model"
	"github.com/AngelP17/ticketing/internal/spreadsheet"
	"github.com/AngelP17/ticketing/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type capturingProducer struct {
	events []string
}

func (p *capturingProducer) ProduceTicketEvent(_ context.Context, event string, _ map[string]interface{}) {
	p.events = append(p.events, event)
}

func newTestStore(t *testing.T) *store.TicketStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Ticket{}, &model.Category{}, &model.Label{},
		&model.Attachment{}, &model.User{},
	))
	return store.NewTicketStore(db)
}

func newTicketRouter(t *testing.T) (*gin.Engine, *store.TicketStore, *capturingProducer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := newTestStore(t)
	producer := &capturingProducer{}
	h := NewTicketHandler(st, producer, nil)

	r := gin.New()
	r.POST("/tickets", h.Create)
	r.GET("/tickets", h.List)
	r.GET("/tickets/:ticket_id", h.Get)
	r.PUT("/tickets/:ticket_id", h.Update)
	r.DELETE("/tickets/:ticket_id", h.Delete)
	return r, st, producer
}

func newJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, newJSONRequest(t, method, path, body))
	return w
}

func TestCreateTicketGeneratesID(t *testing.T) {
	r, _, producer := newTicketRouter(t)

	w := doJSON(t, r, http.MethodPost, "/tickets", gin.H{"title": "vpn down"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "IT-20250001", resp["ticket_id"])
	assert.Equal(t, model.StatusOpen, resp["status"], "defaults applied")
	assert.Equal(t, time.Now().Format("2006-01-02"), resp["date_opened"])
	assert.Equal(t, []string{"ticket.created"}, producer.events)
}

func TestCreateTicketUpsertsExisting(t *testing.T) {
	r, st, producer := newTicketRouter(t)

	_, err := st.Upsert(context.Background(), &model.Ticket{TicketID: "IT-20250001", Title: "old"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/tickets", gin.H{"ticket_id": "IT-20250001", "title": "new"})
	require.Equal(t, http.StatusOK, w.Code, "existing ticket updates, not conflicts")
	assert.Equal(t, []string{"ticket.updated"}, producer.events)
}

func TestCreateTicketRequiresTitle(t *testing.T) {
	r, _, _ := newTicketRouter(t)
	w := doJSON(t, r, http.MethodPost, "/tickets", gin.H{"ticket_id": "IT-20250001"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTicketDaysOpen(t *testing.T) {
	r, st, _ := newTicketRouter(t)
	ctx := context.Background()

	threeDaysAgo := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	_, err := st.Upsert(ctx, &model.Ticket{TicketID: "IT-20250001", Title: "open one", DateOpened: threeDaysAgo})
	require.NoError(t, err)
	_, err = st.Upsert(ctx, &model.Ticket{
		TicketID: "IT-20250002", Title: "closed one",
		Status: model.StatusClosed, DateOpened: threeDaysAgo,
	})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/tickets/IT-20250001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 3, resp["days_open"])

	w = doJSON(t, r, http.MethodGet, "/tickets/IT-20250002", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp["days_open"], "closed tickets have no days_open")
}

func TestGetTicketNotFound(t *testing.T) {
	r, _, _ := newTicketRouter(t)
	w := doJSON(t, r, http.MethodGet, "/tickets/IT-NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTicketsFilter(t *testing.T) {
	r, st, _ := newTicketRouter(t)
	ctx := context.Background()

	for i, status := range []string{model.StatusOpen, model.StatusOpen, model.StatusClosed} {
		_, err := st.Upsert(ctx, &model.Ticket{
			TicketID: fmt.Sprintf("IT-2025000%d", i+1),
			Title:    fmt.Sprintf("ticket %d", i+1),
			Status:   status,
		})
		require.NoError(t, err)
	}

	w := doJSON(t, r, http.MethodGet, "/tickets?status=Open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Tickets []json.RawMessage `json:"tickets"`
		Total   int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 2, resp.Total)
	assert.Len(t, resp.Tickets, 2)

	w = doJSON(t, r, http.MethodGet, "/tickets?limit=1&offset=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 3, resp.Total)
	assert.Len(t, resp.Tickets, 1)
}

func TestUpdateTicketPartial(t *testing.T) {
	r, st, producer := newTicketRouter(t)

	_, err := st.Upsert(context.Background(), &model.Ticket{
		TicketID: "IT-20250001", Title: "keep me", Priority: model.PriorityHigh,
	})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPut, "/tickets/IT-20250001", gin.H{"status": model.StatusResolved})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusResolved, resp["status"])
	assert.Equal(t, "keep me", resp["title"], "untouched fields survive")
	assert.Equal(t, model.PriorityHigh, resp["priority"])
	assert.Equal(t, []string{"ticket.updated"}, producer.events)

	w = doJSON(t, r, http.MethodPut, "/tickets/IT-20250001", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty change set is rejected")

	w = doJSON(t, r, http.MethodPut, "/tickets/IT-NOPE", gin.H{"status": model.StatusOpen})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTicket(t *testing.T) {
	r, st, producer := newTicketRouter(t)

	_, err := st.Upsert(context.Background(), &model.Ticket{TicketID: "IT-20250001", Title: "bye"})
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodDelete, "/tickets/IT-20250001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"ticket.deleted"}, producer.events)

	w = doJSON(t, r, http.MethodDelete, "/tickets/IT-20250001", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type stubSource struct {
	rows []spreadsheet.Row
	err  error
}

func (s stubSource) Read() ([]spreadsheet.Row, error) { return s.rows, s.err }

func newSyncRouter(t *testing.T, src etl.Source) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	syncer := etl.NewSyncer(etl.Deps{Source: src, Store: newTestStore(t)})
	r := gin.New()
	r.POST("/sync", NewSyncHandler(syncer).Run)
	return r
}

func TestSyncEndpoint(t *testing.T) {
	r := newSyncRouter(t, stubSource{rows: []spreadsheet.Row{
		{Number: 2, TicketID: "IT-20250001", Title: "from excel"},
		{Number: 3, TicketID: "", Title: "rejected"},
	}})

	w := doJSON(t, r, http.MethodPost, "/sync", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report etl.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Rejected)
	assert.NotEmpty(t, report.RunID)
}

func TestSyncEndpointSourceUnavailable(t *testing.T) {
	r := newSyncRouter(t, stubSource{err: fmt.Errorf("%w: open tickets.xlsx", errs.ErrSourceUnavailable)})
	w := doJSON(t, r, http.MethodPost, "/sync", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
