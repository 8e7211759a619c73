package store

import (
	"context"
	"testing"

	"github.com/AngelP17/ticketing/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStatsFixture(t *testing.T, s *TicketStore) {
	t.Helper()
	rows := []model.Ticket{
		{TicketID: "IT-20250001", Title: "a", Status: model.StatusOpen, Priority: model.PriorityCritical, RequestType: "Hardware", StaffAssigned: "miri", Requester: "bob"},
		{TicketID: "IT-20250002", Title: "b", Status: model.StatusInProgress, Priority: model.PriorityHigh, RequestType: "Hardware", StaffAssigned: "miri", Requester: "alice"},
		{TicketID: "IT-20250003", Title: "c", Status: model.StatusResolved, Priority: model.PriorityCritical, RequestType: "Software", StaffAssigned: "dev", Requester: "bob"},
		{TicketID: "IT-20250004", Title: "d", Status: model.StatusClosed, Priority: model.PriorityLow, RequestType: "Access", StaffAssigned: "", Requester: ""},
	}
	_, _, err := s.UpsertBatch(context.Background(), rows)
	require.NoError(t, err)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	seedStatsFixture(t, s)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, st.Total)
	assert.EqualValues(t, 2, st.Closed, "Resolved counts as closed")
	assert.EqualValues(t, 2, st.Open)
	assert.EqualValues(t, 1, st.Critical, "resolved criticals are not urgent")

	assert.EqualValues(t, 1, st.Statuses[model.StatusOpen])
	assert.EqualValues(t, 1, st.Statuses[model.StatusResolved])
	assert.EqualValues(t, 2, st.RequestTypes["Hardware"])

	assert.Equal(t, StaffLoad{Assigned: 2, Open: 2}, st.StaffWorkload["miri"])
	assert.Equal(t, StaffLoad{Assigned: 1, Open: 0}, st.StaffWorkload["dev"])
	_, hasBlank := st.StaffWorkload[""]
	assert.False(t, hasBlank, "unassigned tickets stay out of the workload map")
}

func TestOptions(t *testing.T) {
	s := newTestStore(t)
	seedStatsFixture(t, s)

	o, err := s.Options(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Access", "Hardware", "Software"}, o.RequestTypes)
	assert.Equal(t, []string{"dev", "miri"}, o.Staff)
	assert.Equal(t, []string{"alice", "bob"}, o.Requesters)
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := model.Category{Name: "Network", Color: "#00ff00", IsActive: true}
	require.NoError(t, s.CreateCategory(ctx, &cat))

	tk := ticket("IT-20250001", "switch down")
	tk.CategoryID = &cat.ID
	_, err := s.Upsert(ctx, &tk)
	require.NoError(t, err)

	cats, err := s.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))

	got, err := s.GetByTicketID(ctx, "IT-20250001")
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "deleting a category detaches its tickets")
}
