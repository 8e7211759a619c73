package store

import (
	"context"

	"github.com/AngelP17/ticketing/internal/model"
)

// StaffLoad — нагрузка одного сотрудника: всего назначено и сколько открыто.
type StaffLoad struct {
	Assigned int64 `json:"assigned"`
	Open     int64 `json:"open"`
}

// Stats — KPI дашборда.
type Stats struct {
	Total         int64                `json:"total"`
	Open          int64                `json:"open"`
	Closed        int64                `json:"closed"`
	Critical      int64                `json:"critical"` // open tickets with Critical priority
	Statuses      map[string]int64     `json:"statuses"`
	Priorities    map[string]int64     `json:"priorities"`
	RequestTypes  map[string]int64     `json:"request_types"`
	StaffWorkload map[string]StaffLoad `json:"staff_workload"`
}

// Options — уникальные значения для выпадающих списков формы заявки.
type Options struct {
	RequestTypes []string `json:"request_types"`
	Staff        []string `json:"staff"`
	Requesters   []string `json:"requesters"`
}

var closedStatuses = []string{model.StatusClosed, model.StatusResolved}

type groupCount struct {
	Key string
	N   int64
}

func (s *TicketStore) groupBy(ctx context.Context, column string, skipEmpty bool) (map[string]int64, error) {
	var rows []groupCount
	tx := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Select(column + " AS key, COUNT(*) AS n").
		Group(column)
	if skipEmpty {
		tx = tx.Where(column + " <> ''")
	}
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Key] = r.N
	}
	return out, nil
}

func (s *TicketStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{StaffWorkload: map[string]StaffLoad{}}

	if err := s.db.WithContext(ctx).Model(&model.Ticket{}).Count(&st.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("status IN ?", closedStatuses).Count(&st.Closed).Error; err != nil {
		return nil, err
	}
	st.Open = st.Total - st.Closed
	if err := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("priority = ?", model.PriorityCritical).
		Where("status NOT IN ?", closedStatuses).
		Count(&st.Critical).Error; err != nil {
		return nil, err
	}

	var err error
	if st.Statuses, err = s.groupBy(ctx, "status", false); err != nil {
		return nil, err
	}
	if st.Priorities, err = s.groupBy(ctx, "priority", false); err != nil {
		return nil, err
	}
	if st.RequestTypes, err = s.groupBy(ctx, "request_type", true); err != nil {
		return nil, err
	}

	assigned, err := s.groupBy(ctx, "staff_assigned", true)
	if err != nil {
		return nil, err
	}
	var openRows []groupCount
	err = s.db.WithContext(ctx).Model(&model.Ticket{}).
		Select("staff_assigned AS key, COUNT(*) AS n").
		Where("staff_assigned <> ''").
		Where("status NOT IN ?", closedStatuses).
		Group("staff_assigned").
		Scan(&openRows).Error
	if err != nil {
		return nil, err
	}
	open := make(map[string]int64, len(openRows))
	for _, r := range openRows {
		open[r.Key] = r.N
	}
	for staff, n := range assigned {
		st.StaffWorkload[staff] = StaffLoad{Assigned: n, Open: open[staff]}
	}
	return st, nil
}

func (s *TicketStore) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column+" ASC").
		Pluck(column, &values).Error
	return values, err
}

func (s *TicketStore) Options(ctx context.Context) (*Options, error) {
	var o Options
	var err error
	if o.RequestTypes, err = s.distinct(ctx, "request_type"); err != nil {
		return nil, err
	}
	if o.Staff, err = s.distinct(ctx, "staff_assigned"); err != nil {
		return nil, err
	}
	if o.Requesters, err = s.distinct(ctx, "requester"); err != nil {
		return nil, err
	}
	return &o, nil
}
