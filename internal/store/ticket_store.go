package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/model"
	"gorm.io/gorm"
)

// TicketStore — репозиторий заявок поверх gorm. Все мутации батча идут в
// одной транзакции: либо применяются все валидные строки, либо ни одной.
type TicketStore struct {
	db *gorm.DB
}

func NewTicketStore(db *gorm.DB) *TicketStore {
	return &TicketStore{db: db}
}

// Filter ограничивает выборку List.
type Filter struct {
	Status        string
	Priority      string
	RequestType   string
	StaffAssigned string
	Requester     string
	Search        string // substring match on title
	Limit         int
	Offset        int
}

// mutable columns overwritten on upsert; created_at deliberately excluded.
var ticketMutableColumns = []string{
	"title", "status", "priority", "request_type", "staff_assigned",
	"requester", "date_opened", "location", "description", "resolution_notes",
}

func applyDefaults(t *model.Ticket) {
	if t.Status == "" {
		t.Status = model.StatusOpen
	}
	if t.Priority == "" {
		t.Priority = model.PriorityLow
	}
}

func mutableChanges(t *model.Ticket) map[string]interface{} {
	return map[string]interface{}{
		"title":            t.Title,
		"status":           t.Status,
		"priority":         t.Priority,
		"request_type":     t.RequestType,
		"staff_assigned":   t.StaffAssigned,
		"requester":        t.Requester,
		"date_opened":      t.DateOpened,
		"location":         t.Location,
		"description":      t.Description,
		"resolution_notes": t.ResolutionNotes,
	}
}

// UpsertBatch применяет строки батча по ticket_id в одной транзакции.
// Существующая заявка обновляется (created_at сохраняется), новая создаётся.
// Любая ошибка стора откатывает батч целиком.
func (s *TicketStore) UpsertBatch(ctx context.Context, tickets []model.Ticket) (inserted, updated int, err error) {
	if len(tickets) == 0 {
		return 0, 0, nil
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tickets {
			created, uerr := upsertTx(tx, &tickets[i])
			if uerr != nil {
				return uerr
			}
			if created {
				inserted++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errs.ErrStoreUnavailable, err)
	}
	return inserted, updated, nil
}

// Upsert применяет одну заявку по ticket_id. Возвращает true, если заявка
// была создана, false — если обновлена.
func (s *TicketStore) Upsert(ctx context.Context, t *model.Ticket) (created bool, err error) {
	if t.TicketID == "" {
		return false, errors.New("ticket_id is required")
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = upsertTx(tx, t)
		return err
	})
	return created, err
}

func upsertTx(tx *gorm.DB, t *model.Ticket) (created bool, err error) {
	applyDefaults(t)
	var existing model.Ticket
	err = tx.Where("ticket_id = ?", t.TicketID).First(&existing).Error
	switch {
	case err == nil:
		if err := tx.Model(&existing).Updates(mutableChanges(t)).Error; err != nil {
			return false, err
		}
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(t).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (s *TicketStore) GetByTicketID(ctx context.Context, ticketID string) (*model.Ticket, error) {
	var t model.Ticket
	err := s.db.WithContext(ctx).
		Preload("Labels").Preload("Category").
		Where("ticket_id = ?", ticketID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TicketStore) List(ctx context.Context, f Filter) ([]model.Ticket, int64, error) {
	var items []model.Ticket
	var total int64
	tx := s.db.WithContext(ctx).Model(&model.Ticket{})
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		tx = tx.Where("priority = ?", f.Priority)
	}
	if f.RequestType != "" {
		tx = tx.Where("request_type = ?", f.RequestType)
	}
	if f.StaffAssigned != "" {
		tx = tx.Where("staff_assigned = ?", f.StaffAssigned)
	}
	if f.Requester != "" {
		tx = tx.Where("requester = ?", f.Requester)
	}
	if f.Search != "" {
		tx = tx.Where("title LIKE ?", "%"+f.Search+"%")
	}
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}
	if f.Offset > 0 {
		tx = tx.Offset(f.Offset)
	}
	err := tx.Preload("Labels").
		Order("date_opened DESC, created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update меняет отдельные поля существующей заявки (PUT из дашборда).
func (s *TicketStore) Update(ctx context.Context, ticketID string, changes map[string]interface{}) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTicketNotFound
		}
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&t).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete удаляет заявку и каскадом её связи с тегами и вложения. Каскад
// явный (в транзакции), чтобы не зависеть от FK-поведения конкретного движка.
func (s *TicketStore) Delete(ctx context.Context, ticketID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var t model.Ticket
		if err := tx.Where("ticket_id = ?", ticketID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrTicketNotFound
			}
			return err
		}
		if err := tx.Where("ticket_id = ?", t.ID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM ticket_labels WHERE ticket_id = ?", t.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
}

// NextTicketID выдаёт следующий идентификатор вида IT-XXXXXXXX
// (для заявок, созданных через дашборд, а не пришедших из Excel).
func (s *TicketStore) NextTicketID(ctx context.Context) (string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("ticket_id LIKE ?", "IT-%").
		Pluck("ticket_id", &ids).Error
	if err != nil {
		return "", err
	}
	max := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimPrefix(id, "IT-"))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	if max == 0 {
		return "IT-20250001", nil
	}
	return fmt.Sprintf("IT-%08d", max+1), nil
}
