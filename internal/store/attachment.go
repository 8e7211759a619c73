package store

import (
	"context"
	"errors"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/model"
	"gorm.io/gorm"
)

func (s *TicketStore) AddAttachment(ctx context.Context, ticketID string, a *model.Attachment) error {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return err
	}
	a.TicketID = t.ID
	a.Size = int64(len(a.Data))
	return s.db.WithContext(ctx).Create(a).Error
}

// ListAttachments возвращает метаданные вложений без самих блобов.
func (s *TicketStore) ListAttachments(ctx context.Context, ticketID string) ([]model.Attachment, error) {
	t, err := s.GetByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	var items []model.Attachment
	err = s.db.WithContext(ctx).
		Select("id", "ticket_id", "file_name", "content_type", "size", "created_at").
		Where("ticket_id = ?", t.ID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (s *TicketStore) GetAttachment(ctx context.Context, id uint64) (*model.Attachment, error) {
	var a model.Attachment
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrAttachmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *TicketStore) DeleteAttachment(ctx context.Context, id uint64) error {
	res := s.db.WithContext(ctx).Delete(&model.Attachment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrAttachmentNotFound
	}
	return nil
}
