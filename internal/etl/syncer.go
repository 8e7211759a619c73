// Package etl синхронизирует книгу Excel с таблицей заявок: extract →
// transform (построчная валидация) → load (upsert по ticket_id одним
// батчем). Источник никогда не изменяется.
package etl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/model"
	"github.com/AngelP17/ticketing/internal/spreadsheet"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source отдаёт сырые строки листа. Продакшен — spreadsheet.FileSource.
type Source interface {
	Read() ([]spreadsheet.Row, error)
}

// Store применяет батч транзакционно: либо все строки, либо ни одной.
type Store interface {
	UpsertBatch(ctx context.Context, tickets []model.Ticket) (inserted, updated int, err error)
}

// Producer — опциональная отправка события о завершении синка (Kafka).
type Producer interface {
	ProduceTicketEvent(ctx context.Context, event string, payload map[string]interface{})
}

// Indexer — опциональная асинхронная индексация применённых заявок.
type Indexer interface {
	IndexTicketAsync(t *model.Ticket)
}

// Deps — зависимости синхронизатора. Producer, Indexer и Logger опциональны.
type Deps struct {
	Source   Source
	Store    Store
	Producer Producer
	Indexer  Indexer
	Logger   *zap.Logger
}

// Syncer выполняет один проход синхронизации. Запуски не накладываются:
// повторный Run при идущем возвращает errs.ErrSyncInProgress.
type Syncer struct {
	deps Deps
	log  *zap.Logger
	mu   sync.Mutex
}

func NewSyncer(deps Deps) *Syncer {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{deps: deps, log: log}
}

// Run выполняет полный проход: читает лист, валидирует строки, применяет
// валидные одним транзакционным батчем и возвращает отчёт. Построчные
// проблемы попадают в отчёт и не прерывают батч; ошибки источника или стора
// фатальны — стор остаётся нетронутым.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	if !s.mu.TryLock() {
		return nil, errs.ErrSyncInProgress
	}
	defer s.mu.Unlock()

	started := time.Now()
	rows, err := s.deps.Source.Read()
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: started,
		Total:     len(rows),
	}

	var batch []model.Ticket
	seen := map[string]int{} // ticket_id -> index in batch; later row wins
	for _, row := range rows {
		t, rej, warnings := transformRow(row)
		report.Warnings = append(report.Warnings, warnings...)
		if rej != nil {
			report.Rejections = append(report.Rejections, *rej)
			continue
		}
		if i, dup := seen[t.TicketID]; dup {
			batch[i] = t
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: duplicate ticket_id %s in batch, later row wins", row.Number, t.TicketID))
			continue
		}
		seen[t.TicketID] = len(batch)
		batch = append(batch, t)
	}

	inserted, updated, err := s.deps.Store.UpsertBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("apply batch: %w", err)
	}
	report.Inserted = inserted
	report.Updated = updated
	report.Rejected = len(report.Rejections)
	report.ElapsedMS = time.Since(started).Milliseconds()

	s.log.Info("sync complete",
		zap.String("run_id", report.RunID),
		zap.Int("total", report.Total),
		zap.Int("inserted", report.Inserted),
		zap.Int("updated", report.Updated),
		zap.Int("rejected", report.Rejected),
		zap.Int64("elapsed_ms", report.ElapsedMS),
	)
	for _, w := range report.Warnings {
		s.log.Warn(w)
	}

	// post-commit side effects, best-effort
	if s.deps.Producer != nil {
		s.deps.Producer.ProduceTicketEvent(ctx, "ticket.synced", map[string]interface{}{
			"run_id":   report.RunID,
			"total":    report.Total,
			"inserted": report.Inserted,
			"updated":  report.Updated,
			"rejected": report.Rejected,
		})
	}
	if s.deps.Indexer != nil {
		for i := range batch {
			s.deps.Indexer.IndexTicketAsync(&batch[i])
		}
	}
	return report, nil
}
