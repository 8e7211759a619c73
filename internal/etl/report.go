package etl

import "time"

// Rejection — одна забракованная строка батча. Row — номер строки в книге,
// Cell — исходное значение, из-за которого строка отклонена (если есть).
type Rejection struct {
	Row      int    `json:"row"`
	TicketID string `json:"ticket_id,omitempty"`
	Reason   string `json:"reason"`
	Cell     string `json:"cell,omitempty"`
}

// Report — итог одного запуска синхронизации.
type Report struct {
	RunID      string      `json:"run_id"`
	StartedAt  time.Time   `json:"started_at"`
	ElapsedMS  int64       `json:"elapsed_ms"`
	Total      int         `json:"total_rows"`
	Inserted   int         `json:"inserted"`
	Updated    int         `json:"updated"`
	Rejected   int         `json:"rejected"`
	Rejections []Rejection `json:"rejections,omitempty"`
	Warnings   []string    `json:"warnings,omitempty"`
}
