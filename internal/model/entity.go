package model

import "time"

const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

const (
	PriorityLow      = "Low"
	PriorityMedium   = "Medium"
	PriorityHigh     = "High"
	PriorityCritical = "Critical"
)

// KnownStatus reports whether s belongs to the documented status vocabulary.
// Out-of-vocabulary values are still stored (the dashboard renders free
// text), the sync just flags them with a warning.
func KnownStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

func KnownPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Closed reports whether a status counts as closed for KPI purposes.
func Closed(status string) bool {
	return status == StatusClosed || status == StatusResolved
}

// Ticket — одна заявка в поддержку. TicketID — натуральный ключ, стабильный
// между синхронизациями; по нему идёт upsert.
type Ticket struct {
	ID              uint64 `gorm:"primaryKey" json:"id"`
	TicketID        string `gorm:"type:varchar(32);uniqueIndex;not null" json:"ticket_id"`
	Title           string `gorm:"type:varchar(255);not null" json:"title"`
	Status          string `gorm:"type:varchar(32);index;not null;default:Open" json:"status"`
	Priority        string `gorm:"type:varchar(32);index;not null;default:Low" json:"priority"`
	RequestType     string `gorm:"type:varchar(64);index" json:"request_type,omitempty"`
	StaffAssigned   string `gorm:"type:varchar(128);index" json:"staff_assigned,omitempty"`
	Requester       string `gorm:"type:varchar(128)" json:"requester,omitempty"`
	DateOpened      string `gorm:"type:varchar(10)" json:"date_opened,omitempty"` // ISO YYYY-MM-DD, may be empty
	Location        string `gorm:"type:varchar(128)" json:"location,omitempty"`
	Description     string `gorm:"type:text" json:"description,omitempty"`
	ResolutionNotes string `gorm:"type:text" json:"resolution_notes,omitempty"`

	CategoryID *uint64   `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `json:"category,omitempty"`
	Labels     []Label   `gorm:"many2many:ticket_labels" json:"labels,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Ticket) TableName() string { return "tickets" }

// Category группирует заявки на дашборде (цвет и иконка — для фронта).
type Category struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"type:varchar(16)" json:"color,omitempty"`
	Icon      string    `gorm:"type:varchar(64)" json:"icon,omitempty"`
	IsCustom  bool      `gorm:"not null;default:false" json:"is_custom"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// Label — произвольный тег на заявке (many-to-many через ticket_labels).
type Label struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"type:varchar(16)" json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Label) TableName() string { return "labels" }

// Attachment — бинарный файл, привязанный к заявке. Удаляется каскадно
// вместе с заявкой.
type Attachment struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	TicketID    uint64    `gorm:"index;not null" json:"ticket_id"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	ContentType string    `gorm:"type:varchar(128)" json:"content_type,omitempty"`
	Size        int64     `gorm:"not null;default:0" json:"size"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Attachment) TableName() string { return "ticket_attachments" }

// User — учётная запись дашборда (auth-бэкенд "database").
type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	Role         string    `gorm:"type:varchar(16);not null;default:viewer" json:"role"`
	DisplayName  string    `gorm:"type:varchar(128)" json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
