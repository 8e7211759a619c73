// Package errs содержит доменные ошибки сервиса.
package errs

import "errors"

var (
	// ErrSourceUnavailable — исходный файл Excel отсутствует или не читается.
	// Фатально для всего запуска синхронизации, стор не изменяется.
	ErrSourceUnavailable = errors.New("sync source unavailable")

	// ErrStoreUnavailable — база недоступна, батч откатывается целиком.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSyncInProgress — уже идёт синхронизация, повторный запуск отклоняется.
	ErrSyncInProgress = errors.New("sync already in progress")

	ErrTicketNotFound     = errors.New("ticket not found")
	ErrDuplicateTicketID  = errors.New("duplicate ticket_id")
	ErrLabelNotFound      = errors.New("label not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrAttachmentNotFound = errors.New("attachment not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
