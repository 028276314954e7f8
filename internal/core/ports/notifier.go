package ports

import (
	"context"
	"time"
)

// ResetNotice tells a subject that a supervisor removed their attendance.
type ResetNotice struct {
	SubjectID    string
	Name         string
	Email        string
	Date         time.Time
	DeletedCount int64
}

// Notifier delivers notices to subjects.
type Notifier interface {
	NotifyReset(ctx context.Context, notice ResetNotice) error
}

// NoticeQueue accepts notices for asynchronous, best-effort delivery.
type NoticeQueue interface {
	Enqueue(notice ResetNotice)
}
