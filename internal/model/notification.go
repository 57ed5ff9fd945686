package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories emitted at defined transition points only.
const (
	NotifyLowStock   = "low_stock"
	NotifyOutOfStock = "out_of_stock"
	NotifyPOCreated  = "po_created"
	NotifyPOStatus   = "po_status"
	NotifyShift      = "shift"
)

// Notification delivery states driven by the async worker.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification is a persisted alert. The row is written inside the operation's
// transaction (so cascading deletes can clean it up alongside its subject);
// delivery happens asynchronously via the worker pool.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Message     string     `gorm:"not null"`
	Category    string     `gorm:"type:varchar(20);not null;index"`
	RelatedID   *uuid.UUID `gorm:"type:uuid;index"`
	Status      string     `gorm:"type:varchar(10);not null;default:'pending'"`
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
