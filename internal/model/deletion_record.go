package model

import (
	"time"

	"github.com/google/uuid"
)

// DeletionRecord is a tombstone left behind for every row removed by a
// cascading delete. Downstream sync consumers use it to drop local copies.
// A tombstone is removed only when the entity it marks is restored.
type DeletionRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"` // id of the deleted row
	TableName string    `gorm:"primaryKey;column:table_name"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	DeletedAt time.Time `gorm:"not null"`
}
