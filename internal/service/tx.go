package service

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// timeFormat is the wire format for every timestamp the API returns.
const timeFormat = time.RFC3339

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
