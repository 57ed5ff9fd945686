package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockpos/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that
// GORM cannot express (partial indexes, pgcrypto for gen_random_uuid).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations brings the schema up to date. Exposed separately so the
// integration tests can migrate a container database.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid needs pgcrypto on Postgres < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("enabling pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Category{},
		&model.Product{},
		&model.Variant{},
		&model.ProductCategory{},
		&model.StockAdjustment{},
		&model.PriceHistoryEntry{},
		&model.Sale{},
		&model.SaleItem{},
		&model.SalePayment{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
		&model.Shift{},
		&model.Notification{},
		&model.DeletionRecord{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Partial index backing the retry cron query.
		{"notifications pending retry index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_notifications_pending_retry') THEN
    CREATE INDEX idx_notifications_pending_retry
        ON notifications (next_retry_at)
        WHERE status = 'pending' AND next_retry_at IS NOT NULL;
  END IF;
END $$`},
		// At most one open shift per tenant, enforced at the storage level too.
		{"single open shift per tenant", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_shifts_tenant_open') THEN
    CREATE UNIQUE INDEX idx_shifts_tenant_open
        ON shifts (tenant_id)
        WHERE status = 'open';
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
