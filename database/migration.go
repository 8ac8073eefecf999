package database

import (
	"fmt"

	"rental-booking/logger"
	"rental-booking/models/booking"
	"rental-booking/models/exchange_rate"
	"rental-booking/models/housekeeping"
	"rental-booking/models/invoice"
	"rental-booking/models/log"
	"rental-booking/models/payment"
	"rental-booking/models/receipt_parser"
	"rental-booking/models/room"
	"rental-booking/models/tenant"
	"rental-booking/models/user"

	"gorm.io/gorm"
)

// stages lists models in dependency order so referenced tables exist first.
func stages() [][]interface{} {
	return [][]interface{}{
		// Stage 1: reference data
		{&user.User{}, &room.Room{}, &tenant.Tenant{}, &exchange_rate.ExchangeRate{}},
		// Stage 2: bookings
		{&booking.Booking{}},
		// Stage 3: booking-owned rows
		{&invoice.Invoice{}, &booking.BookingStatusEvent{}, &housekeeping.Task{}},
		// Stage 4: payments
		{&payment.Payment{}, &payment.PaymentRevision{}},
		// Stage 5: logging and receipt parsing
		{&log.Log{}, &receipt_parser.ReceiptParseRequest{}},
	}
}

// Migrate creates or updates every table, then adds indexes and, on PostgreSQL, foreign keys.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		return err
	}
	logger.Success("All indexes created successfully")

	if db.Dialector.Name() == "postgres" {
		createForeignKeyConstraints(db)
	}
	return nil
}

// AutoMigrate runs gorm's auto migration stage by stage.
func AutoMigrate(db *gorm.DB) error {
	for i, stage := range stages() {
		for _, model := range stage {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("stage %d: failed to migrate %T: %w", i+1, model, err)
			}
		}
	}
	return nil
}

// createIndexes creates the composite indexes the overlap and balance queries rely on.
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"idx_bookings_room_window", "CREATE INDEX IF NOT EXISTS idx_bookings_room_window ON bookings(room_id, status, planned_start, planned_end)"},
		{"idx_invoices_booking_status", "CREATE INDEX IF NOT EXISTS idx_invoices_booking_status ON invoices(booking_id, status)"},
		{"idx_payments_booking_date", "CREATE INDEX IF NOT EXISTS idx_payments_booking_date ON payments(booking_id, payment_date)"},
		{"idx_housekeeping_room_status", "CREATE INDEX IF NOT EXISTS idx_housekeeping_room_status ON housekeeping_tasks(room_id, status)"},
		{"idx_logs_created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
	}
	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// createForeignKeyConstraints adds the constraints gorm does not derive from the models.
// A constraint that cannot be created is logged and skipped.
func createForeignKeyConstraints(db *gorm.DB) {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_invoices_booking",
			sql: `ALTER TABLE invoices ADD CONSTRAINT fk_invoices_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_payments_booking",
			sql: `ALTER TABLE payments ADD CONSTRAINT fk_payments_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_payments_invoice",
			sql: `ALTER TABLE payments ADD CONSTRAINT fk_payments_invoice
				  FOREIGN KEY (invoice_id) REFERENCES invoices(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_housekeeping_tasks_room",
			sql: `ALTER TABLE housekeeping_tasks ADD CONSTRAINT fk_housekeeping_tasks_room
				  FOREIGN KEY (room_id) REFERENCES rooms(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`
		if err := db.Raw(checkSQL, constraint.name).Scan(&exists).Error; err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}
		if exists {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
			continue
		}
		if err := db.Exec(constraint.sql).Error; err != nil {
			logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
		} else {
			logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
		}
	}
}
