package postgres

// SQL queries for master event persistence

const (
	// queryTableExists checks that migrations created the events table.
	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'calendar_events'
		)
	`

	// queryLoadEvents returns the master list in saved order.
	queryLoadEvents = `
		SELECT
			id, title, description, anchor_at,
			recurrence, category, custom_interval, custom_unit
		FROM calendar_events
		ORDER BY position ASC
	`

	// queryDeleteEvents clears the list before a full rewrite.
	// Runs inside the Save transaction, never on its own.
	queryDeleteEvents = `DELETE FROM calendar_events`

	// queryInsertEvent writes one master at its list position.
	queryInsertEvent = `
		INSERT INTO calendar_events (
			id, position, title, description, anchor_at,
			recurrence, category, custom_interval, custom_unit
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
)
