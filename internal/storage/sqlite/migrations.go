package sqlite

import "database/sql"

// schema sets up the database. It runs on startup so tables always exist.
// Stage checklists are kept as a single JSON document per user.
const schema = `
CREATE TABLE IF NOT EXISTS progress_tracking (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE,
    user_name TEXT NOT NULL,
    stages TEXT NOT NULL,
    overall_progress INTEGER NOT NULL DEFAULT 0,
    current_stage TEXT NOT NULL DEFAULT 'offer',
    last_updated INTEGER NOT NULL,
    is_completed INTEGER NOT NULL DEFAULT 0,
    completed_at INTEGER,
    version INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_progress_tracking_current_stage ON progress_tracking(current_stage);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
