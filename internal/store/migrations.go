package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per detection run
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL CHECK(mode IN ('image', 'video', 'camera')),
			source TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			frames INTEGER NOT NULL DEFAULT 0,
			open_count INTEGER NOT NULL DEFAULT 0,
			fist_count INTEGER NOT NULL DEFAULT 0,
			left_count INTEGER NOT NULL DEFAULT 0,
			right_count INTEGER NOT NULL DEFAULT 0,
			none_count INTEGER NOT NULL DEFAULT 0,
			key_presses INTEGER NOT NULL DEFAULT 0,
			cancelled INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
