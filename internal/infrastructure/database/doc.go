// Package database provides the SQLite connection behind the scan journal.
//
// This package manages:
//   - Opening the journal file with WAL mode and a busy timeout
//   - Schema migrations from an fs.FS of YYYYMMDD_HHMMSS_name.{up,down}.sql files
//   - Health checks for the status API
//
// The journal is optional: Open returns ErrDisabled when database.enabled is
// false and the scanner runs without it.
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive. Each one ships an .up.sql and a .down.sql file and
// runs in its own transaction.
package database
