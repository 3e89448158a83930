// Package database provides SQLite connectivity and schema migrations.
//
// Open configures WAL mode, a busy timeout and foreign keys, and limits
// the pool to a single connection since SQLite allows one writer. Migrate
// applies the embedded *.up.sql files registered by the migrations package
// in version order, one transaction per migration.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
