// Package journal persists upload runs and their per-file outcomes in a
// local SQLite database.
//
// The schema is managed by goose using migrations embedded in the binary,
// so opening a fresh path creates the database:
//
//	store, err := journal.Open(ctx, "runs.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	err = store.RecordRun(ctx, run, outcomes)
package journal
