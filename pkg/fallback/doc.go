// Package fallback persists messages that could not be delivered so they can
// be retried or reconciled later.
//
// A Journal is a bounded, append-only collection: once it holds its cap of
// records (DefaultMaxRecords) every append drops the oldest one. Records are
// never re-read by the delivery path, only listed and exported.
//
// Backends:
//   - FileJournal: a JSON array on disk, replaced atomically on each append
//   - MemoryJournal: process memory
//   - RedisJournal: a capped list trimmed in the same transaction as the push
//   - PostgresJournal: the fallback_records table, evicted under an advisory lock
//
// Open picks a backend from Config. Export writes a journal as JSON or YAML and
// S3Exporter uploads that snapshot to object storage:
//
//	store, err := fallback.Open(ctx, cfg, redisCfg, pgCfg, log)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := fallback.Export(ctx, store.Journal, os.Stdout, fallback.FormatYAML); err != nil {
//	    return err
//	}
package fallback
