// Package pg opens a pgx connection pool with retries, applies embedded goose
// migrations and exposes a health probe. It backs the Postgres flavour of the
// fallback journal.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, fallback.Migrations, fallback.MigrationsDir, slog.Default()); err != nil {
//	    return err
//	}
package pg
