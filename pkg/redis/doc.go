// Package redis connects to Redis with retries and exposes a health probe.
//
// It backs the Redis flavour of the fallback journal:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	journal := fallback.NewRedisJournal(client)
//	health := redis.Healthcheck(client)
package redis
