// Package redis provides connection bootstrapping for the Redis cache
// backing the session store, with bounded retries and a readiness probe.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer client.Close()
package redis
