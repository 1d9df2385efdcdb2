// Package redis opens the go-redis client that backs sessions and
// OpenWebAuth tokens when REDIS_URL is set.
//
//	var cfg redis.Config // filled by caarlos0/env
//	client, err := redis.Open(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	sessions := session.NewRedisStore(client)
//
// Open retries the initial PING with a linear backoff. [Healthcheck]
// plugs into the readiness endpoint and [Shutdown] into the server's
// shutdown hooks.
package redis
