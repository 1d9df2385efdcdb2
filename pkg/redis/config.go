package redis

import "time"

// Config holds Redis connection parameters, populated from the
// environment. An empty URL means sessions and tokens stay in memory.
type Config struct {
	URL string `env:"REDIS_URL"`

	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxIdleTime  time.Duration `env:"REDIS_MAX_IDLE_TIME" envDefault:"10m"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`

	// Startup retries; attempt n waits n*RetryInterval.
	RetryAttempts int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
}
