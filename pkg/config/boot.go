package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/frontdoor/pkg/db"
	"github.com/dmitrymomot/frontdoor/pkg/logger"
	"github.com/dmitrymomot/frontdoor/pkg/redis"
)

// Boot is the process configuration read from the environment at startup.
// Everything else lives in the runtime Store.
type Boot struct {
	Addr            string        `env:"FRONTDOOR_ADDR" envDefault:":8080"`
	LocalConfigFile string        `env:"FRONTDOOR_LOCAL_CONFIG" envDefault:"config/local.yaml"`
	DefaultLanguage string        `env:"FRONTDOOR_DEFAULT_LANGUAGE" envDefault:"en"`
	ThemeDir        string        `env:"FRONTDOOR_THEME_DIR"`
	ConfigCacheTTL  time.Duration `env:"FRONTDOOR_CONFIG_CACHE_TTL" envDefault:"30s"`
	SessionSecret   string        `env:"FRONTDOOR_SESSION_SECRET"`
	SecureCookies   bool          `env:"FRONTDOOR_SECURE_COOKIES" envDefault:"true"`

	// Admission limits. Zero disables the check.
	MaxInFlight int64   `env:"FRONTDOOR_MAX_IN_FLIGHT" envDefault:"512"`
	MaxLoad     float64 `env:"FRONTDOOR_MAX_LOAD" envDefault:"0"`

	DB     db.Config
	Redis  redis.Config
	Log    logger.Config
}

// LoadBoot parses the process environment.
func LoadBoot() (Boot, error) {
	cfg, err := env.ParseAs[Boot]()
	if err != nil {
		return Boot{}, errors.Join(ErrInvalidBoot, err)
	}
	return cfg, nil
}
