// Package config provides the runtime key/value configuration of the site.
//
// Values are addressed by a category and a key, e.g. ("system", "force_ssl").
// A Store answers lookups; several stores can be stacked with Chain so that
// database values override the local YAML file, and Cached keeps hot values
// in memory.
//
//	local, _ := config.LoadFile("config/local.yaml")
//	store := config.Cached(config.Chain(config.NewPostgres(pool), local), 30*time.Second)
//	if config.Bool(ctx, store, "system", "hsts") { ... }
package config

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Store looks up a configuration value.
// Implementations return ErrNotFound when the key is not set.
type Store interface {
	Get(ctx context.Context, cat, key string) (string, error)
}

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context, cat, key string) (string, error)

func (f StoreFunc) Get(ctx context.Context, cat, key string) (string, error) {
	return f(ctx, cat, key)
}

// String returns the value or def when it is unset or the lookup fails.
func String(ctx context.Context, s Store, cat, key, def string) string {
	if s == nil {
		return def
	}
	v, err := s.Get(ctx, cat, key)
	if err != nil {
		return def
	}
	return v
}

// Bool interprets "1", "true", "yes" and "on" as true. Unset keys are false.
func Bool(ctx context.Context, s Store, cat, key string) bool {
	switch strings.ToLower(strings.TrimSpace(String(ctx, s, cat, key, ""))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Int returns the value parsed as an integer, or def.
func Int(ctx context.Context, s Store, cat, key string, def int) int {
	v := strings.TrimSpace(String(ctx, s, cat, key, ""))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// List splits a comma separated value, dropping empty items.
func List(ctx context.Context, s Store, cat, key string) []string {
	raw := String(ctx, s, cat, key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Chain returns a store that asks each store in order and returns the first
// value found. A store failing with an error other than ErrNotFound stops
// the lookup.
func Chain(stores ...Store) Store {
	return StoreFunc(func(ctx context.Context, cat, key string) (string, error) {
		for _, s := range stores {
			if s == nil {
				continue
			}
			v, err := s.Get(ctx, cat, key)
			if err == nil {
				return v, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return "", err
			}
		}
		return "", ErrNotFound
	})
}
