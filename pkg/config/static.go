package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Static is an immutable store read from the local YAML file.
//
// The file is a mapping of categories to key/value mappings:
//
//	system:
//	  url: https://social.example
//	  force_ssl: true
//	  ssl_policy: 2
//	config:
//	  private_addons: "1"
type Static struct {
	values map[string]map[string]string
}

// NewStatic builds a store from an in-memory table.
func NewStatic(values map[string]map[string]string) *Static {
	s := &Static{values: make(map[string]map[string]string, len(values))}
	for cat, kv := range values {
		dst := make(map[string]string, len(kv))
		for k, v := range kv {
			dst[k] = v
		}
		s.values[cat] = dst
	}
	return s
}

// LoadFile reads the local config file. A missing file yields ErrNoLocalConfig.
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoLocalConfig
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a YAML document. Scalar values of any type are kept in
// their textual form.
func Parse(r io.Reader) (*Static, error) {
	var raw map[string]map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidFile, err)
	}

	values := make(map[string]map[string]string, len(raw))
	for cat, kv := range raw {
		dst := make(map[string]string, len(kv))
		for k, v := range kv {
			dst[k] = scalar(v)
		}
		values[cat] = dst
	}
	return &Static{values: values}, nil
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case bool:
		if t {
			return "1"
		}
		return "0"
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Get implements Store.
func (s *Static) Get(_ context.Context, cat, key string) (string, error) {
	if s == nil {
		return "", ErrNotFound
	}
	v, ok := s.values[cat][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}
