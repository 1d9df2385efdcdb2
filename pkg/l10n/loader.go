package l10n

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithYAMLDir loads message tables from YAML files in fsys.
// File convention: {lang}/{any}.yaml or {lang}/{any}.yml, each a flat mapping
// from English message id to translation. Several files per language are merged.
//
// Example structure:
//
//	en/messages.yaml
//	de/messages.yaml
//	de/addons.yml
func WithYAMLDir(fsys fs.FS) Option {
	return func(c *Catalog) error {
		return fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}

			ext := strings.ToLower(path.Ext(filePath))
			if ext != ".yaml" && ext != ".yml" {
				return nil
			}

			dir := path.Dir(filePath)
			if dir == "." || dir == "" {
				return fmt.Errorf("%w: file %q must be inside a language directory", ErrInvalidFile, filePath)
			}
			lang := path.Base(dir)

			data, err := fs.ReadFile(fsys, filePath)
			if err != nil {
				return fmt.Errorf("reading %q: %w", filePath, err)
			}

			var table map[string]string
			if err := yaml.Unmarshal(data, &table); err != nil {
				return fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, filePath, err)
			}

			c.merge(lang, table)
			return nil
		})
	}
}
