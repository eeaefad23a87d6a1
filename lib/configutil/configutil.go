// Package configutil loads json5 configuration files with an optional
// <name>.local.<ext> override that is merged over the base file, so
// machine-specific settings stay out of version control.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// ReadConfig reads <name> and, when present, <name>.local.<ext> merged on
// top of it. Returns os.ErrNotExist when neither file is readable.
func ReadConfig[T any](name string) (T, error) {
	var out T

	dir := filepath.Dir(name)
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	localName := filepath.Join(dir, fmt.Sprintf("%s.local%s", stem, ext))

	found := false

	raw, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(raw) > 0 {
		if err := json5.Unmarshal(raw, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		found = true
	}

	localRaw, err := os.ReadFile(localName)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localRaw) > 0 {
		var local T
		if err := json5.Unmarshal(localRaw, &local); err != nil {
			return out, fmt.Errorf("parse %s: %w", localName, err)
		}
		if err := mergo.Merge(&out, local, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localName)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively walks from the cwd up to the filesystem root looking
// for a config file matching name, reading the first one found.
func ReadRecursively[T any](name string) (T, error) {
	var zero T

	root, err := filepath.Abs("/")
	if err != nil {
		return zero, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for dir != root {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if os.IsNotExist(err) {
			dir = filepath.Dir(dir)
			continue
		}
		return config, err
	}

	return zero, os.ErrNotExist
}
