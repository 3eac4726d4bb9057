// Package config loads configuration structs from yaml files, .env files
// and the process environment.
//
// Sources are applied in order: the yaml file (if any) first, then
// environment variables, so deployment overrides always win over checked-in
// files. Fields without a matching source keep the value they had before
// Load was called, which lets callers pre-populate defaults in Go code.
//
//	settings := hxwidget.DefaultSettings()
//	err := config.Load(&settings,
//	    config.WithFile("hxwidget.yaml"),
//	    config.WithEnvFiles(".env"),
//	)
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	ErrNilPointer    = errors.New("config: nil pointer provided to loader")
	ErrParsingFile   = errors.New("config: failed to parse config file")
	ErrParsingConfig = errors.New("config: failed to parse environment variables into config")
)

// Option configures Load.
type Option func(*loader)

type loader struct {
	file         string
	fileOptional bool
	envFiles     []string
	prefix       string
}

// WithFile reads a yaml file before the environment is applied.
// A missing file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
		l.fileOptional = false
	}
}

// WithOptionalFile is like WithFile but ignores a missing file.
func WithOptionalFile(path string) Option {
	return func(l *loader) {
		l.file = path
		l.fileOptional = true
	}
}

// WithEnvFiles loads dotenv files into the process environment. Variables
// already set in the environment are not overridden. Missing files are
// ignored.
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.envFiles = append(l.envFiles, paths...)
	}
}

// WithPrefix prepends prefix to every env tag.
func WithPrefix(prefix string) Option {
	return func(l *loader) {
		l.prefix = prefix
	}
}

// Load populates v, a pointer to a struct with yaml and env tags.
func Load(v any, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}

	for _, path := range l.envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if l.file != "" {
		if err := LoadFile(l.file, v); err != nil {
			if !(l.fileOptional && errors.Is(err, os.ErrNotExist)) {
				return err
			}
		}
	}

	if err := env.ParseWithOptions(v, env.Options{Prefix: l.prefix}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadFile decodes a yaml file into v.
func LoadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Join(ErrParsingFile, fmt.Errorf("%s: %w", path, err))
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad(v any, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}
