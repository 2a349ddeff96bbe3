// Package config provides run configuration loading, validation, and
// hot-reload watching for meshkit commands.
package config

import "errors"

// Configuration validation errors.
var (
	ErrInvalidNmesh       = errors.New("config: nmesh must be a positive power of two")
	ErrInvalidBoxSize     = errors.New("config: boxsize must be positive")
	ErrInvalidWindow      = errors.New("config: unknown assignment window")
	ErrInvalidWorkers     = errors.New("config: workers must be non-negative")
	ErrInvalidBins        = errors.New("config: invalid bin settings")
	ErrInvalidCatalogKind = errors.New("config: unknown catalog kind")
	ErrInvalidCount       = errors.New("config: catalog count must be positive")
	ErrMissingPath        = errors.New("config: catalog kind requires a path")
)

// Configuration loading errors.
var (
	ErrConfigNotFound = errors.New("config: configuration file not found")
	ErrConfigParse    = errors.New("config: configuration parse error")
	ErrEnvParse       = errors.New("config: environment variable parse error")
)
