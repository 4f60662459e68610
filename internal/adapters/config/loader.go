// Package config resolves the cache configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.trai.ch/owlcache/internal/core/domain"
	"go.trai.ch/owlcache/internal/core/ports"
	"gopkg.in/yaml.v3"
)

// Environment variables understood by the loader. They take precedence
// over owlcache.yaml, which takes precedence over the built-in defaults.
const (
	EnabledEnv       = "RUSTOWL_CACHE"
	DirEnv           = "RUSTOWL_CACHE_DIR"
	MaxEntriesEnv    = "RUSTOWL_CACHE_MAX_ENTRIES"
	MaxMemoryEnv     = "RUSTOWL_CACHE_MAX_MEMORY_MB"
	EvictionEnv      = "RUSTOWL_CACHE_EVICTION"
	ValidateFilesEnv = "RUSTOWL_CACHE_VALIDATE_FILES"
)

// Loader builds the effective cache configuration. Misconfiguration
// never fails startup: invalid values are logged and replaced by their
// documented defaults, since a broken knob must not block analysis.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load resolves the configuration from defaults, the optional
// owlcache.yaml in the working directory, and the environment.
func (l *Loader) Load() domain.Config {
	cfg := domain.DefaultConfig()
	l.applyFile(&cfg, domain.ConfigFileName)
	l.applyEnv(&cfg)
	return cfg
}

// applyFile overlays settings from the configuration file at path.
// A missing file is the normal case; an unreadable or unparsable one is
// warned about and ignored.
func (l *Loader) applyFile(cfg *domain.Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the fixed project config name
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn(fmt.Sprintf("ignoring unreadable %s: %v", path, err))
		}
		return
	}

	var owlfile Owlfile
	if err := yaml.Unmarshal(data, &owlfile); err != nil {
		l.logger.Warn(fmt.Sprintf("ignoring malformed %s: %v", path, err))
		return
	}

	dto := owlfile.Cache
	if dto.Enabled != nil {
		cfg.Enabled = *dto.Enabled
	}
	if dto.Dir != "" {
		cfg.Dir = dto.Dir
	}
	if dto.MaxEntries != nil {
		cfg.MaxEntries = *dto.MaxEntries
	}
	if dto.MaxMemoryMB != nil {
		cfg.MaxMemoryBytes = *dto.MaxMemoryMB * 1024 * 1024
	}
	if dto.Eviction != "" {
		cfg.Eviction = l.parseEviction(dto.Eviction)
	}
	if dto.ValidateFiles != nil {
		cfg.ValidateFiles = *dto.ValidateFiles
	}
}

// applyEnv overlays settings from the environment.
func (l *Loader) applyEnv(cfg *domain.Config) {
	if v, ok := os.LookupEnv(EnabledEnv); ok {
		cfg.Enabled = v != "false" && v != "0"
	}

	if v := os.Getenv(DirEnv); v != "" {
		cfg.Dir = v
	}

	if v, ok := os.LookupEnv(MaxEntriesEnv); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxEntries = n
		} else {
			l.logger.Warn(fmt.Sprintf(
				"ignoring invalid %s=%q, using %d", MaxEntriesEnv, v, cfg.MaxEntries))
		}
	}

	if v, ok := os.LookupEnv(MaxMemoryEnv); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.MaxMemoryBytes = n * 1024 * 1024
		} else {
			l.logger.Warn(fmt.Sprintf(
				"ignoring invalid %s=%q, using %d bytes", MaxMemoryEnv, v, cfg.MaxMemoryBytes))
		}
	}

	if v, ok := os.LookupEnv(EvictionEnv); ok {
		cfg.Eviction = l.parseEviction(v)
	}

	if v, ok := os.LookupEnv(ValidateFilesEnv); ok {
		cfg.ValidateFiles = v != "false" && v != "0"
	}
}

// parseEviction normalizes an eviction policy name. Unrecognized values
// fall back to LRU.
func (l *Loader) parseEviction(v string) domain.EvictionPolicy {
	switch strings.ToLower(v) {
	case string(domain.EvictLRU):
		return domain.EvictLRU
	case string(domain.EvictFIFO):
		return domain.EvictFIFO
	default:
		l.logger.Warn(fmt.Sprintf("unknown eviction policy %q, using %s", v, domain.EvictLRU))
		return domain.EvictLRU
	}
}
