// Package config builds the immutable runtime configuration for depfetch.
//
// A [File] is the on-disk TOML shape; every field is optional. [New] resolves
// defaults and validates once, producing a [Config] that components read but
// never modify:
//
//	download_dir        = "/var/cache/depfetch"
//	checksum_algorithm  = "SHA-1"
//	probe_timeout       = "5s"
//	download_retries    = 3
//	override_validation = "full"   # full | artifact | trust
//	overrides           = "overrides.json"
//
//	[[fallbacks]]
//	url  = "https://repo1.maven.org/maven2/"
//	name = "central"
//
//	[affinity]
//	"com.google.guava:guava:32.1.3-jre" = ["example", "central"]
//
//	[redis]
//	addr = "localhost:6379"
//
// Durations are Go duration strings.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depfetch/pkg/buildinfo"
	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/download"
	"github.com/matzehuels/depfetch/pkg/errors"
	"github.com/matzehuels/depfetch/pkg/httputil"
	"github.com/matzehuels/depfetch/pkg/mirror"
	"github.com/matzehuels/depfetch/pkg/overrides"
	"github.com/matzehuels/depfetch/pkg/probe"
	"github.com/matzehuels/depfetch/pkg/resolver"
)

const (
	appName = "depfetch"

	// DefaultAlgorithm is the checksum algorithm used when none is configured.
	DefaultAlgorithm = "SHA-1"

	// DefaultRetries is the number of download attempts per artifact.
	DefaultRetries = 3

	// DefaultFilename is looked up in the working directory when no config
	// path is given.
	DefaultFilename = "depfetch.toml"
)

// File is the TOML document read by [Load].
type File struct {
	DownloadDir        string              `toml:"download_dir"`
	ChecksumAlgorithm  string              `toml:"checksum_algorithm"`
	ProbeTimeout       string              `toml:"probe_timeout"`
	DownloadTimeout    string              `toml:"download_timeout"`
	DownloadRetries    *int                `toml:"download_retries"`
	UserAgent          string              `toml:"user_agent"`
	OverrideValidation string              `toml:"override_validation"`
	Manifest           string              `toml:"manifest"`
	Overrides          string              `toml:"overrides"`
	Fallbacks          []RepositoryFile    `toml:"fallbacks"`
	Affinity           map[string][]string `toml:"affinity"`
	Redis              RedisFile           `toml:"redis"`
}

// RepositoryFile is one [[fallbacks]] entry.
type RepositoryFile struct {
	URL  string `toml:"url"`
	Name string `toml:"name"`
}

// RedisFile is the [redis] section. An empty Addr disables the Redis store.
type RedisFile struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

// Config is the resolved configuration. Build it with [New] or [Load].
type Config struct {
	DownloadDir     string
	Algorithm       download.Algorithm
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
	Retries         int
	UserAgent       string
	Policy          resolver.Policy
	Manifest        string
	OverridesPath   string
	Fallbacks       []dependency.Repository
	Affinity        map[dependency.Key][]string
	Redis           *overrides.RedisConfig // nil when no Redis address is configured
}

// Load reads the TOML file at path and resolves it with [New]. A missing
// file at the default location yields the default configuration; a missing
// file at an explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFilename
	}

	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if !explicit && os.IsNotExist(err) {
			return New(File{})
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	return New(f)
}

// Decode parses TOML config data and resolves it with [New].
func Decode(data []byte) (Config, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return New(f)
}

// New resolves defaults for every unset field of f and validates the result.
func New(f File) (Config, error) {
	var (
		c   Config
		err error
	)

	c.DownloadDir = f.DownloadDir
	if c.DownloadDir == "" {
		if c.DownloadDir, err = DefaultDownloadDir(); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve download directory")
		}
	}

	alg := f.ChecksumAlgorithm
	if alg == "" {
		alg = DefaultAlgorithm
	}
	if c.Algorithm, err = download.ParseAlgorithm(alg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "checksum_algorithm")
	}

	if c.ProbeTimeout, err = duration("probe_timeout", f.ProbeTimeout, probe.DefaultTimeout); err != nil {
		return Config{}, err
	}
	if c.DownloadTimeout, err = duration("download_timeout", f.DownloadTimeout, httputil.DefaultTimeout); err != nil {
		return Config{}, err
	}

	c.Retries = DefaultRetries
	if f.DownloadRetries != nil {
		if *f.DownloadRetries < 1 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "download_retries must be at least 1, got %d", *f.DownloadRetries)
		}
		c.Retries = *f.DownloadRetries
	}

	c.UserAgent = f.UserAgent
	if c.UserAgent == "" {
		c.UserAgent = buildinfo.UserAgent()
	}

	if c.Policy, err = resolver.ParsePolicy(f.OverrideValidation); err != nil {
		return Config{}, err
	}

	c.Manifest = f.Manifest
	c.OverridesPath = f.Overrides

	for _, r := range f.Fallbacks {
		repo := dependency.NewRepository(r.URL, r.Name)
		if err := repo.Validate(); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "fallback repository %s", r.URL)
		}
		c.Fallbacks = append(c.Fallbacks, repo)
	}
	if len(c.Fallbacks) == 0 {
		c.Fallbacks = append(c.Fallbacks, mirror.DefaultFallbacks...)
	}

	if c.Affinity, err = affinity(f.Affinity); err != nil {
		return Config{}, err
	}

	if f.Redis.Addr != "" {
		c.Redis = &overrides.RedisConfig{
			Addr:     f.Redis.Addr,
			Password: f.Redis.Password,
			DB:       f.Redis.DB,
			Key:      f.Redis.Key,
		}
	}

	return c, nil
}

// Layout returns the artifact store layout rooted at DownloadDir.
func (c Config) Layout() download.Layout {
	return download.NewLayout(c.DownloadDir)
}

// DefaultDownloadDir returns $XDG_CACHE_HOME/depfetch, or ~/.cache/depfetch.
func DefaultDownloadDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

func duration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", field)
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %s", field, s)
	}
	return d, nil
}

func affinity(raw map[string][]string) (map[dependency.Key][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[dependency.Key][]string, len(raw))
	for coord, names := range raw {
		c, err := dependency.ParseCoordinate(coord)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "affinity %q", coord)
		}
		for _, n := range names {
			if err := errors.ValidateRepositoryName(n); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "affinity %q", coord)
			}
		}
		out[c.Key()] = append([]string(nil), names...)
	}
	return out, nil
}
