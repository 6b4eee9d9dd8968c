// Package config loads precis.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"precis/internal/bignum"
	"precis/internal/limbs"
	"precis/internal/rounding"
	"precis/internal/trace"
)

// FileName is the name looked up from the working directory upwards.
const FileName = "precis.toml"

// Config is the decoded precis.toml with defaults filled in.
type Config struct {
	// Path is the file the values came from; empty when only defaults apply.
	Path string `toml:"-"`

	Format   FormatConfig   `toml:"format"`
	Rounding RoundingConfig `toml:"rounding"`
	Kernel   KernelConfig   `toml:"kernel"`
	Check    CheckConfig    `toml:"check"`
	Trace    TraceConfig    `toml:"trace"`
}

type FormatConfig struct {
	Base      int  `toml:"base"`
	Uppercase bool `toml:"uppercase"`
}

type RoundingConfig struct {
	Mode rounding.Mode `toml:"mode"`
}

type KernelConfig struct {
	KaratsubaThreshold int `toml:"karatsuba_threshold"`
	MaxLimbs           int `toml:"max_limbs"`
}

type CheckConfig struct {
	Cases     int    `toml:"cases"`
	Jobs      int    `toml:"jobs"`
	Seed      uint64 `toml:"seed"`
	MaxWords  int    `toml:"max_words"`
	CorpusDir string `toml:"corpus_dir"`
	Heartbeat string `toml:"heartbeat"`
}

type TraceConfig struct {
	Level  trace.Level `toml:"level"`
	Output string      `toml:"output"`
	Format string      `toml:"format"`
}

// Default returns the configuration used when no precis.toml is found.
func Default() Config {
	return Config{
		Format:   FormatConfig{Base: 10},
		Rounding: RoundingConfig{Mode: rounding.Nearest},
		Kernel: KernelConfig{
			KaratsubaThreshold: 40,
			MaxLimbs:           1_000_000,
		},
		Check: CheckConfig{
			Cases:    2000,
			Jobs:     runtime.GOMAXPROCS(0),
			MaxWords: 12,
		},
		Trace: TraceConfig{
			Level:  trace.LevelOff,
			Output: "-",
			Format: "auto",
		},
	}
}

// Find walks up from startDir looking for precis.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads explicit when it is set, otherwise the nearest precis.toml
// above startDir, otherwise the defaults.
func Resolve(explicit, startDir string) (Config, error) {
	path := explicit
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Config{}, err
		}
		if !ok {
			return Default(), nil
		}
		path = found
	}
	return Load(path)
}

// Load decodes path over the defaults and validates the result. Keys the
// file does not set keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.validate(meta); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate(meta toml.MetaData) error {
	if meta.IsDefined("format", "base") && (c.Format.Base < 2 || c.Format.Base > 36) {
		return fmt.Errorf("[format].base must be between 2 and 36, got %d", c.Format.Base)
	}
	if meta.IsDefined("kernel", "karatsuba_threshold") && c.Kernel.KaratsubaThreshold < 2 {
		return fmt.Errorf("[kernel].karatsuba_threshold must be at least 2, got %d", c.Kernel.KaratsubaThreshold)
	}
	if meta.IsDefined("kernel", "max_limbs") && c.Kernel.MaxLimbs < 1 {
		return fmt.Errorf("[kernel].max_limbs must be positive, got %d", c.Kernel.MaxLimbs)
	}
	if c.Check.Cases < 0 {
		return fmt.Errorf("[check].cases must not be negative, got %d", c.Check.Cases)
	}
	if meta.IsDefined("check", "jobs") && c.Check.Jobs < 1 {
		return fmt.Errorf("[check].jobs must be positive, got %d", c.Check.Jobs)
	}
	if meta.IsDefined("check", "max_words") && c.Check.MaxWords < 1 {
		return fmt.Errorf("[check].max_words must be positive, got %d", c.Check.MaxWords)
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return fmt.Errorf("[trace].format: %w", err)
	}
	return nil
}

// ApplyKernel installs the [kernel] settings into the arithmetic packages.
// It must run before any concurrent use of them.
func (c Config) ApplyKernel() {
	limbs.KaratsubaThreshold = c.Kernel.KaratsubaThreshold
	bignum.MaxLimbs = c.Kernel.MaxLimbs
}
