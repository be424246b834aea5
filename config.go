package crystalrun

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the orchestrator configuration.
// It can be populated from YAML, JSON, environment variables, etc. The
// zero-value is useful: all nested fields inherit their package defaults.
type Config struct {
	Scratch  ScratchConfig  `json:"scratch" yaml:"scratch"`
	Binaries BinariesConfig `json:"binaries" yaml:"binaries"`
	MPI      MPIConfig      `json:"mpi" yaml:"mpi"`
	Limits   LimitsConfig   `json:"limits" yaml:"limits"`
}

// ScratchConfig locates the shared scratch base directory.
type ScratchConfig struct {
	BaseDir string `json:"baseDir" yaml:"baseDir"`
}

// BinariesConfig locates the two fixed-name executables.
type BinariesConfig struct {
	Dir      string `json:"dir" yaml:"dir"`
	Serial   string `json:"serial" yaml:"serial"`
	Parallel string `json:"parallel" yaml:"parallel"`
}

// MPIConfig controls launcher resolution. Root takes precedence over a
// PATH-resolved launcher name.
type MPIConfig struct {
	Root     string `json:"root,omitempty" yaml:"root,omitempty"`
	Launcher string `json:"launcher" yaml:"launcher"`
}

// LimitsConfig carries the optional wall-clock limit. Zero means none: the
// external computation imposes no timeout of its own.
type LimitsConfig struct {
	MaxWallClock time.Duration `json:"maxWallClock,omitempty" yaml:"maxWallClock,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
// Callers may modify the returned struct before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Scratch: ScratchConfig{
			BaseDir: filepath.Join(os.TempDir(), "crystalrun"),
		},
		Binaries: BinariesConfig{
			Serial:   "crystal",
			Parallel: "Pcrystal",
		},
		MPI: MPIConfig{
			Launcher: "mpirun",
		},
	}
}

// ApplyEnv overlays the documented environment inputs onto the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CRY_SCRATCH"); v != "" {
		c.Scratch.BaseDir = v
	}
	if v := os.Getenv("CRY_BIN_DIR"); v != "" {
		c.Binaries.Dir = v
	}
	if v := os.Getenv("I_MPI_ROOT"); v != "" {
		c.MPI.Root = v
	}
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Scratch.BaseDir == "" {
		return fmt.Errorf("scratch.baseDir must not be empty")
	}
	if c.Binaries.Dir == "" {
		return fmt.Errorf("binaries.dir must not be empty")
	}
	if c.Binaries.Serial == "" && c.Binaries.Parallel == "" {
		return fmt.Errorf("at least one of binaries.serial, binaries.parallel must be set")
	}
	if c.MPI.Launcher == "" {
		return fmt.Errorf("mpi.launcher must not be empty")
	}
	if c.Limits.MaxWallClock < 0 {
		return fmt.Errorf("limits.maxWallClock must be >= 0")
	}
	return nil
}

// LoadConfig reads a YAML config from the supplied URL or path, overlays the
// defaults and environment, and validates the result.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
