// ABOUTME: Player configuration loading
// ABOUTME: Layers defaults, an optional config file, .env and CHUNKSTREAM_* environment variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/Sendspin/chunkstream/pkg/audio/output"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CHUNKSTREAM_SAMPLE_RATE
const EnvPrefix = "CHUNKSTREAM"

// Config holds everything the player binary needs
type Config struct {
	// Output
	Backend     string
	SampleRate  int
	BlockSize   int
	QueueSize   int
	JoinTimeout time.Duration
	Resample    bool
	Debug       bool

	// Ingest
	Listen      string
	MDNS        bool
	ServiceName string

	// Frontend
	LogFile string
	TUI     bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "malgo")
	v.SetDefault("sample_rate", 48000)
	v.SetDefault("block_size", 1024)
	v.SetDefault("queue_size", 256)
	v.SetDefault("join_timeout", time.Second)
	v.SetDefault("resample", false)
	v.SetDefault("debug", false)
	v.SetDefault("listen", "0.0.0.0:8927")
	v.SetDefault("mdns", true)
	v.SetDefault("service_name", "")
	v.SetDefault("log_file", "chunkstream.log")
	v.SetDefault("tui", true)
}

// LoadDotEnv loads KEY=value files into the process environment. Missing
// files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads .env from the working directory, then path (if non-empty),
// then CHUNKSTREAM_* variables. An explicitly named file must exist.
func Load(path string) (Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Backend:     v.GetString("backend"),
		SampleRate:  v.GetInt("sample_rate"),
		BlockSize:   v.GetInt("block_size"),
		QueueSize:   v.GetInt("queue_size"),
		JoinTimeout: v.GetDuration("join_timeout"),
		Resample:    v.GetBool("resample"),
		Debug:       v.GetBool("debug"),
		Listen:      v.GetString("listen"),
		MDNS:        v.GetBool("mdns"),
		ServiceName: v.GetString("service_name"),
		LogFile:     v.GetString("log_file"),
		TUI:         v.GetBool("tui"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and the backend name
func (c Config) Validate() error {
	if !slices.Contains(output.Backends, c.Backend) {
		return fmt.Errorf("unsupported output backend: %s (supported: %s)", c.Backend, strings.Join(output.Backends, ", "))
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sample_rate: %d", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("invalid block_size: %d", c.BlockSize)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("invalid queue_size: %d", c.QueueSize)
	}
	if c.JoinTimeout <= 0 {
		return fmt.Errorf("invalid join_timeout: %v", c.JoinTimeout)
	}
	return nil
}
