package gc

import (
	"fmt"
	"io"
	"log"
	"time"

	"gopkg.in/yaml.v2"
)

// Config carries the tunables a host process can set before constructing a
// Collector. Unlike the C source's compile-time MAX_DELAY and PAGE_SIZE
// constants, these are plain struct fields so they can be loaded from a
// file (see LoadConfig) without recompiling, the way compileopts.Options
// carries the tinygo compiler's tunables.
type Config struct {
	// MaxDelay bounds the wall-clock time a single CollectIncremental
	// invocation may spend before returning with work still pending.
	MaxDelay time.Duration `yaml:"max_delay"`

	// PageSize is the unit requested from the OS page supplier when the
	// free list cannot satisfy an allocation. Verify requires a nonzero
	// multiple of the header size; morecore maps max(PageSize, request)
	// bytes and does not round that to the host's actual page size.
	PageSize uintptr `yaml:"page_size"`

	// StackScanLimit caps how many bytes of stack CollectIncremental and
	// Collect will walk looking for roots, as a safety net against a
	// runaway scan if Bind was called far from the mutator's true stack
	// base. Zero means unlimited.
	StackScanLimit uintptr `yaml:"stack_scan_limit"`

	// Logger receives diagnostic output and the verbose Statistics
	// report. A nil Logger disables both.
	Logger *log.Logger `yaml:"-"`
}

// DefaultMaxDelay mirrors the source's MAX_DELAY constant, expressed as a
// proper time.Duration instead of a bare nanosecond count compared against
// tv_nsec (which in the original wraps every second).
const DefaultMaxDelay = 500 * time.Microsecond

// DefaultPageSize is the page granularity assumed when no Config.PageSize
// is given.
const DefaultPageSize = 4096

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		MaxDelay: DefaultMaxDelay,
		PageSize: DefaultPageSize,
	}
}

// rawConfig mirrors Config but spells MaxDelay as a string, since
// yaml.v2 has no built-in notion of time.Duration and would otherwise try
// to unmarshal "500us" straight into an int64 and fail. Decoding through
// this shape lets a config file write max_delay the way a human would
// (time.ParseDuration syntax) instead of a raw nanosecond count.
type rawConfig struct {
	MaxDelay       string  `yaml:"max_delay"`
	PageSize       uintptr `yaml:"page_size"`
	StackScanLimit uintptr `yaml:"stack_scan_limit"`
}

// UnmarshalYAML implements yaml.Unmarshaler so Config can be decoded
// directly with gopkg.in/yaml.v2, translating MaxDelay through
// time.ParseDuration.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw rawConfig
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if raw.PageSize != 0 {
		c.PageSize = raw.PageSize
	}
	if raw.StackScanLimit != 0 {
		c.StackScanLimit = raw.StackScanLimit
	}
	if raw.MaxDelay != "" {
		d, err := time.ParseDuration(raw.MaxDelay)
		if err != nil {
			return fmt.Errorf("gc: invalid max_delay %q: %w", raw.MaxDelay, err)
		}
		c.MaxDelay = d
	}
	return nil
}

// Verify validates c, returning the first problem found. Modeled on
// compileopts.Options.Verify: a handful of independent field checks, the
// first failure wins.
func (c Config) Verify() error {
	if c.MaxDelay <= 0 {
		return fmt.Errorf("gc: invalid MaxDelay %s: must be positive", c.MaxDelay)
	}
	if c.PageSize == 0 || c.PageSize%headerSize != 0 {
		return fmt.Errorf("gc: invalid PageSize %d: must be a nonzero multiple of %d", c.PageSize, headerSize)
	}
	return nil
}

// LoadConfig reads a YAML-encoded Config from r, filling in any field left
// at its zero value with DefaultConfig's value.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("gc: decode config: %w", err)
	}
	if cfg.MaxDelay == 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	return cfg, nil
}
