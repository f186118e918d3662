// Package config resolves fdgraph settings from defaults, an optional YAML
// file, the environment (including a .env file) and command-line flags, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/tordrt/fdgraph/internal/debounce"
	"github.com/tordrt/fdgraph/internal/layout"
	"github.com/tordrt/fdgraph/internal/validate"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "FDGRAPH_"

// Flag names shared by every command
const (
	FlagWidth      = "width"
	FlagHeight     = "height"
	FlagMaxAttrLen = "max-attr-len"
	FlagDebounce   = "debounce"
	FlagNodeRadius = "node-radius"
	FlagVerbose    = "verbose"
)

type Config struct {
	Width              float64       `yaml:"width"`
	Height             float64       `yaml:"height"`
	MaxAttributeLength int           `yaml:"max_attribute_length"`
	Debounce           time.Duration `yaml:"debounce"`
	NodeRadius         float64       `yaml:"node_radius"`
	Verbose            bool          `yaml:"verbose"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		Width:              800,
		Height:             600,
		MaxAttributeLength: validate.DefaultMaxLength,
		Debounce:           debounce.DefaultDelay,
		NodeRadius:         layout.DefaultOptions().NodeRadius,
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads .env style files into the process environment. Missing
// files are ignored; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays FDGRAPH_* variables using lookup (os.LookupEnv in production)
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	float := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}

	float("WIDTH", &c.Width)
	float("HEIGHT", &c.Height)
	float("NODE_RADIUS", &c.NodeRadius)

	if v, ok := lookup(EnvPrefix + "MAX_ATTRIBUTE_LENGTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_ATTRIBUTE_LENGTH: %w", EnvPrefix, err))
		} else {
			c.MaxAttributeLength = n
		}
	}
	if v, ok := lookup(EnvPrefix + "DEBOUNCE"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDEBOUNCE: %w", EnvPrefix, err))
		} else {
			c.Debounce = d
		}
	}
	if v, ok := lookup(EnvPrefix + "VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sVERBOSE: %w", EnvPrefix, err))
		} else {
			c.Verbose = b
		}
	}

	return errors.Join(errs...)
}

// RegisterFlags declares the shared flags with the defaults as help values
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.Float64(FlagWidth, d.Width, "Canvas width of the diagram")
	fs.Float64(FlagHeight, d.Height, "Canvas height of the diagram")
	fs.Int(FlagMaxAttrLen, d.MaxAttributeLength, "Maximum attribute name length")
	fs.Duration(FlagDebounce, d.Debounce, "Delay before re-rendering after a resize or file change")
	fs.Float64(FlagNodeRadius, d.NodeRadius, "Radius of attribute nodes")
	fs.BoolP(FlagVerbose, "v", false, "Enable debug logging")
}

// ApplyFlags overlays only the flags the user actually set
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	if fs.Changed(FlagWidth) {
		if c.Width, err = fs.GetFloat64(FlagWidth); err != nil {
			return err
		}
	}
	if fs.Changed(FlagHeight) {
		if c.Height, err = fs.GetFloat64(FlagHeight); err != nil {
			return err
		}
	}
	if fs.Changed(FlagMaxAttrLen) {
		if c.MaxAttributeLength, err = fs.GetInt(FlagMaxAttrLen); err != nil {
			return err
		}
	}
	if fs.Changed(FlagDebounce) {
		if c.Debounce, err = fs.GetDuration(FlagDebounce); err != nil {
			return err
		}
	}
	if fs.Changed(FlagNodeRadius) {
		if c.NodeRadius, err = fs.GetFloat64(FlagNodeRadius); err != nil {
			return err
		}
	}
	if fs.Changed(FlagVerbose) {
		if c.Verbose, err = fs.GetBool(FlagVerbose); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.MaxAttributeLength <= 0 {
		return fmt.Errorf("max attribute length must be positive, got %d", c.MaxAttributeLength)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	if c.NodeRadius <= 0 {
		return fmt.Errorf("node radius must be positive, got %g", c.NodeRadius)
	}
	return nil
}

// LayoutOptions returns the diagram geometry for this configuration
func (c *Config) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.NodeRadius = c.NodeRadius
	return opts
}

// Validator returns an input validator for this configuration
func (c *Config) Validator() *validate.Validator {
	return validate.New(c.MaxAttributeLength)
}
