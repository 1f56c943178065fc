// Package config loads calculator configuration from defaults, an optional
// YAML file and the environment, in increasing order of priority.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration of the API server and the terminal
// calculator.
type Config struct {
	Server     Server     `yaml:"server"`
	Log        Log        `yaml:"log"`
	Telemetry  Telemetry  `yaml:"telemetry"`
	Calculator Calculator `yaml:"calculator"`
	Voice      Voice      `yaml:"voice"`
}

type Server struct {
	Addr              string        `yaml:"addr" validate:"required"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" validate:"gte=0"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type Log struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Telemetry switches the OTLP exporters. Each exporter reads its endpoint
// from the standard OTEL_EXPORTER_OTLP_* variables.
type Telemetry struct {
	ServiceName string `yaml:"service_name" validate:"required"`
	Traces      bool   `yaml:"traces"`
	Metrics     bool   `yaml:"metrics"`
	Logs        bool   `yaml:"logs"`
}

type Calculator struct {
	AngleUnit    string `yaml:"angle_unit" validate:"oneof=radians rad degrees deg"`
	ResultPolicy string `yaml:"result_policy" validate:"oneof=fresh continue"`
	// RecentHistory is how many history entries are listed by default.
	RecentHistory int `yaml:"recent_history" validate:"gte=1,lte=1000"`
}

// Voice configures the external recognizer and synthesizer programs. Empty
// commands disable the respective direction.
type Voice struct {
	ListenCommand   []string      `yaml:"listen_command"`
	SpeakCommand    []string      `yaml:"speak_command"`
	PhraseLimit     time.Duration `yaml:"phrase_limit" validate:"gt=0"`
	Calibration     time.Duration `yaml:"calibration" validate:"gte=0"`
	BreakerFailures uint32        `yaml:"breaker_failures" validate:"gte=1"`
	BreakerTimeout  time.Duration `yaml:"breaker_timeout" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
		Telemetry: Telemetry{
			ServiceName: "voice-calculator",
		},
		Calculator: Calculator{
			AngleUnit:     "radians",
			ResultPolicy:  "fresh",
			RecentHistory: 12,
		},
		Voice: Voice{
			PhraseLimit:     5 * time.Second,
			Calibration:     500 * time.Millisecond,
			BreakerFailures: 3,
			BreakerTimeout:  30 * time.Second,
		},
	}
}

// Load returns the default configuration overlaid with the YAML file at path
// (if path is not empty) and then with environment variables, and validates
// the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := cfg.decode(b); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(b []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	argv := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok {
			*dst = strings.Fields(v)
		}
	}

	str("CALC_ADDR", &c.Server.Addr)
	duration("CALC_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	str("CALC_LOG_LEVEL", &c.Log.Level)
	boolean("CALC_LOG_DEVELOPMENT", &c.Log.Development)
	str("OTEL_SERVICE_NAME", &c.Telemetry.ServiceName)
	boolean("CALC_OTEL_TRACES", &c.Telemetry.Traces)
	boolean("CALC_OTEL_METRICS", &c.Telemetry.Metrics)
	boolean("CALC_OTEL_LOGS", &c.Telemetry.Logs)
	str("CALC_ANGLE_UNIT", &c.Calculator.AngleUnit)
	str("CALC_RESULT_POLICY", &c.Calculator.ResultPolicy)
	argv("CALC_LISTEN_COMMAND", &c.Voice.ListenCommand)
	argv("CALC_SPEAK_COMMAND", &c.Voice.SpeakCommand)
	duration("CALC_PHRASE_LIMIT", &c.Voice.PhraseLimit)

	if len(errs) > 0 {
		return fmt.Errorf("reading environment: %w", errors.Join(errs...))
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report fields by their YAML names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.IndexByte(ns, '.'); i >= 0 {
			ns = ns[i+1:]
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s=%s, got %v", ns, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: must satisfy %s", ns, fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
