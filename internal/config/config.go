package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"

	"expense-insights/internal/core"
)

const ProgramName = "analyze-expenses"

type Config struct {
	// Caller context
	Email  string
	Period core.Period

	// Salary is the income figure; SalarySet is true when --salary was given.
	Salary    float64
	SalarySet bool

	// SQLite expense source (optional)
	SQLiteDBPath string

	// AMQP publication (optional)
	Publish        bool
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Logging
	LogLevel  string
	LogFormat string
}

var (
	// ErrUsage wraps every error caused by a bad invocation.
	ErrUsage = errors.New("usage error")
	// ErrFlagSyntax marks errors the flag set has already reported.
	ErrFlagSyntax = fmt.Errorf("%w: bad flags", ErrUsage)
)

// Load parses args over environment defaults. Flag parse errors and usage
// are written to output. It returns flag.ErrHelp when help was requested.
func Load(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", ""),
		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "expense_insights"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "insights.generated"),
		Publish:        getEnvBool("PUBLISH_INSIGHTS", false),
		LogLevel:       getEnv("LOG_LEVEL", "warn"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	var period, salary string
	fs := newFlagSet(output, cfg, &period, &salary)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFlagSyntax, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments: %s", ErrUsage, strings.Join(fs.Args(), " "))
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "salary" {
			cfg.SalarySet = true
		}
	})

	v, err := ParseSalary(salary)
	if err != nil {
		return nil, fmt.Errorf("%w: argument --salary: %w", ErrUsage, err)
	}
	cfg.Salary = v
	cfg.Period = core.Period(strings.TrimSpace(period))

	return cfg, nil
}

// PrintUsage writes the flag summary to w.
func PrintUsage(w io.Writer) {
	var period, salary string
	newFlagSet(w, &Config{}, &period, &salary).Usage()
}

func newFlagSet(w io.Writer, cfg *Config, period, salary *string) *flag.FlagSet {
	fs := flag.NewFlagSet(ProgramName, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		fmt.Fprintf(w, "Usage: %s --email <email> --period <week|month> [--salary <number>] < expenses.json\n\nFlags:\n", ProgramName)
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Email, "email", "", "User email (required)")
	fs.StringVar(period, "period", "", "Analysis period: week or month (required)")
	fs.StringVar(salary, "salary", "0", "User salary")
	fs.StringVar(&cfg.SQLiteDBPath, "db", cfg.SQLiteDBPath, "Read expenses from this SQLite database instead of stdin")
	fs.BoolVar(&cfg.Publish, "publish", cfg.Publish, "Publish the result to AMQP_URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	return fs
}

// ParseSalary converts the --salary value to a finite float.
func ParseSalary(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidSalary, s)
	}
	return v, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "--email is required")
	}

	if c.Period == "" {
		errs = append(errs, "--period is required")
	} else if _, err := core.ParsePeriod(string(c.Period)); err != nil {
		errs = append(errs, fmt.Sprintf("invalid period '%s': must be one of %v", c.Period, core.Periods()))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !oneOf(strings.ToLower(c.LogLevel), validLevels) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	validFormats := []string{"text", "json"}
	if !oneOf(strings.ToLower(c.LogFormat), validFormats) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	// The expense database must already exist; it is a read source.
	if c.SQLiteDBPath != "" {
		if info, err := os.Stat(c.SQLiteDBPath); err != nil {
			errs = append(errs, fmt.Sprintf("SQLite database '%s' is not readable: %v", c.SQLiteDBPath, err))
		} else if info.IsDir() {
			errs = append(errs, fmt.Sprintf("SQLite database '%s' is a directory", c.SQLiteDBPath))
		}
	}

	if c.Publish {
		if c.AMQPURL == "" {
			errs = append(errs, "AMQP_URL is required when publishing is enabled")
		} else if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when publishing is enabled")
		}
		if c.AMQPRoutingKey == "" {
			errs = append(errs, "AMQP routing key cannot be empty when publishing is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: configuration validation failed:\n- %s", ErrUsage, strings.Join(errs, "\n- "))
	}

	return nil
}

// PeriodValue returns the validated period. Call Validate first.
func (c *Config) PeriodValue() core.Period {
	p, _ := core.ParsePeriod(string(c.Period))
	return p
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
