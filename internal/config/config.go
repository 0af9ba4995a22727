// Package config provides functionality for managing configuration options
// for the application using a YAML file, environment variables and
// command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Options holds the configuration values for the server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `yaml:"address" env:"SERVER_ADDRESS" env-default:"localhost:8080"`

	// DatabaseDSN holds the PostgreSQL connection string.
	DatabaseDSN string `yaml:"database_dsn" env:"DATABASE_DSN"`

	// Config is the path to the YAML config file.
	Config string `yaml:"-"`

	// LogLevel is the minimum zap level (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// JWTSecret signs and verifies bearer tokens.
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`

	// TokenTTL is the lifetime of an issued token.
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" env-default:"720h"`

	// GoogleBooksURL is the base URL of the Google Books v1 API.
	GoogleBooksURL string `yaml:"google_books_url" env:"GOOGLE_BOOKS_URL" env-default:"https://www.googleapis.com/books/v1"`

	// GoogleBooksAPIKey is appended to catalog queries when set.
	GoogleBooksAPIKey string `yaml:"google_books_api_key" env:"GOOGLE_BOOKS_API_KEY"`

	// CatalogTimeout bounds a single catalog lookup.
	CatalogTimeout time.Duration `yaml:"catalog_timeout" env:"CATALOG_TIMEOUT" env-default:"10s"`

	// HTTPServer holds listener timeouts and optional TLS material.
	HTTPServer HTTPServer `yaml:"http_server"`
}

// HTTPServer holds net/http server settings.
type HTTPServer struct {
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	// TLSCert and TLSKey switch the listener to HTTPS when both are set.
	TLSCert string `yaml:"tls_cert" env:"TLS_CERT"`
	TLSKey  string `yaml:"tls_key" env:"TLS_KEY"`
}

// Parse loads the configuration from os.Args and exits on error.
func Parse() *Options {
	opts, err := Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return opts
}

// Load builds Options in three layers: the YAML config file (when it
// exists) and environment variables via cleanenv, then explicitly set
// command-line flags on top.
func Load(args []string) (*Options, error) {
	var (
		flagOpts   Options
		configPath string
	)

	fs := flag.NewFlagSet("bookshelf", flag.ContinueOnError)
	fs.StringVar(&flagOpts.Port, "a", "localhost:8080", "run on ip:port server")
	fs.StringVar(&flagOpts.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&flagOpts.LogLevel, "l", "info", "log level")
	fs.StringVar(&flagOpts.JWTSecret, "s", "", "token signing secret")
	fs.StringVar(&configPath, "config", "config.yaml", "path to config file")
	fs.StringVar(&configPath, "c", "config.yaml", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override the config path with the environment variable if set
	explicitPath := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" || f.Name == "c" {
			explicitPath = true
		}
	})
	if envPath := os.Getenv("CONFIG"); envPath != "" && !explicitPath {
		configPath = envPath
	}

	opts := &Options{Config: configPath}
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, opts); err != nil {
			return nil, fmt.Errorf("error while reading config file: %w", err)
		}
	} else {
		if explicitPath {
			return nil, fmt.Errorf("config file %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(opts); err != nil {
			return nil, fmt.Errorf("error while reading environment: %w", err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			opts.Port = flagOpts.Port
		case "d":
			opts.DatabaseDSN = flagOpts.DatabaseDSN
		case "l":
			opts.LogLevel = flagOpts.LogLevel
		case "s":
			opts.JWTSecret = flagOpts.JWTSecret
		}
	})

	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) validate() error {
	var errs []error
	if o.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is required (-d or DATABASE_DSN)"))
	}
	if o.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required (-s or JWT_SECRET)"))
	}
	if (o.HTTPServer.TLSCert == "") != (o.HTTPServer.TLSKey == "") {
		errs = append(errs, errors.New("tls_cert and tls_key must be set together"))
	}
	return errors.Join(errs...)
}
