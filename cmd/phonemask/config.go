package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/vortex-fintech/go-phonemask/foundation/validator"
)

// Config is read from PHONEMASK_* variables (a .env file in the working
// directory is honoured) and then overridden by explicitly set flags.
type Config struct {
	Env             string        `validate:"oneof=development debug production"`
	ServiceName     string        `validate:"required"`
	HTTPAddr        string        `validate:"required,hostname_port"`
	CountriesFile   string        `validate:"omitempty,file"`
	DefaultCountry  string        `validate:"required,iso2"`
	ShutdownTimeout time.Duration `validate:"gt=0s"`
}

const envPrefix = "PHONEMASK_"

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("config: %sSHUTDOWN_TIMEOUT: %w", envPrefix, err)
	}

	return Config{
		Env:             getEnv("ENV", "production"),
		ServiceName:     getEnv("SERVICE_NAME", "phonemask"),
		HTTPAddr:        getEnv("HTTP_ADDR", "127.0.0.1:8080"),
		CountriesFile:   getEnv("COUNTRIES_FILE", ""),
		DefaultCountry:  strings.ToUpper(getEnv("DEFAULT_COUNTRY", "US")),
		ShutdownTimeout: timeout,
	}, nil
}

// ApplyFlags copies every flag the user set explicitly over c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) {
	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str("env", &c.Env)
	str("countries-file", &c.CountriesFile)
	str("default-country", &c.DefaultCountry)
	str("http-addr", &c.HTTPAddr)
	c.DefaultCountry = strings.ToUpper(c.DefaultCountry)

	if f := fs.Lookup("shutdown-timeout"); f != nil && f.Changed {
		if d, err := fs.GetDuration("shutdown-timeout"); err == nil {
			c.ShutdownTimeout = d
		}
	}
}

func (c Config) Validate() error {
	return validator.ValidateErr(c)
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(envPrefix + key); ok {
		return val
	}
	return fallback
}
