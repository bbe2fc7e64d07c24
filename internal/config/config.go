// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "TRASHPOINT"

	OutputText = "text"
	OutputJSON = "json"

	DefaultTextTpl = `{{pad (loc "address") 16}}{{.CompleteAddress}}
{{pad (loc "street") 16}}{{.StreetAddress}}
{{pad (loc "streetnumber") 16}}{{.StreetNumber}}
{{pad (loc "sublocality") 16}}{{.SubLocality}}
{{pad (loc "locality") 16}}{{.Locality}}
{{pad (loc "country") 16}}{{.Country}}
`
)

// Config represents the application's configuration structure.
type Config struct {
	LogLevel slog.Level `fig:"loglevel" default:"0"`
	Locale   string     `fig:"locale"`
	// Allowed values: text, json
	Output string `fig:"output" default:"text"`

	Geocoder struct {
		APIKey   string `fig:"apikey"`
		Endpoint string `fig:"endpoint"`
		// A zero timeout falls back to the default, negative values are rejected
		Timeout time.Duration `fig:"timeout" default:"10s"`
		// Requests per second, 0 disables rate limiting
		RateLimit float64 `fig:"rate_limit" default:"0"`
		// A zero burst falls back to the default
		RateBurst int `fig:"rate_burst" default:"1"`
	} `fig:"geocoder"`

	Location struct {
		File           string `fig:"file"`
		GPSDAddress    string `fig:"gpsd_address" default:"localhost:2947"`
		DisableFile    bool   `fig:"disable_file"`
		DisableGPSD    bool   `fig:"disable_gpsd"`
		DisableGeoClue bool   `fig:"disable_geoclue"`
		DisableICHNAEA bool   `fig:"disable_ichnaea"`
		DisableGeoIP   bool   `fig:"disable_geoip"`
	} `fig:"location"`

	Server struct {
		Address      string        `fig:"address" default:":8080"`
		ReadTimeout  time.Duration `fig:"read_timeout" default:"15s"`
		WriteTimeout time.Duration `fig:"write_timeout" default:"30s"`
	} `fig:"server"`

	Templates struct {
		Text string `fig:"text"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("invalid output format: %s", c.Output)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Geocoder.Timeout <= 0 {
		return fmt.Errorf("invalid geocoder timeout: %s", c.Geocoder.Timeout)
	}
	if c.Geocoder.RateLimit < 0 {
		return fmt.Errorf("invalid geocoder rate limit: %f", c.Geocoder.RateLimit)
	}
	if c.Geocoder.RateBurst < 1 {
		return fmt.Errorf("invalid geocoder rate burst: %d", c.Geocoder.RateBurst)
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Location.File == "" {
		home, _ := os.UserHomeDir()
		c.Location.File = filepath.Join(home, ".config", "trashpoint-geocode", "geolocation")
	}

	return nil
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
