// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	const (
		expectOutput    = OutputText
		expectLogLevel  = slog.LevelInfo
		expectTimeout   = time.Second * 10
		expectRateBurst = 1
		expectAddress   = ":8080"
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Output != expectOutput {
			t.Errorf("expected output to be: %s, got %s", expectOutput, conf.Output)
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Geocoder.Timeout != expectTimeout {
			t.Errorf("expected geocoder timeout to be: %s, got %s", expectTimeout, conf.Geocoder.Timeout)
		}
		if conf.Geocoder.RateLimit != 0 {
			t.Errorf("expected geocoder rate limit to be disabled, got %f", conf.Geocoder.RateLimit)
		}
		if conf.Geocoder.RateBurst != expectRateBurst {
			t.Errorf("expected geocoder rate burst to be: %d, got %d", expectRateBurst, conf.Geocoder.RateBurst)
		}
		if conf.Server.Address != expectAddress {
			t.Errorf("expected server address to be: %s, got %s", expectAddress, conf.Server.Address)
		}
		if conf.Templates.Text != DefaultTextTpl {
			t.Errorf("expected text template to be the default, got %q", conf.Templates.Text)
		}
		if conf.Location.GPSDAddress != "localhost:2947" {
			t.Errorf("expected gpsd address to be localhost:2947, got %s", conf.Location.GPSDAddress)
		}
		if !strings.HasSuffix(conf.Location.File, filepath.Join("trashpoint-geocode", "geolocation")) {
			t.Errorf("expected geolocation file default, got %s", conf.Location.File)
		}
	})
	t.Run("new config reads the API key from env", func(t *testing.T) {
		t.Setenv("TRASHPOINT_GEOCODER_APIKEY", "secret")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.APIKey != "secret" {
			t.Errorf("expected API key to be %q, got %q", "secret", conf.Geocoder.APIKey)
		}
	})
	t.Run("new config derives the locale from LC_MESSAGES", func(t *testing.T) {
		t.Setenv("LC_MESSAGES", "de_DE.UTF-8")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Locale != "de-DE" {
			t.Errorf("expected locale to be %q, got %q", "de-DE", conf.Locale)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("TRASHPOINT_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"config validate output", "TRASHPOINT_OUTPUT", "xml"},
		{"config validate timeout", "TRASHPOINT_GEOCODER_TIMEOUT", "-1s"},
		{"config validate rate limit", "TRASHPOINT_GEOCODER_RATE_LIMIT", "-1"},
		{"config validate rate burst", "TRASHPOINT_GEOCODER_RATE_BURST", "-1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := New()
			if err == nil {
				t.Error("expected config to fail, but didn't")
			}
		})
	}
	t.Run("zero timeout and burst fall back to the defaults", func(t *testing.T) {
		t.Setenv("TRASHPOINT_GEOCODER_TIMEOUT", "0s")
		t.Setenv("TRASHPOINT_GEOCODER_RATE_BURST", "0")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to create config: %s", err)
		}
		if conf.Geocoder.Timeout != time.Second*10 {
			t.Errorf("expected geocoder timeout to be 10s, got %s", conf.Geocoder.Timeout)
		}
		if conf.Geocoder.RateBurst != 1 {
			t.Errorf("expected geocoder rate burst to be 1, got %d", conf.Geocoder.RateBurst)
		}
	})
	t.Run("validate rejects a zero timeout on a hand-built config", func(t *testing.T) {
		conf := &Config{Output: OutputText}
		conf.Geocoder.RateBurst = 1
		if err := conf.Validate(); err == nil {
			t.Error("expected validation to fail, but didn't")
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("reading config from valid file succeeds", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Locale != "en" {
			t.Errorf("expected locale to be: en, got %s", conf.Locale)
		}
		if conf.Geocoder.APIKey != "your-google-maps-api-key" {
			t.Errorf("expected API key from file, got %q", conf.Geocoder.APIKey)
		}
		if conf.Geocoder.RateLimit != 5 {
			t.Errorf("expected rate limit to be 5, got %f", conf.Geocoder.RateLimit)
		}
		if conf.Geocoder.RateBurst != 2 {
			t.Errorf("expected rate burst to be 2, got %d", conf.Geocoder.RateBurst)
		}
		if conf.Server.ReadTimeout != time.Second*15 {
			t.Errorf("expected server read timeout to be 15s, got %s", conf.Server.ReadTimeout)
		}
	})
	t.Run("env overrides the config file", func(t *testing.T) {
		t.Setenv("TRASHPOINT_OUTPUT", OutputJSON)
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Output != OutputJSON {
			t.Errorf("expected output to be %s, got %s", OutputJSON, conf.Output)
		}
	})
	t.Run("reading config from non-existent file fails", func(t *testing.T) {
		_, err := NewFromFile("../../etc", "non-existent.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("reading invalid config file fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "invalid.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}
