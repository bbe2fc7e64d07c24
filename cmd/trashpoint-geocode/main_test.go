// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/letsdoitworld/trashpoint-geocode/internal/config"
)

func TestParseFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts := parseFlags(fs, []string{"-lat", "51.5", "-lng", "-0.12", "-output", "json", "-config", "/tmp/c.toml"})
	if opts.lat != "51.5" || opts.lng != "-0.12" {
		t.Errorf("unexpected coordinates: %s,%s", opts.lat, opts.lng)
	}
	if opts.output != config.OutputJSON {
		t.Errorf("expected output to be %s, got %s", config.OutputJSON, opts.output)
	}
	if opts.configPath != "/tmp/c.toml" {
		t.Errorf("expected config path to be /tmp/c.toml, got %s", opts.configPath)
	}
	if opts.locate || opts.serve != "" {
		t.Error("expected locate and serve to be unset")
	}
}

func TestOptions_coordinates(t *testing.T) {
	t.Run("explicit coordinates", func(t *testing.T) {
		opts := &options{lat: "51.5237", lng: "-0.1585"}
		coords, err := opts.coordinates()
		if err != nil {
			t.Fatalf("failed to parse coordinates: %s", err)
		}
		if coords == nil || coords.Latitude != 51.5237 || coords.Longitude != -0.1585 {
			t.Errorf("unexpected coordinates: %v", coords)
		}
	})
	t.Run("no coordinates means current location", func(t *testing.T) {
		for _, opts := range []*options{{}, {locate: true}} {
			coords, err := opts.coordinates()
			if err != nil {
				t.Fatalf("failed to parse coordinates: %s", err)
			}
			if coords != nil {
				t.Errorf("expected no coordinates, got %s", coords)
			}
		}
	})

	failures := []struct {
		name string
		opts options
	}{
		{"locate combined with coordinates", options{locate: true, lat: "1"}},
		{"latitude only", options{lat: "1"}},
		{"longitude only", options{lng: "1"}},
		{"unparsable latitude", options{lat: "north", lng: "1"}},
		{"unparsable longitude", options{lat: "1", lng: "east"}},
		{"out of range", options{lat: "-91", lng: "1"}},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.opts.coordinates(); err == nil {
				t.Error("expected parsing coordinates to fail")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("explicit config file", func(t *testing.T) {
		conf, err := loadConfig("../../etc/config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Geocoder.APIKey != "your-google-maps-api-key" {
			t.Errorf("expected API key from file, got %q", conf.Geocoder.APIKey)
		}
	})
	t.Run("missing explicit config file fails", func(t *testing.T) {
		if _, err := loadConfig("../../etc/non-existent.toml"); err == nil {
			t.Error("expected loading config to fail")
		}
	})
	t.Run("config file in the default location", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "trashpoint-geocode")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: json\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		path, file := findConfigFile()
		if path != dir || file != "config.yaml" {
			t.Errorf("expected %s/config.yaml, got %s/%s", dir, path, file)
		}
		conf, err := loadConfig("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Output != config.OutputJSON {
			t.Errorf("expected output to be %s, got %s", config.OutputJSON, conf.Output)
		}
	})
	t.Run("defaults without config file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		conf, err := loadConfig("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Output != config.OutputText {
			t.Errorf("expected output to be %s, got %s", config.OutputText, conf.Output)
		}
	})
}
