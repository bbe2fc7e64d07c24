// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the trashpoint-geocode command line tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/letsdoitworld/trashpoint-geocode/internal/config"
	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
	"github.com/letsdoitworld/trashpoint-geocode/internal/i18n"
	"github.com/letsdoitworld/trashpoint-geocode/internal/logger"
	"github.com/letsdoitworld/trashpoint-geocode/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configPath string
	serve      string
	output     string
	locate     bool
	lat        string
	lng        string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.NewLogger(slog.LevelError)

	opts := parseFlags(flag.CommandLine, os.Args[1:])
	coords, err := opts.coordinates()
	if err != nil {
		log.Error("invalid coordinates", logger.Err(err))
		os.Exit(1)
	}

	conf, err := loadConfig(opts.configPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	if opts.output != "" {
		conf.Output = opts.output
		if err = conf.Validate(); err != nil {
			log.Error("invalid output format", logger.Err(err))
			os.Exit(1)
		}
	}
	if opts.serve != "" {
		conf.Server.Address = opts.serve
	}

	log = logger.NewLogger(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		os.Exit(1)
	}

	serv, err := service.New(conf, log, t)
	if err != nil {
		log.Error("failed to initialize trashpoint-geocode service", logger.Err(err))
		os.Exit(1)
	}

	if opts.serve != "" {
		log.Debug("trashpoint-geocode", slog.String("version", version), slog.String("commit", commit),
			slog.String("date", date))
		if err = serv.Serve(ctx); err != nil {
			log.Error("http server failed", logger.Err(err))
			os.Exit(1)
		}
		return
	}

	if err = serv.Print(ctx, os.Stdout, coords); err != nil {
		log.Error("failed to look up address", logger.Err(err))
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) *options {
	opts := new(options)
	fs.StringVar(&opts.configPath, "config", "", "path to the config file")
	fs.StringVar(&opts.serve, "serve", "", "run the HTTP service on the given address")
	fs.StringVar(&opts.output, "output", "", "output format: text or json")
	fs.BoolVar(&opts.locate, "locate", false, "resolve the address of the current location")
	fs.StringVar(&opts.lat, "lat", "", "latitude in decimal degrees")
	fs.StringVar(&opts.lng, "lng", "", "longitude in decimal degrees")
	_ = fs.Parse(args)
	return opts
}

// coordinates returns the coordinates given on the command line, or nil if the current
// location should be used.
func (o *options) coordinates() (*geocode.Coordinates, error) {
	if o.locate {
		if o.lat != "" || o.lng != "" {
			return nil, errors.New("-locate can't be combined with -lat/-lng")
		}
		return nil, nil
	}
	if o.lat == "" && o.lng == "" {
		return nil, nil
	}
	if o.lat == "" || o.lng == "" {
		return nil, errors.New("both -lat and -lng are required")
	}

	lat, err := strconv.ParseFloat(o.lat, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse latitude %q: %w", o.lat, err)
	}
	lng, err := strconv.ParseFloat(o.lng, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse longitude %q: %w", o.lng, err)
	}
	coords := geocode.Coordinates{Latitude: lat, Longitude: lng}
	if !coords.Valid() {
		return nil, fmt.Errorf("coordinates out of range: %s", coords)
	}
	return &coords, nil
}

// loadConfig reads the defaults and environment, then the given config file or the first
// config file found in the default location.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		conf, err := config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		conf, err := config.NewFromFile(path, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "trashpoint-geocode", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
