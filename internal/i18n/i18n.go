// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package i18n ships the trashpoint-geocode message catalogue and builds localizers for it.
//
// The catalogue is a single unnamed gettext domain embedded from locale/<lang>.po. Message IDs
// are the English source texts: the address labels of the text output (Address, Street, Street
// number, District, City, Country), the empty-address notice and the messages logged by the CLI
// and server. German is the only translation; every other language gets the English source.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"
)

// sourceLanguage is the language of the message IDs and the fallback for missing translations
var sourceLanguage = language.English

//go:embed locale/*.po
var catalogue embed.FS

// New returns a Localizer for the catalogue in the given locale. An empty locale is detected
// from the environment, falling back to English.
func New(loc string) (*spreak.Localizer, error) {
	tag := languageTag(loc)

	localeFS, err := fs.Sub(catalogue, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to open message catalogue: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(sourceLanguage),
		spreak.WithFallbackLanguage(sourceLanguage),
		spreak.WithDomainFs(spreak.NoDomain, localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	return spreak.NewLocalizer(bundle, tag), nil
}

func languageTag(loc string) language.Tag {
	if loc != "" {
		return language.Make(loc)
	}
	tag, err := locale.Detect()
	if err != nil {
		return sourceLanguage
	}
	return tag
}
