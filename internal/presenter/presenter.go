// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders resolved addresses for humans and machines.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/vorlif/spreak"

	"github.com/letsdoitworld/trashpoint-geocode/internal/config"
	"github.com/letsdoitworld/trashpoint-geocode/internal/geocode"
)

type Presenter struct {
	text      *template.Template
	localizer *spreak.Localizer
}

func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	p := &Presenter{localizer: loc}
	tpl, err := template.New("text").Funcs(p.templateFuncMap()).Parse(conf.Templates.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	p.text = tpl
	return p, nil
}

// Text renders the address with the configured text template. An empty address is rendered
// as a localized notice instead.
func (p *Presenter) Text(w io.Writer, addr geocode.Address) error {
	if addr.IsEmpty() {
		if _, err := fmt.Fprintln(w, p.localizer.Get("No address found for the given coordinates")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := p.text.Execute(w, addr); err != nil {
		return fmt.Errorf("failed to render text template: %w", err)
	}
	return nil
}

// JSON writes the address as indented JSON record.
func (p *Presenter) JSON(w io.Writer, addr geocode.Address) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(addr); err != nil {
		return fmt.Errorf("failed to encode address: %w", err)
	}
	return nil
}

// Render writes the address in the given output format.
func (p *Presenter) Render(w io.Writer, format string, addr geocode.Address) error {
	switch format {
	case config.OutputJSON:
		return p.JSON(w, addr)
	case config.OutputText:
		return p.Text(w, addr)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
