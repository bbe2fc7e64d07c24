package presenter

import (
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/spreak/localize"
)

var i18nVars = map[string]localize.MsgID{
	"address":      "Address",
	"street":       "Street",
	"streetnumber": "Street number",
	"sublocality":  "District",
	"locality":     "City",
	"country":      "Country",
}

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"loc": p.loc,
		"pad": pad,
		"lc":  strings.ToLower,
		"uc":  strings.ToUpper,
	}
}

func (p *Presenter) loc(val string) string {
	if raw, ok := i18nVars[strings.ToLower(val)]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

// pad fills val with spaces up to the given display width, so labels with wide or
// combined characters still line up.
func pad(val string, width int) string {
	return runewidth.FillRight(val, width)
}
