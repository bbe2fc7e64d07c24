// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import "slices"

// Address component types that are mapped onto Address fields.
const (
	TypeRoute         = "route"
	TypeStreetNumber  = "street_number"
	TypeLocality      = "locality"
	TypeCountry       = "country"
	TypeSubLocality   = "sublocality"
	TypeStreetAddress = "street_address"
)

// Component is a tagged fragment of a geocoded address, e.g. the street or the country.
type Component struct {
	Types    []string
	LongName string
}

// HasType reports whether the component is tagged with the given type.
func (c Component) HasType(kind string) bool {
	return slices.Contains(c.Types, kind)
}

// NewAddress builds the normalized Address from a provider's formatted address and its
// address components.
//
// Components are scanned in the given order. Each component feeds at most one of the street,
// street number, locality, country and sub-locality fields (checked in that order), and the
// first component to fill a field wins. A component tagged as street_address additionally
// fills the street if nothing has filled it yet. If no street was found, it falls back to
// "<sub-locality>, <locality>" and then to the formatted address.
func NewAddress(formatted string, components []Component) Address {
	address := Address{CompleteAddress: formatted}

	for _, component := range components {
		switch {
		case component.HasType(TypeRoute):
			setOnce(&address.StreetAddress, component.LongName)
		case component.HasType(TypeStreetNumber):
			setOnce(&address.StreetNumber, component.LongName)
		case component.HasType(TypeLocality):
			setOnce(&address.Locality, component.LongName)
		case component.HasType(TypeCountry):
			setOnce(&address.Country, component.LongName)
		case component.HasType(TypeSubLocality):
			setOnce(&address.SubLocality, component.LongName)
		}
		if component.HasType(TypeStreetAddress) {
			setOnce(&address.StreetAddress, component.LongName)
		}
	}

	if address.StreetAddress == "" && address.SubLocality != "" && address.Locality != "" {
		address.StreetAddress = address.SubLocality + ", " + address.Locality
	}
	if address.StreetAddress == "" {
		address.StreetAddress = address.CompleteAddress
	}

	return address
}

func setOnce(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
