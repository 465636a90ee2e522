package importer

import (
	"slices"
	"strings"

	"github.com/annuaire-qc/directory/internal/places"
)

// ParsedAddress is the street address decomposed from Google address
// components. Missing parts are empty strings.
type ParsedAddress struct {
	StreetNumber string `json:"street_number"`
	Route        string `json:"route"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// Street joins the civic number and the street name.
func (a ParsedAddress) Street() string {
	return strings.TrimSpace(a.StreetNumber + " " + a.Route)
}

var addressKeys = []struct {
	componentType string
	field         func(*ParsedAddress) *string
}{
	{"street_number", func(a *ParsedAddress) *string { return &a.StreetNumber }},
	{"route", func(a *ParsedAddress) *string { return &a.Route }},
	{"locality", func(a *ParsedAddress) *string { return &a.City }},
	{"administrative_area_level_1", func(a *ParsedAddress) *string { return &a.Province }},
	{"postal_code", func(a *ParsedAddress) *string { return &a.PostalCode }},
	{"country", func(a *ParsedAddress) *string { return &a.Country }},
}

// ParseAddress assigns each key from the first component carrying its type.
// Later components with the same type and unknown types are ignored.
func ParseAddress(components []places.AddressComponent) ParsedAddress {
	var addr ParsedAddress
	assigned := make(map[string]bool, len(addressKeys))
	for _, component := range components {
		for _, key := range addressKeys {
			if assigned[key.componentType] || !slices.Contains(component.Types, key.componentType) {
				continue
			}
			*key.field(&addr) = component.LongName
			assigned[key.componentType] = true
		}
	}
	return addr
}
