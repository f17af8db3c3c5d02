package properties

import (
	"fmt"
	"strings"

	"github.com/casavia/casavia/internal/shared"
)

// The enumerations below are closed sets fixed at build time. Inputs are
// resolved by identifier; unknown identifiers are rejected with the list
// of valid choices in the message.

// PropertyType codes.
const (
	TypeApartment = 1
	TypeHouse     = 2
	TypeDuplex    = 3
	TypeBungalow  = 4
	TypeLand      = 5
	TypeOffice    = 6
)

// PropertyStatus codes.
const (
	StatusForSale = 1
	StatusForRent = 2
	StatusSold    = 3
	StatusRented  = 4
)

// PropertyFeature codes.
const (
	FeatureSwimmingPool    = 1
	FeatureGarage          = 2
	FeatureGarden          = 3
	FeatureBalcony         = 4
	FeatureSecurity        = 5
	FeatureGym             = 6
	FeatureFurnished       = 7
	FeatureAirConditioning = 8
)

type enumEntry struct {
	Name string
	Code int
}

// enumTable is one closed name→code enumeration; entries keep declaration
// order for error messages.
type enumTable struct {
	label   string
	entries []enumEntry
}

// Resolve maps an identifier to its code, rejecting unknown identifiers
// with the valid choices listed.
func (t enumTable) Resolve(identifier string) (int, error) {
	for _, e := range t.entries {
		if e.Name == identifier {
			return e.Code, nil
		}
	}
	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = e.Name
	}
	return 0, shared.NewValidation(fmt.Sprintf(
		"The property %s identifier '%s' does not exist. Value must be %s",
		t.label, identifier, strings.Join(names, ",")))
}

// Name reverse-maps a code to its identifier, or "" when unknown.
func (t enumTable) Name(code int) string {
	for _, e := range t.entries {
		if e.Code == code {
			return e.Name
		}
	}
	return ""
}

var typeTable = enumTable{label: "type", entries: []enumEntry{
	{"apartment", TypeApartment},
	{"house", TypeHouse},
	{"duplex", TypeDuplex},
	{"bungalow", TypeBungalow},
	{"land", TypeLand},
	{"office", TypeOffice},
}}

var statusTable = enumTable{label: "status", entries: []enumEntry{
	{"for_sale", StatusForSale},
	{"for_rent", StatusForRent},
	{"sold", StatusSold},
	{"rented", StatusRented},
}}

var featureTable = enumTable{label: "feature", entries: []enumEntry{
	{"swimming_pool", FeatureSwimmingPool},
	{"garage", FeatureGarage},
	{"garden", FeatureGarden},
	{"balcony", FeatureBalcony},
	{"security", FeatureSecurity},
	{"gym", FeatureGym},
	{"furnished", FeatureFurnished},
	{"air_conditioning", FeatureAirConditioning},
}}

// ResolveType maps a property type identifier to its code.
func ResolveType(identifier string) (int, error) { return typeTable.Resolve(identifier) }

// ResolveStatus maps a property status identifier to its code.
func ResolveStatus(identifier string) (int, error) { return statusTable.Resolve(identifier) }

// ResolveFeatures maps feature identifiers to codes, failing on the first
// unknown identifier.
func ResolveFeatures(identifiers []string) ([]int, error) {
	codes := make([]int, 0, len(identifiers))
	for _, id := range identifiers {
		code, err := featureTable.Resolve(id)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// TypeName reverse-maps a stored type code for API responses.
func TypeName(code int) string { return typeTable.Name(code) }

// StatusName reverse-maps a stored status code for API responses.
func StatusName(code int) string { return statusTable.Name(code) }

// FeatureNames reverse-maps stored feature codes, skipping unknown codes.
func FeatureNames(codes []int) []string {
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		if name := featureTable.Name(code); name != "" {
			names = append(names, name)
		}
	}
	return names
}
