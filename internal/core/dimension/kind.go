// Package dimension defines the closed set of categorical attributes a
// person carries in the registry.
package dimension

import "fmt"

// Kind identifies one of the dimension lookup tables.
type Kind string

const (
	KindSpecialty Kind = "specialty"
	KindRegion    Kind = "region"
	KindWorkplace Kind = "workplace"
)

// Kinds returns every dimension kind in the order they are resolved during apply.
func Kinds() []Kind {
	return []Kind{KindSpecialty, KindRegion, KindWorkplace}
}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown dimension kind %q (expected specialty, region or workplace)", s)
	}
	return k, nil
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSpecialty, KindRegion, KindWorkplace:
		return true
	}
	return false
}

// Label is the capitalised field name used in audit summaries.
func (k Kind) Label() string {
	switch k {
	case KindSpecialty:
		return "Specialty"
	case KindRegion:
		return "Region"
	case KindWorkplace:
		return "Workplace"
	}
	return string(k)
}

// Names holds one display name per kind.
type Names struct {
	Specialty string
	Region    string
	Workplace string
}

// Get returns the name for kind k.
func (n Names) Get(k Kind) string {
	switch k {
	case KindSpecialty:
		return n.Specialty
	case KindRegion:
		return n.Region
	case KindWorkplace:
		return n.Workplace
	}
	return ""
}

// Set stores name under kind k.
func (n *Names) Set(k Kind, name string) {
	switch k {
	case KindSpecialty:
		n.Specialty = name
	case KindRegion:
		n.Region = name
	case KindWorkplace:
		n.Workplace = name
	}
}

// IDs holds one resolved surrogate id per kind.
type IDs struct {
	Specialty int64
	Region    int64
	Workplace int64
}

// Set stores id under kind k.
func (ids *IDs) Set(k Kind, id int64) {
	switch k {
	case KindSpecialty:
		ids.Specialty = id
	case KindRegion:
		ids.Region = id
	case KindWorkplace:
		ids.Workplace = id
	}
}
