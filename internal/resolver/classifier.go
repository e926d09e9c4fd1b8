package resolver

import (
	"fmt"
	"regexp"
)

// Kind classifies a member DN.
type Kind int

const (
	KindUnknown Kind = iota
	KindPerson
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindPerson:
		return "person"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "person":
		*k = KindPerson
	case "group":
		*k = KindGroup
	default:
		*k = KindUnknown
	}
	return nil
}

const (
	DefaultPersonPattern = `(?i)(^|,)\s*ou=(users|people)\s*(,|$)`
	DefaultGroupPattern  = `(?i)(^|,)\s*ou=groups\s*(,|$)`
)

// Classifier tells persons from groups by matching DN patterns.
// The person pattern wins when both match.
type Classifier struct {
	person *regexp.Regexp
	group  *regexp.Regexp
}

// NewClassifier compiles the two patterns. Empty patterns fall back to
// the defaults.
func NewClassifier(personPattern, groupPattern string) (*Classifier, error) {
	if personPattern == "" {
		personPattern = DefaultPersonPattern
	}
	if groupPattern == "" {
		groupPattern = DefaultGroupPattern
	}

	person, err := regexp.Compile(personPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid person DN pattern: %w", err)
	}
	group, err := regexp.Compile(groupPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid group DN pattern: %w", err)
	}
	return &Classifier{person: person, group: group}, nil
}

// Classify returns the kind of the entry named by dn.
func (c *Classifier) Classify(dn string) Kind {
	switch {
	case c.person.MatchString(dn):
		return KindPerson
	case c.group.MatchString(dn):
		return KindGroup
	default:
		return KindUnknown
	}
}
