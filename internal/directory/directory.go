// Package directory provides a pooled LDAP client that answers
// filter-based searches with attribute bags.
package directory

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned by Lookup when the entry does not exist.
var ErrNotFound = errors.New("directory entry not found")

// Entry is one directory object: its DN and a bag of attribute values.
// Attribute names are stored lower-cased.
type Entry struct {
	DN         string              `json:"dn"`
	Attributes map[string][]string `json:"attributes"`
}

// Get returns the first value of the named attribute, or "".
func (e Entry) Get(name string) string {
	if v := e.Values(name); len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns all values of the named attribute.
func (e Entry) Values(name string) []string {
	return e.Attributes[strings.ToLower(name)]
}

// Client answers directory queries.
type Client interface {
	// Search runs a subtree search for filter below rdn (relative to the
	// base DN, empty means the base DN itself) and returns at most limit
	// entries; limit 0 means no cap.
	Search(ctx context.Context, filter, rdn string, limit int) ([]Entry, error)
	// Lookup reads a single entry by DN.
	Lookup(ctx context.Context, dn string) (*Entry, error)
	Close() error
}

// Config holds LDAP connection settings.
type Config struct {
	ServerURL          string // ldap://localhost:389 or ldaps://localhost:636
	BindDN             string // cn=admin,dc=example,dc=com
	BindPass           string
	BaseDN             string // dc=example,dc=com
	StartTLS           bool
	InsecureSkipVerify bool
	Timeout            time.Duration

	// PoolSize is the number of idle connections kept (default: 5).
	PoolSize int
	// PageSize enables simple paged results when > 0.
	PageSize uint32
	// Attributes requested on every search; nil requests all user attributes.
	Attributes []string
}
