// Package testutil holds in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"strings"
	"sync"

	"ldapsync/internal/directory"
)

// FakeDirectory is an in-memory directory.Client. Entries are addressed by
// DN for Lookup; Search answers from results registered per filter.
type FakeDirectory struct {
	mu       sync.Mutex
	entries  map[string]directory.Entry
	searches map[string][]directory.Entry
	lookups  []string
	errs     map[string]error
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		entries:  map[string]directory.Entry{},
		searches: map[string][]directory.Entry{},
		errs:     map[string]error{},
	}
}

// AddGroup registers a group entry with the given members and makes it
// findable by (cn=<name>) style filters via OnSearch.
func (f *FakeDirectory) AddGroup(dn string, members ...string) directory.Entry {
	e := directory.Entry{
		DN: dn,
		Attributes: map[string][]string{
			"cn":     {directory.CommonName(dn)},
			"member": members,
		},
	}
	f.mu.Lock()
	f.entries[strings.ToLower(dn)] = e
	f.mu.Unlock()
	return e
}

// OnSearch registers the entries returned for an exact filter string.
func (f *FakeDirectory) OnSearch(filter string, entries ...directory.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches[filter] = entries
}

// FailLookup makes Lookup of dn return err.
func (f *FakeDirectory) FailLookup(dn string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[strings.ToLower(dn)] = err
}

// Lookups returns the DNs passed to Lookup, in call order.
func (f *FakeDirectory) Lookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lookups...)
}

func (f *FakeDirectory) Search(ctx context.Context, filter, rdn string, limit int) ([]directory.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.searches[filter]
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return append([]directory.Entry(nil), res...), nil
}

func (f *FakeDirectory) Lookup(ctx context.Context, dn string) (*directory.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, dn)
	if err, ok := f.errs[strings.ToLower(dn)]; ok {
		return nil, err
	}
	e, ok := f.entries[strings.ToLower(dn)]
	if !ok {
		return nil, directory.ErrNotFound
	}
	return &e, nil
}

func (f *FakeDirectory) Close() error { return nil }
