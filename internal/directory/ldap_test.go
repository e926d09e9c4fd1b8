package directory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeConn struct {
	mu       sync.Mutex
	requests []*ldap.SearchRequest
	paged    []uint32
	result   *ldap.SearchResult
	err      error
	closing  bool
	closed   int
}

func (f *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.result, f.err
}

func (f *fakeConn) SearchWithPaging(req *ldap.SearchRequest, size uint32) (*ldap.SearchResult, error) {
	f.mu.Lock()
	f.paged = append(f.paged, size)
	f.mu.Unlock()
	return f.Search(req)
}

func (f *fakeConn) IsClosing() bool { return f.closing }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func newTestClient(cfg Config, conns ...*fakeConn) (*LDAPClient, *int) {
	dials := 0
	c := newClient(cfg, func() (conn, error) {
		if dials >= len(conns) {
			return nil, errors.New("no more connections")
		}
		cn := conns[dials]
		dials++
		return cn, nil
	})
	return c, &dials
}

func groupResult(dns ...string) *ldap.SearchResult {
	res := &ldap.SearchResult{}
	for _, dn := range dns {
		res.Entries = append(res.Entries, ldap.NewEntry(dn, map[string][]string{
			"cn":     {CommonName(dn)},
			"Member": {"cn=alice,ou=users,dc=example,dc=com"},
		}))
	}
	return res
}

func TestLDAPClient_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("builds subtree request below rdn", func(t *testing.T) {
		fc := &fakeConn{result: groupResult("cn=admins,ou=groups,dc=example,dc=com")}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		entries, err := c.Search(ctx, "(cn=admins)", "ou=groups", 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)

		req := fc.requests[0]
		assert.Equal(t, "ou=groups,dc=example,dc=com", req.BaseDN)
		assert.Equal(t, ldap.ScopeWholeSubtree, req.Scope)
		assert.Equal(t, 1, req.SizeLimit)
		assert.Equal(t, "(cn=admins)", req.Filter)

		assert.Equal(t, "admins", entries[0].Get("CN"))
		assert.Equal(t, []string{"cn=alice,ou=users,dc=example,dc=com"}, entries[0].Values("member"))
	})

	t.Run("empty rdn searches base and empty filter matches all", func(t *testing.T) {
		fc := &fakeConn{result: &ldap.SearchResult{}}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		entries, err := c.Search(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
		assert.Equal(t, "dc=example,dc=com", fc.requests[0].BaseDN)
		assert.Equal(t, "(objectClass=*)", fc.requests[0].Filter)
	})

	t.Run("absolute rdn is not re-rooted", func(t *testing.T) {
		fc := &fakeConn{result: &ldap.SearchResult{}}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		_, err := c.Search(ctx, "(cn=x)", "ou=groups,DC=example,DC=com", 0)
		require.NoError(t, err)
		assert.Equal(t, "ou=groups,DC=example,DC=com", fc.requests[0].BaseDN)
	})

	t.Run("uses paging when uncapped", func(t *testing.T) {
		fc := &fakeConn{result: groupResult("cn=a,ou=groups,dc=example,dc=com")}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com", PageSize: 100}, fc)
		defer c.Close()

		_, err := c.Search(ctx, "(cn=a)", "", 0)
		require.NoError(t, err)
		assert.Equal(t, []uint32{100}, fc.paged)

		_, err = c.Search(ctx, "(cn=a)", "", 10)
		require.NoError(t, err)
		assert.Len(t, fc.paged, 1, "capped search below page size is not paged")
	})

	t.Run("size limit exceeded returns partial results", func(t *testing.T) {
		fc := &fakeConn{
			result: groupResult("cn=a,dc=example,dc=com", "cn=b,dc=example,dc=com", "cn=c,dc=example,dc=com"),
			err:    ldap.NewError(ldap.LDAPResultSizeLimitExceeded, errors.New("size limit")),
		}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		entries, err := c.Search(ctx, "(cn=*)", "", 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("no such object yields empty result", func(t *testing.T) {
		fc := &fakeConn{err: ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("missing"))}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		entries, err := c.Search(ctx, "(cn=*)", "ou=gone", 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		fc := &fakeConn{err: ldap.NewError(ldap.LDAPResultInsufficientAccessRights, errors.New("denied"))}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		_, err := c.Search(ctx, "(cn=*)", "", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "LDAP search failed")
	})

	t.Run("cancelled context does not dial", func(t *testing.T) {
		c, dials := newTestClient(Config{BaseDN: "dc=example,dc=com"})
		defer c.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.Search(cctx, "(cn=*)", "", 0)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, *dials)
	})
}

func TestLDAPClient_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		fc := &fakeConn{result: groupResult("cn=admins,ou=groups,dc=example,dc=com")}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		e, err := c.Lookup(ctx, "cn=admins,ou=groups,dc=example,dc=com")
		require.NoError(t, err)
		assert.Equal(t, "cn=admins,ou=groups,dc=example,dc=com", e.DN)
		assert.Equal(t, ldap.ScopeBaseObject, fc.requests[0].Scope)
		assert.Equal(t, "cn=admins,ou=groups,dc=example,dc=com", fc.requests[0].BaseDN)
	})

	t.Run("no such object", func(t *testing.T) {
		fc := &fakeConn{err: ldap.NewError(ldap.LDAPResultNoSuchObject, errors.New("missing"))}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		_, err := c.Lookup(ctx, "cn=gone,dc=example,dc=com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty result", func(t *testing.T) {
		fc := &fakeConn{result: &ldap.SearchResult{}}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		_, err := c.Lookup(ctx, "cn=gone,dc=example,dc=com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLDAPClient_Pool(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses pooled connection", func(t *testing.T) {
		fc := &fakeConn{result: &ldap.SearchResult{}}
		c, dials := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)

		for i := 0; i < 3; i++ {
			_, err := c.Search(ctx, "(cn=*)", "", 0)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, *dials)
		assert.Len(t, fc.requests, 3)

		require.NoError(t, c.Close())
		assert.Equal(t, 1, fc.closed)
	})

	t.Run("discards closing connection", func(t *testing.T) {
		stale := &fakeConn{result: &ldap.SearchResult{}}
		fresh := &fakeConn{result: &ldap.SearchResult{}}
		c, dials := newTestClient(Config{BaseDN: "dc=example,dc=com"}, stale, fresh)
		defer c.Close()

		_, err := c.Search(ctx, "(cn=*)", "", 0)
		require.NoError(t, err)

		stale.closing = true
		_, err = c.Search(ctx, "(cn=*)", "", 0)
		require.NoError(t, err)

		assert.Equal(t, 2, *dials)
		assert.Equal(t, 1, stale.closed)
		assert.Len(t, fresh.requests, 1)
	})

	t.Run("network error drops connection", func(t *testing.T) {
		fc := &fakeConn{err: ldap.NewError(ldap.ErrorNetwork, errors.New("reset"))}
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"}, fc)
		defer c.Close()

		_, err := c.Search(ctx, "(cn=*)", "", 0)
		require.Error(t, err)
		assert.Equal(t, 1, fc.closed)
		assert.Len(t, c.pool, 0)
	})

	t.Run("closed client refuses searches", func(t *testing.T) {
		c, _ := newTestClient(Config{BaseDN: "dc=example,dc=com"})
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())

		_, err := c.Search(ctx, "(cn=*)", "", 0)
		assert.Error(t, err)
	})
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{BaseDN: "dc=example,dc=com"})
	assert.EqualError(t, err, "LDAP server URL is required")

	_, err = New(Config{ServerURL: "ldap://localhost:389"})
	assert.EqualError(t, err, "LDAP base DN is required")
}
