package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// conn is the subset of *ldap.Conn used by the client.
type conn interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	SearchWithPaging(req *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error)
	IsClosing() bool
	Close() error
}

type ldapConn struct {
	*ldap.Conn
}

func (c ldapConn) Close() error {
	c.Conn.Close()
	return nil
}

// LDAPClient is a Client backed by an LDAP server. It keeps a small pool of
// bound connections and is safe for concurrent use.
type LDAPClient struct {
	cfg  Config
	dial func() (conn, error)

	mu     sync.Mutex
	closed bool
	pool   chan conn
}

var _ Client = (*LDAPClient)(nil)

// New creates an LDAP client and verifies that it can connect and bind.
func New(cfg Config) (*LDAPClient, error) {
	if cfg.ServerURL == "" {
		return nil, errors.New("LDAP server URL is required")
	}
	if cfg.BaseDN == "" {
		return nil, errors.New("LDAP base DN is required")
	}

	c := newClient(cfg, nil)
	c.dial = c.dialLDAP

	cn, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("LDAP connection test failed: %w", err)
	}
	c.returnConnection(cn)

	return c, nil
}

func newClient(cfg Config, dial func() (conn, error)) *LDAPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 5
	}
	return &LDAPClient{
		cfg:  cfg,
		dial: dial,
		pool: make(chan conn, cfg.PoolSize),
	}
}

// Search implements Client.
func (c *LDAPClient) Search(ctx context.Context, filter, rdn string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if filter == "" {
		filter = "(objectClass=*)"
	}

	req := ldap.NewSearchRequest(
		c.baseFor(rdn),
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		limit,
		c.timeLimit(),
		false,
		filter,
		c.cfg.Attributes,
		nil,
	)

	paged := c.cfg.PageSize > 0 && (limit == 0 || limit > int(c.cfg.PageSize))
	res, err := c.search(req, paged)
	if err != nil {
		switch {
		case ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject):
			return []Entry{}, nil
		case ldap.IsErrorWithCode(err, ldap.LDAPResultSizeLimitExceeded) && res != nil:
			// partial results are still valid
		default:
			return nil, fmt.Errorf("LDAP search failed: %w", err)
		}
	}
	if res == nil {
		return []Entry{}, nil
	}

	entries := make([]Entry, 0, len(res.Entries))
	for _, e := range res.Entries {
		if limit > 0 && len(entries) == limit {
			break
		}
		entries = append(entries, toEntry(e))
	}
	return entries, nil
}

// Lookup implements Client.
func (c *LDAPClient) Lookup(ctx context.Context, dn string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := ldap.NewSearchRequest(
		dn,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1,
		c.timeLimit(),
		false,
		"(objectClass=*)",
		c.cfg.Attributes,
		nil,
	)

	res, err := c.search(req, false)
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("LDAP lookup failed: %w", err)
	}
	if len(res.Entries) == 0 {
		return nil, ErrNotFound
	}

	e := toEntry(res.Entries[0])
	return &e, nil
}

// Close closes all pooled connections. Connections handed back after
// Close are closed immediately.
func (c *LDAPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.pool)
	for cn := range c.pool {
		cn.Close()
	}
	return nil
}

func (c *LDAPClient) search(req *ldap.SearchRequest, paged bool) (*ldap.SearchResult, error) {
	cn, err := c.getConnection()
	if err != nil {
		return nil, err
	}

	var res *ldap.SearchResult
	if paged {
		res, err = cn.SearchWithPaging(req, c.cfg.PageSize)
	} else {
		res, err = cn.Search(req)
	}

	if err != nil && ldap.IsErrorWithCode(err, ldap.ErrorNetwork) {
		cn.Close()
		return res, err
	}
	c.returnConnection(cn)
	return res, err
}

// getConnection gets a connection from pool or creates a new one
func (c *LDAPClient) getConnection() (conn, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, errors.New("LDAP client is closed")
	}

	for {
		select {
		case cn, ok := <-c.pool:
			if !ok {
				return nil, errors.New("LDAP client is closed")
			}
			if cn.IsClosing() {
				cn.Close()
				continue
			}
			return cn, nil
		default:
			return c.dial()
		}
	}
}

// returnConnection returns a connection to the pool
func (c *LDAPClient) returnConnection(cn conn) {
	if cn == nil || cn.IsClosing() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		cn.Close()
		return
	}
	select {
	case c.pool <- cn:
	default:
		cn.Close()
	}
}

// dialLDAP creates a new bound connection with TLS/StartTLS handling.
func (c *LDAPClient) dialLDAP() (conn, error) {
	opts := []ldap.DialOpt{ldap.DialWithDialer(&net.Dialer{Timeout: c.cfg.Timeout})}
	if c.cfg.InsecureSkipVerify {
		opts = append(opts, ldap.DialWithTLSConfig(c.tlsConfig()))
	}

	l, err := ldap.DialURL(c.cfg.ServerURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}
	l.SetTimeout(c.cfg.Timeout)

	if c.cfg.StartTLS && !strings.HasPrefix(strings.ToLower(c.cfg.ServerURL), "ldaps://") {
		if err := l.StartTLS(c.tlsConfig()); err != nil {
			l.Close()
			return nil, fmt.Errorf("StartTLS failed: %w", err)
		}
	}

	if c.cfg.BindDN != "" {
		if err := l.Bind(c.cfg.BindDN, c.cfg.BindPass); err != nil {
			l.Close()
			return nil, fmt.Errorf("LDAP bind failed: %w", err)
		}
	}

	return ldapConn{l}, nil
}

func (c *LDAPClient) tlsConfig() *tls.Config {
	cfg := &tls.Config{InsecureSkipVerify: c.cfg.InsecureSkipVerify} //nolint:gosec // opt-in via LDAP_INSECURE_SKIP_VERIFY
	if u, err := url.Parse(c.cfg.ServerURL); err == nil {
		cfg.ServerName = u.Hostname()
	}
	return cfg
}

func (c *LDAPClient) baseFor(rdn string) string {
	rdn = strings.TrimSpace(rdn)
	switch {
	case rdn == "":
		return c.cfg.BaseDN
	case c.cfg.BaseDN == "":
		return rdn
	case strings.HasSuffix(strings.ToLower(rdn), strings.ToLower(c.cfg.BaseDN)):
		return rdn
	default:
		return rdn + "," + c.cfg.BaseDN
	}
}

func (c *LDAPClient) timeLimit() int {
	return int(c.cfg.Timeout / time.Second)
}

func toEntry(e *ldap.Entry) Entry {
	attrs := make(map[string][]string, len(e.Attributes))
	for _, a := range e.Attributes {
		name := strings.ToLower(a.Name)
		attrs[name] = append(attrs[name], a.Values...)
	}
	return Entry{DN: e.DN, Attributes: attrs}
}
