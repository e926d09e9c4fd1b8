package directory

import (
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// IsDN reports whether s parses as a distinguished name rather than a
// bare common name.
func IsDN(s string) bool {
	if !strings.Contains(s, "=") {
		return false
	}
	_, err := ldap.ParseDN(s)
	return err == nil
}

// CommonName returns the value of the leaf RDN of dn, preferring a CN
// attribute when the leaf RDN is multi-valued. Unparseable input is
// returned unchanged.
func CommonName(dn string) string {
	parsed, err := ldap.ParseDN(dn)
	if err != nil || len(parsed.RDNs) == 0 || len(parsed.RDNs[0].Attributes) == 0 {
		return dn
	}
	leaf := parsed.RDNs[0].Attributes
	for _, a := range leaf {
		if strings.EqualFold(a.Type, "cn") {
			return a.Value
		}
	}
	return leaf[0].Value
}

// NormalizeDN returns a canonical form of dn for equality checks: attribute
// types and values are lower-cased and whitespace around separators is
// dropped. Unparseable input is lower-cased and trimmed.
func NormalizeDN(dn string) string {
	parsed, err := ldap.ParseDN(dn)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(dn))
	}

	rdns := make([]string, 0, len(parsed.RDNs))
	for _, rdn := range parsed.RDNs {
		parts := make([]string, 0, len(rdn.Attributes))
		for _, a := range rdn.Attributes {
			parts = append(parts, strings.ToLower(a.Type)+"="+strings.ToLower(a.Value))
		}
		rdns = append(rdns, strings.Join(parts, "+"))
	}
	return strings.Join(rdns, ",")
}

// EscapeFilter escapes a value for safe use inside an LDAP filter.
func EscapeFilter(s string) string {
	return ldap.EscapeFilter(s)
}
