package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ldapsync/internal/config"
)

func TestReportKey(t *testing.T) {
	assert.Equal(t, "reports/abc.json", ReportKey("reports", "abc"))
	assert.Equal(t, "archive/ldap/abc.json", ReportKey("archive/ldap/", "abc"))
	assert.Equal(t, "abc.json", ReportKey("", "abc"))
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"missing endpoint", config.MinIOConfig{}, "minio endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000"}, "minio credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "minio bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(tt.cfg)
			assert.EqualError(t, err, tt.want)
			assert.Nil(t, s)
		})
	}
}
