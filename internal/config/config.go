package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for archived sync reports.
// An empty Endpoint disables report archiving.
type MinIOConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UseSSL       bool
	ReportPrefix string
}

// Enabled reports whether report archiving is configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LDAPConfig holds directory connection and schema settings.
type LDAPConfig struct {
	ServerURL          string
	BindDN             string
	BindPass           string
	BaseDN             string
	StartTLS           bool
	InsecureSkipVerify bool
	TimeoutSec         int
	PoolSize           int
	PageSize           int

	// Group lookup: GroupFilter receives the escaped group name via %s.
	GroupRDN    string
	GroupFilter string
	MemberAttr  string
	NameAttr    string
}

// SyncConfig controls how resolved membership is reconciled.
type SyncConfig struct {
	PersonDNPattern string
	GroupDNPattern  string
	Recursive       bool
	MaxDepth        int
	CreateUsers     bool
	ProtectEmpty    bool
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost          string
	Port             string
	FiscalStartMonth int
	Database         DatabaseConfig
	MinIO            MinIOConfig
	LDAP             LDAPConfig
	Sync             SyncConfig
	Log              LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:          getEnv("APP_HOST", "localhost:8080"),
		Port:             getEnv("PORT", "8080"),
		FiscalStartMonth: getEnvInt("FISCAL_START_MONTH", 1),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:     getEnv("MINIO_ENDPOINT", ""),
			AccessKey:    getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:    getEnv("MINIO_SECRET_KEY", ""),
			Bucket:       getEnv("MINIO_BUCKET", ""),
			UseSSL:       getEnvBool("MINIO_USE_SSL", false),
			ReportPrefix: getEnv("MINIO_REPORT_PREFIX", "reports"),
		},
		LDAP: LDAPConfig{
			ServerURL:          getEnv("LDAP_URL", ""),
			BindDN:             getEnv("LDAP_BIND_DN", ""),
			BindPass:           getEnv("LDAP_BIND_PASSWORD", ""),
			BaseDN:             getEnv("LDAP_BASE_DN", ""),
			StartTLS:           getEnvBool("LDAP_START_TLS", false),
			InsecureSkipVerify: getEnvBool("LDAP_INSECURE_SKIP_VERIFY", false),
			TimeoutSec:         getEnvInt("LDAP_TIMEOUT_SEC", 10),
			PoolSize:           getEnvInt("LDAP_POOL_SIZE", 5),
			PageSize:           getEnvInt("LDAP_PAGE_SIZE", 500),
			GroupRDN:           getEnv("LDAP_GROUP_RDN", "ou=groups"),
			GroupFilter:        getEnv("LDAP_GROUP_FILTER", "(&(objectClass=group)(cn=%s))"),
			MemberAttr:         getEnv("LDAP_MEMBER_ATTR", "member"),
			NameAttr:           getEnv("LDAP_NAME_ATTR", "cn"),
		},
		Sync: SyncConfig{
			PersonDNPattern: getEnv("SYNC_PERSON_DN_PATTERN", `(?i)(^|,)\s*ou=(users|people)\s*(,|$)`),
			GroupDNPattern:  getEnv("SYNC_GROUP_DN_PATTERN", `(?i)(^|,)\s*ou=groups\s*(,|$)`),
			Recursive:       getEnvBool("SYNC_RECURSIVE", true),
			MaxDepth:        getEnvInt("SYNC_MAX_DEPTH", 0),
			CreateUsers:     getEnvBool("SYNC_CREATE_USERS", false),
			ProtectEmpty:    getEnvBool("SYNC_PROTECT_EMPTY", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
