// Package app assembles the sync stack from configuration. Both the HTTP
// server and the command line build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ldapsync/internal/config"
	"ldapsync/internal/database"
	"ldapsync/internal/database/migration"
	"ldapsync/internal/directory"
	"ldapsync/internal/fiscal"
	"ldapsync/internal/logger"
	"ldapsync/internal/repository/postgres"
	"ldapsync/internal/resolver"
	"ldapsync/internal/service"
	"ldapsync/internal/storage"
)

// App holds the wired services and the resources that must be released.
type App struct {
	Config   *config.AppConfig
	DB       *sql.DB
	Registry *prometheus.Registry
	Groups   service.GroupService
	Sync     service.SyncService
	Calendar *fiscal.Calendar

	dir *directory.LDAPClient
}

// New connects to the record store, migrates it, and dials the directory.
// Report archiving is wired only when MinIO is configured.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	cal, err := fiscal.New(time.Month(cfg.FiscalStartMonth), time.Local)
	if err != nil {
		return nil, err
	}

	cls, err := resolver.NewClassifier(cfg.Sync.PersonDNPattern, cfg.Sync.GroupDNPattern)
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Host); err != nil {
		db.Close()
		return nil, err
	}

	dir, err := directory.New(directoryConfig(cfg.LDAP))
	if err != nil {
		db.Close()
		return nil, err
	}

	var store storage.Storage
	if cfg.MinIO.Enabled() {
		store, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			dir.Close()
			db.Close()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
	} else {
		logger.Info().Msg("MINIO_ENDPOINT not set, sync reports will not be archived")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := service.NewMetrics(reg)
	if err != nil {
		dir.Close()
		db.Close()
		return nil, err
	}

	groups := postgres.NewGroupPostgres(db)
	users := postgres.NewUserPostgres(db)
	members := postgres.NewMembershipPostgres(db)
	runs := postgres.NewSyncRunPostgres(db)

	res := resolver.New(dir, cls, resolver.Config{
		GroupRDN:    cfg.LDAP.GroupRDN,
		GroupFilter: cfg.LDAP.GroupFilter,
		MemberAttr:  cfg.LDAP.MemberAttr,
		NameAttr:    cfg.LDAP.NameAttr,
	})

	syncSvc := service.NewSyncService(service.SyncDeps{
		Resolver: res,
		Groups:   groups,
		Users:    users,
		Members:  members,
		Runs:     runs,
		Store:    store,
		Metrics:  metrics,
	}, service.SyncOptions{
		MaxDepth:     cfg.Sync.MaxDepth,
		CreateUsers:  cfg.Sync.CreateUsers,
		ProtectEmpty: cfg.Sync.ProtectEmpty,
		ReportPrefix: cfg.MinIO.ReportPrefix,
	})

	return &App{
		Config:   cfg,
		DB:       db,
		Registry: reg,
		Groups:   service.NewGroupService(groups, members, runs, store),
		Sync:     syncSvc,
		Calendar: cal,
		dir:      dir,
	}, nil
}

// Close releases the directory pool and the database.
func (a *App) Close() error {
	var errs []error
	if a.dir != nil {
		errs = append(errs, a.dir.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func directoryConfig(c config.LDAPConfig) directory.Config {
	pageSize := c.PageSize
	if pageSize < 0 {
		pageSize = 0
	}
	return directory.Config{
		ServerURL:          c.ServerURL,
		BindDN:             c.BindDN,
		BindPass:           c.BindPass,
		BaseDN:             c.BaseDN,
		StartTLS:           c.StartTLS,
		InsecureSkipVerify: c.InsecureSkipVerify,
		Timeout:            time.Duration(c.TimeoutSec) * time.Second,
		PoolSize:           c.PoolSize,
		PageSize:           uint32(pageSize),
		Attributes:         []string{c.NameAttr, c.MemberAttr},
	}
}
