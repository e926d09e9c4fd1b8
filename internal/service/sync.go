package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ldapsync/internal/directory"
	"ldapsync/internal/logger"
	"ldapsync/internal/model"
	"ldapsync/internal/repository"
	"ldapsync/internal/resolver"
	"ldapsync/internal/storage"
)

var tracer = otel.Tracer("ldapsync/internal/service")

// GroupResolver resolves directory group membership.
type GroupResolver interface {
	Resolve(ctx context.Context, nameOrDN string, opts resolver.Options) (*resolver.Resolution, error)
}

// SyncRequest names one group to reconcile.
type SyncRequest struct {
	Group     string `json:"group"`
	Recursive bool   `json:"recursive"`
	DryRun    bool   `json:"dry_run"`
}

// SyncResult describes what a sync changed, or would change for a dry run.
type SyncResult struct {
	RunID        string    `json:"run_id"`
	GroupID      string    `json:"group_id,omitempty"`
	GroupName    string    `json:"group_name"`
	GroupDN      string    `json:"group_dn"`
	Recursive    bool      `json:"recursive"`
	DryRun       bool      `json:"dry_run"`
	Added        []string  `json:"added"`
	Removed      []string  `json:"removed"`
	Unchanged    int       `json:"unchanged"`
	Created      []string  `json:"created"`
	Unmatched    []string  `json:"unmatched"`
	Unclassified []string  `json:"unclassified"`
	NestedGroups []string  `json:"nested_groups"`
	ReportKey    string    `json:"report_key,omitempty"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// SyncService reconciles directory groups into the record store.
type SyncService interface {
	// Resolve reads membership from the directory without touching the record store.
	Resolve(ctx context.Context, group string, recursive bool) (*resolver.Resolution, error)
	Sync(ctx context.Context, req SyncRequest) (*SyncResult, error)
	// SyncAll syncs each request in order, continuing past failures. The
	// returned slice has one entry per request; failed entries carry Error.
	// Once ctx is done the remaining requests are returned failed with the
	// context error.
	SyncAll(ctx context.Context, reqs []SyncRequest) ([]*SyncResult, error)
}

// SyncOptions tune reconciliation.
type SyncOptions struct {
	MaxDepth     int
	CreateUsers  bool
	ProtectEmpty bool
	ReportPrefix string
	Source       string
}

// SyncDeps are the collaborators of a SyncService. Store and Metrics are optional.
type SyncDeps struct {
	Resolver GroupResolver
	Groups   repository.GroupRepository
	Users    repository.UserRepository
	Members  repository.MembershipRepository
	Runs     repository.SyncRunRepository
	Store    storage.Storage
	Metrics  *Metrics
}

type syncService struct {
	SyncDeps
	opts  SyncOptions
	now   func() time.Time
	newID func() string
}

// NewSyncService constructs a SyncService.
func NewSyncService(deps SyncDeps, opts SyncOptions) SyncService {
	if opts.Source == "" {
		opts.Source = "ldap"
	}
	return &syncService{
		SyncDeps: deps,
		opts:     opts,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (s *syncService) Resolve(ctx context.Context, group string, recursive bool) (*resolver.Resolution, error) {
	group = strings.TrimSpace(group)
	if group == "" {
		return nil, ErrGroupRequired
	}
	ctx, span := tracer.Start(ctx, "SyncService.Resolve", trace.WithAttributes(
		attribute.String("ldapsync.group", group),
		attribute.Bool("ldapsync.recursive", recursive),
	))
	defer span.End()

	res, err := s.Resolver.Resolve(ctx, group, resolver.Options{Recursive: recursive, MaxDepth: s.opts.MaxDepth})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return res, nil
}

func (s *syncService) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	req.Group = strings.TrimSpace(req.Group)
	if req.Group == "" {
		return nil, ErrGroupRequired
	}

	ctx, span := tracer.Start(ctx, "SyncService.Sync", trace.WithAttributes(
		attribute.String("ldapsync.group", req.Group),
		attribute.Bool("ldapsync.recursive", req.Recursive),
		attribute.Bool("ldapsync.dry_run", req.DryRun),
	))
	defer span.End()

	log := logger.Ctx(ctx).With().Str("group", req.Group).Bool("dry_run", req.DryRun).Logger()

	res := &SyncResult{
		RunID:        s.newID(),
		GroupName:    req.Group,
		Recursive:    req.Recursive,
		DryRun:       req.DryRun,
		Added:        []string{},
		Removed:      []string{},
		Created:      []string{},
		Unmatched:    []string{},
		Unclassified: []string{},
		NestedGroups: []string{},
		StartedAt:    s.now(),
	}

	err := s.reconcile(ctx, req, res)
	res.FinishedAt = s.now()

	status := model.SyncSucceeded
	if err != nil {
		status = model.SyncFailed
		res.Error = err.Error()
	}
	s.Metrics.observe(status, res, res.FinishedAt.Sub(res.StartedAt))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Msg("group sync failed")
		s.recordRun(ctx, res, status)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("ldapsync.added", len(res.Added)),
		attribute.Int("ldapsync.removed", len(res.Removed)),
		attribute.Int("ldapsync.unmatched", len(res.Unmatched)),
	)
	if !req.DryRun {
		s.archive(ctx, res)
	}
	s.recordRun(ctx, res, status)

	log.Info().
		Str("run_id", res.RunID).
		Int("added", len(res.Added)).
		Int("removed", len(res.Removed)).
		Int("unchanged", res.Unchanged).
		Int("unmatched", len(res.Unmatched)).
		Msg("group synced")
	return res, nil
}

func (s *syncService) SyncAll(ctx context.Context, reqs []SyncRequest) ([]*SyncResult, error) {
	results := make([]*SyncResult, 0, len(reqs))
	var errs []error
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			for _, rest := range reqs[i:] {
				results = append(results, failedResult(rest, err))
			}
			break
		}
		res, err := s.Sync(ctx, req)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", req.Group, err))
			results = append(results, failedResult(req, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func failedResult(req SyncRequest, err error) *SyncResult {
	return &SyncResult{
		GroupName: req.Group,
		Recursive: req.Recursive,
		DryRun:    req.DryRun,
		Error:     err.Error(),
	}
}

func (s *syncService) reconcile(ctx context.Context, req SyncRequest, res *SyncResult) error {
	resolution, err := s.Resolver.Resolve(ctx, req.Group, resolver.Options{Recursive: req.Recursive, MaxDepth: s.opts.MaxDepth})
	if err != nil {
		return fmt.Errorf("resolve group: %w", err)
	}
	res.GroupName = resolution.Group.Name
	res.GroupDN = resolution.Group.DN
	for _, g := range resolution.Groups {
		res.NestedGroups = append(res.NestedGroups, g.DN)
	}
	for _, u := range resolution.Unknown {
		res.Unclassified = append(res.Unclassified, u.DN)
	}

	group, err := s.loadGroup(ctx, resolution.Group, req.DryRun)
	if err != nil {
		return err
	}
	if group != nil {
		res.GroupID = group.ID
	}

	desired, missing, err := s.matchUsers(ctx, resolution.Persons)
	if err != nil {
		return err
	}

	var planned []string
	for _, p := range missing {
		if !s.opts.CreateUsers {
			res.Unmatched = append(res.Unmatched, p.DN)
			continue
		}
		res.Created = append(res.Created, p.Name)
		if req.DryRun {
			planned = append(planned, p.Name)
			continue
		}
		u, err := s.Users.Create(ctx, &model.User{
			ID:        s.newID(),
			UserName:  p.Name,
			DN:        p.DN,
			Active:    true,
			CreatedAt: s.now(),
		})
		if err != nil {
			return fmt.Errorf("create user %s: %w", p.Name, err)
		}
		desired = append(desired, *u)
	}

	var existing []model.User
	if group != nil {
		existing, err = s.Members.ListMembers(ctx, group.ID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
	}

	if s.opts.ProtectEmpty && len(resolution.Persons) == 0 && len(existing) > 0 {
		return ErrEmptyResolution
	}
	add, remove, unchanged := diffMembers(desired, existing)

	res.Added = append(userNames(add), planned...)
	sort.Strings(res.Added)
	res.Removed = userNames(remove)
	res.Unchanged = unchanged

	if req.DryRun || (len(add) == 0 && len(remove) == 0) {
		return nil
	}
	if err := s.Members.Apply(ctx, group.ID, userIDs(add), userIDs(remove)); err != nil {
		return fmt.Errorf("apply membership: %w", err)
	}
	return nil
}

// loadGroup returns the stored group, creating or refreshing it unless this is
// a dry run. A dry run against a group never synced before yields nil.
func (s *syncService) loadGroup(ctx context.Context, g resolver.Group, dryRun bool) (*model.Group, error) {
	if dryRun {
		found, err := s.Groups.FindByName(ctx, g.Name)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("find group: %w", err)
		}
		return found, nil
	}

	stored, err := s.Groups.Upsert(ctx, &model.Group{
		ID:        s.newID(),
		Name:      g.Name,
		DN:        g.DN,
		Source:    s.opts.Source,
		UpdatedAt: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("upsert group: %w", err)
	}
	return stored, nil
}

// matchUsers maps persons to user records by DN, then by user name. Persons
// with no record are returned as missing.
func (s *syncService) matchUsers(ctx context.Context, persons []resolver.Member) ([]model.User, []resolver.Member, error) {
	if len(persons) == 0 {
		return nil, nil, nil
	}

	dns := make([]string, 0, len(persons))
	for _, p := range persons {
		dns = append(dns, p.DN)
	}
	byDN, err := s.Users.FindByDNs(ctx, dns)
	if err != nil {
		return nil, nil, fmt.Errorf("match users by dn: %w", err)
	}
	dnIndex := make(map[string]model.User, len(byDN))
	for _, u := range byDN {
		dnIndex[directory.NormalizeDN(u.DN)] = u
	}

	matched := make([]model.User, 0, len(persons))
	seen := make(map[string]struct{}, len(persons))
	var rest []resolver.Member
	add := func(u model.User) {
		if _, dup := seen[u.ID]; dup {
			return
		}
		seen[u.ID] = struct{}{}
		matched = append(matched, u)
	}

	for _, p := range persons {
		if u, ok := dnIndex[directory.NormalizeDN(p.DN)]; ok {
			add(u)
			continue
		}
		rest = append(rest, p)
	}
	if len(rest) == 0 {
		return matched, nil, nil
	}

	names := make([]string, 0, len(rest))
	for _, p := range rest {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	byName, err := s.Users.FindByUserNames(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("match users by name: %w", err)
	}
	nameIndex := make(map[string]model.User, len(byName))
	for _, u := range byName {
		nameIndex[strings.ToLower(u.UserName)] = u
	}

	var missing []resolver.Member
	for _, p := range rest {
		if u, ok := nameIndex[strings.ToLower(p.Name)]; ok && p.Name != "" {
			add(u)
			continue
		}
		missing = append(missing, p)
	}
	return matched, missing, nil
}

func diffMembers(desired, existing []model.User) (add, remove []model.User, unchanged int) {
	have := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		have[u.ID] = struct{}{}
	}
	want := make(map[string]struct{}, len(desired))
	for _, u := range desired {
		want[u.ID] = struct{}{}
		if _, ok := have[u.ID]; ok {
			unchanged++
			continue
		}
		add = append(add, u)
	}
	for _, u := range existing {
		if _, ok := want[u.ID]; !ok {
			remove = append(remove, u)
		}
	}
	return add, remove, unchanged
}

func userNames(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.UserName)
	}
	sort.Strings(out)
	return out
}

func userIDs(users []model.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

// archive uploads the run report. Failures are logged and leave ReportKey empty.
func (s *syncService) archive(ctx context.Context, res *SyncResult) {
	if s.Store == nil {
		return
	}
	body, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("encode sync report")
		return
	}
	key := storage.ReportKey(s.opts.ReportPrefix, res.RunID)
	_, err = s.Store.Put(ctx, key, bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"group": res.GroupName},
	})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("archive sync report")
		return
	}
	res.ReportKey = key
}

// recordRun persists the run when the group is known. A failed run applied
// nothing, so its added and removed counts are zero. If the row cannot be
// written the archived report is removed so no orphan object is left behind.
func (s *syncService) recordRun(ctx context.Context, res *SyncResult, status string) {
	if res.GroupID == "" {
		return
	}
	added, removed := len(res.Added), len(res.Removed)
	if status == model.SyncFailed {
		added, removed = 0, 0
	}
	_, err := s.Runs.Create(ctx, &model.SyncRun{
		ID:         res.RunID,
		GroupID:    res.GroupID,
		GroupName:  res.GroupName,
		Status:     status,
		Recursive:  res.Recursive,
		DryRun:     res.DryRun,
		Added:      added,
		Removed:    removed,
		Unmatched:  len(res.Unmatched),
		Error:      res.Error,
		ReportKey:  res.ReportKey,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
	})
	if err == nil {
		return
	}
	logger.Ctx(ctx).Error().Err(err).Str("run_id", res.RunID).Msg("record sync run")
	if res.ReportKey != "" && s.Store != nil {
		if derr := s.Store.Delete(ctx, res.ReportKey); derr != nil {
			logger.Ctx(ctx).Warn().Err(derr).Str("key", res.ReportKey).Msg("delete orphaned report")
		}
		res.ReportKey = ""
	}
}
