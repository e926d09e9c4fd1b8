// Package resolver expands directory group membership, following nested
// groups when asked to.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ldapsync/internal/directory"
	"ldapsync/internal/logger"
)

var (
	ErrGroupRequired = errors.New("group name or DN is required")
	ErrGroupNotFound = errors.New("group not found in directory")
)

// Config describes where groups live and which attributes carry names and
// members.
type Config struct {
	GroupRDN    string // relative to the directory base DN
	GroupFilter string // receives the escaped group name via %s
	MemberAttr  string
	NameAttr    string
}

// Group identifies a directory group.
type Group struct {
	DN   string `json:"dn"`
	Name string `json:"name"`
}

// Member is one DN found while walking a group. Parent is the DN of the
// group that listed it; Depth is 0 for direct members.
type Member struct {
	DN     string `json:"dn"`
	Name   string `json:"name"`
	Kind   Kind   `json:"kind"`
	Parent string `json:"parent"`
	Depth  int    `json:"depth"`
}

// Resolution is the outcome of resolving one group.
type Resolution struct {
	Group   Group    `json:"group"`
	Persons []Member `json:"persons"`
	Groups  []Member `json:"groups"`
	Unknown []Member `json:"unknown"`
}

// Options control the walk.
type Options struct {
	Recursive bool
	// MaxDepth bounds nested expansion; 0 means unbounded.
	MaxDepth int
}

// Resolver resolves group membership against a directory.
type Resolver struct {
	dir        directory.Client
	classifier *Classifier
	cfg        Config
}

// New constructs a Resolver.
func New(dir directory.Client, classifier *Classifier, cfg Config) *Resolver {
	if cfg.GroupFilter == "" {
		cfg.GroupFilter = "(&(objectClass=group)(cn=%s))"
	}
	if cfg.MemberAttr == "" {
		cfg.MemberAttr = "member"
	}
	if cfg.NameAttr == "" {
		cfg.NameAttr = "cn"
	}
	return &Resolver{dir: dir, classifier: classifier, cfg: cfg}
}

// FindGroup locates a group by DN or by name and returns it together with
// its raw member DNs.
func (r *Resolver) FindGroup(ctx context.Context, nameOrDN string) (*Group, []string, error) {
	nameOrDN = strings.TrimSpace(nameOrDN)
	if nameOrDN == "" {
		return nil, nil, ErrGroupRequired
	}

	var entry *directory.Entry
	if directory.IsDN(nameOrDN) {
		e, err := r.dir.Lookup(ctx, nameOrDN)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, nameOrDN)
			}
			return nil, nil, err
		}
		entry = e
	} else {
		filter := fmt.Sprintf(r.cfg.GroupFilter, directory.EscapeFilter(nameOrDN))
		entries, err := r.dir.Search(ctx, filter, r.cfg.GroupRDN, 1)
		if err != nil {
			return nil, nil, err
		}
		if len(entries) == 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, nameOrDN)
		}
		entry = &entries[0]
	}

	return &Group{DN: entry.DN, Name: r.nameOf(*entry)}, entry.Values(r.cfg.MemberAttr), nil
}

// Resolve returns the persons, groups and unclassified entries reachable
// from the group. Every nested group is expanded at most once, at its
// shortest depth, so cyclic nesting terminates.
func (r *Resolver) Resolve(ctx context.Context, nameOrDN string, opts Options) (*Resolution, error) {
	group, members, err := r.FindGroup(ctx, nameOrDN)
	if err != nil {
		return nil, err
	}

	w := &walk{
		r:         r,
		opts:      opts,
		res:       &Resolution{Group: *group, Persons: []Member{}, Groups: []Member{}, Unknown: []Member{}},
		processed: map[string]bool{directory.NormalizeDN(group.DN): true},
		seen:      map[string]bool{directory.NormalizeDN(group.DN): true},
	}
	if err := w.run(ctx, group.DN, members); err != nil {
		return nil, err
	}
	return w.res, nil
}

func (r *Resolver) nameOf(e directory.Entry) string {
	if name := e.Get(r.cfg.NameAttr); name != "" {
		return name
	}
	return directory.CommonName(e.DN)
}

type walk struct {
	r    *Resolver
	opts Options
	res  *Resolution

	// processed holds groups already queued for expansion; seen holds
	// every member DN already recorded.
	processed map[string]bool
	seen      map[string]bool
}

// pending is a group whose members are still to be visited. depth is the
// depth its members are recorded at.
type pending struct {
	dn      string
	members []string
	depth   int
}

// run walks breadth first, so a group is always expanded at its shortest
// distance from the root and MaxDepth never hides a reachable member.
func (w *walk) run(ctx context.Context, root string, members []string) error {
	queue := []pending{{dn: root, members: members}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dn := range cur.members {
			if err := ctx.Err(); err != nil {
				return err
			}

			key := directory.NormalizeDN(dn)
			kind := w.r.classifier.Classify(dn)
			m := Member{DN: dn, Name: directory.CommonName(dn), Kind: kind, Parent: cur.dn, Depth: cur.depth}

			if !w.seen[key] {
				w.seen[key] = true
				switch kind {
				case KindPerson:
					w.res.Persons = append(w.res.Persons, m)
				case KindGroup:
					w.res.Groups = append(w.res.Groups, m)
				default:
					w.res.Unknown = append(w.res.Unknown, m)
				}
			}

			if kind != KindGroup || !w.opts.Recursive || w.processed[key] {
				continue
			}
			if w.opts.MaxDepth > 0 && cur.depth+1 > w.opts.MaxDepth {
				continue
			}
			w.processed[key] = true

			entry, err := w.r.dir.Lookup(ctx, dn)
			if err != nil {
				if errors.Is(err, directory.ErrNotFound) {
					logger.Ctx(ctx).Warn().Str("group_dn", dn).Str("parent", cur.dn).Msg("nested group not found, skipping")
					continue
				}
				return fmt.Errorf("expand nested group %s: %w", dn, err)
			}
			queue = append(queue, pending{dn: dn, members: entry.Values(w.r.cfg.MemberAttr), depth: cur.depth + 1})
		}
	}
	return nil
}
