// Package revision records every mutation to a tracked resource as an
// immutable, diffable revision entry.
package revision

import (
	"context"
	"crypto/md5" //nolint:gosec // fallback identifier fingerprint, not security
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawsit/pawsit/internal/domain"
)

// RecordInput carries one mutation notification. Before and After are the
// full field snapshots of the record immediately before and after the
// mutation; Before is nil on insert, After is nil on delete. ActorID is
// best-effort and nil for system-initiated mutations.
type RecordInput struct {
	Resource domain.Resource
	Action   domain.RevisionAction
	Before   domain.Snapshot
	After    domain.Snapshot
	ActorID  *int64
}

// Broadcaster announces recorded revisions to live audit feeds. Delivery is
// best-effort; failures are logged, never propagated.
type Broadcaster interface {
	RevisionRecorded(ctx context.Context, rev *domain.Revision) error
}

// Recorder builds and persists revision entries. It holds no mutable state;
// the repository it writes through is passed per call so the write can share
// the mutating transaction.
type Recorder struct {
	log       zerolog.Logger
	broadcast Broadcaster // nil disables feed announcements
}

// NewRecorder creates a Recorder logging through log. broadcast may be nil.
func NewRecorder(log zerolog.Logger, broadcast Broadcaster) *Recorder {
	return &Recorder{log: log, broadcast: broadcast}
}

// Record persists one revision entry for the given mutation. On an update
// whose snapshots are field-for-field identical it writes nothing and returns
// (nil, nil). The repository write shares the caller's transaction scope: a
// storage failure is logged, wrapped, and returned so the caller's
// transaction rolls back with it.
func (r *Recorder) Record(ctx context.Context, repo domain.RevisionRepository, in RecordInput) (*domain.Revision, error) {
	if !in.Action.Valid() {
		return nil, fmt.Errorf("revision.Record: unknown action %q", in.Action)
	}

	var changed []string
	switch in.Action {
	case domain.ActionInsert:
		changed = fieldNames(in.After)
	case domain.ActionDelete:
		changed = fieldNames(in.Before)
	case domain.ActionUpdate:
		changed = Diff(in.Before, in.After)
		if len(changed) == 0 {
			// Nothing actually changed; skip the write entirely.
			return nil, nil
		}
	}

	// Identity comes from the post-image where one exists.
	snap := in.After
	if in.Action == domain.ActionDelete {
		snap = in.Before
	}

	rev := &domain.Revision{
		Resource:      in.Resource,
		RecordID:      Identifier(in.Resource, snap),
		ActorID:       in.ActorID,
		Action:        in.Action,
		Before:        in.Before,
		After:         in.After,
		ChangedFields: changed,
		CreatedAt:     time.Now().UTC(),
	}

	if err := repo.Create(ctx, rev); err != nil {
		r.log.Warn().Err(err).
			Str("resource", string(in.Resource)).
			Str("record_id", rev.RecordID).
			Str("action", string(in.Action)).
			Msg("revision: recording failed")
		return nil, fmt.Errorf("revision.Record: %s %s: %w", in.Resource, in.Action, err)
	}

	// Inside a transaction the feed announcement waits for the commit; a
	// rollback after a successful insert must not leave a phantom event on
	// the feed. Outside one the entry is already durable, announce now.
	if p := pendingFrom(ctx); p != nil {
		p.add(rev)
	} else {
		r.Announce(ctx, rev)
	}

	return rev, nil
}

// Announce publishes feed events for committed revisions. Best-effort:
// failures are logged, never propagated.
func (r *Recorder) Announce(ctx context.Context, revs ...*domain.Revision) {
	if r.broadcast == nil {
		return
	}
	for _, rev := range revs {
		if err := r.broadcast.RevisionRecorded(ctx, rev); err != nil {
			r.log.Warn().Err(err).
				Str("resource", string(rev.Resource)).
				Str("record_id", rev.RecordID).
				Msg("revision: feed broadcast failed")
		}
	}
}

// Pending collects revisions recorded inside a transaction so their feed
// events can be published after the commit, or dropped with the rollback.
type Pending struct {
	mu   sync.Mutex
	revs []*domain.Revision
}

type pendingKey struct{}

// Hold returns a context under which Record buffers feed announcements into
// the returned Pending instead of publishing them. The transaction runner
// drains the buffer into Announce once the transaction commits.
func Hold(ctx context.Context) (context.Context, *Pending) {
	p := &Pending{}
	return context.WithValue(ctx, pendingKey{}, p), p
}

func pendingFrom(ctx context.Context) *Pending {
	p, _ := ctx.Value(pendingKey{}).(*Pending)
	return p
}

func (p *Pending) add(rev *domain.Revision) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revs = append(p.revs, rev)
}

// Drain returns the buffered revisions and empties the buffer.
func (p *Pending) Drain() []*domain.Revision {
	p.mu.Lock()
	defer p.mu.Unlock()
	revs := p.revs
	p.revs = nil
	return revs
}

// Identifier derives the record identifier for a snapshot of the given
// resource. Single-key resources stringify their "id" field; composite-key
// resources join their declared key fields with ":" in declaration order.
// When any key field is missing from the snapshot it falls back to a content
// hash so an unrecognised shape never blocks the mutation being recorded.
func Identifier(res domain.Resource, snap domain.Snapshot) string {
	fields := res.KeyFields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v, ok := snap[f]
		if !ok || v == nil {
			return fallbackIdentifier(snap)
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ":")
}

// fallbackIdentifier fingerprints a snapshot whose identity fields cannot be
// determined. The canonical form sorts field names so identical snapshots
// always hash the same.
func fallbackIdentifier(snap domain.Snapshot) string {
	var b strings.Builder
	for _, k := range fieldNames(snap) {
		fmt.Fprintf(&b, "%s=%v;", k, snap[k])
	}
	sum := md5.Sum([]byte(b.String())) //nolint:gosec // fingerprint only
	return "unknown-" + hex.EncodeToString(sum[:])
}

// Diff returns the sorted set of field names whose values differ between the
// two snapshots, including fields present in only one of them.
func Diff(before, after domain.Snapshot) []string {
	changed := make([]string, 0, len(after))
	for k, bv := range before {
		av, ok := after[k]
		if !ok || !equalValue(bv, av) {
			changed = append(changed, k)
		}
	}
	for k := range after {
		if _, ok := before[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

// equalValue compares two snapshot values. Time values compare by instant so
// a zone change alone is not a data change.
func equalValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

// fieldNames returns the sorted field names of a snapshot.
func fieldNames(snap domain.Snapshot) []string {
	names := make([]string, 0, len(snap))
	for k := range snap {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
