package revision_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/revision"
)

// fakeRevisionRepo captures created revisions in memory.
type fakeRevisionRepo struct {
	created []*domain.Revision
	err     error
}

func (f *fakeRevisionRepo) Create(_ context.Context, rev *domain.Revision) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, rev)
	return nil
}

func (f *fakeRevisionRepo) List(_ context.Context, _ domain.RevisionFilter) ([]*domain.Revision, error) {
	return f.created, nil
}

func (f *fakeRevisionRepo) GetByID(_ context.Context, _ int64) (*domain.Revision, error) {
	return nil, domain.ErrNotFound
}

func newRecorder() *revision.Recorder {
	return revision.NewRecorder(zerolog.Nop(), nil)
}

// spyBroadcaster captures announced revisions.
type spyBroadcaster struct {
	announced []*domain.Revision
}

func (s *spyBroadcaster) RevisionRecorded(_ context.Context, rev *domain.Revision) error {
	s.announced = append(s.announced, rev)
	return nil
}

func TestRecord_Insert_ChangedFieldsAreFullSet(t *testing.T) {
	t.Parallel()

	repo := &fakeRevisionRepo{}
	after := domain.Snapshot{"id": int64(42), "name": "Rex", "weight": 12.5}

	rev, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.ActionInsert,
		After:    after,
	})
	require.NoError(t, err)
	require.NotNil(t, rev)

	assert.Equal(t, "42", rev.RecordID)
	assert.Equal(t, domain.ActionInsert, rev.Action)
	assert.Nil(t, rev.Before)
	assert.Equal(t, []string{"id", "name", "weight"}, rev.ChangedFields)
	require.Len(t, repo.created, 1)
}

func TestRecord_Delete_ChangedFieldsAreFullSet(t *testing.T) {
	t.Parallel()

	repo := &fakeRevisionRepo{}
	before := domain.Snapshot{"id": int64(7), "name": "Bella"}

	rev, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.ActionDelete,
		Before:   before,
	})
	require.NoError(t, err)
	require.NotNil(t, rev)

	assert.Equal(t, "7", rev.RecordID)
	assert.Nil(t, rev.After)
	assert.Equal(t, []string{"id", "name"}, rev.ChangedFields)
}

func TestRecord_Update_IdenticalSnapshots_NoOp(t *testing.T) {
	t.Parallel()

	repo := &fakeRevisionRepo{}
	snap := domain.Snapshot{"id": int64(1), "name": "Rex", "notes": ""}

	rev, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.ActionUpdate,
		Before:   snap,
		After:    domain.Snapshot{"id": int64(1), "name": "Rex", "notes": ""},
	})
	require.NoError(t, err)
	assert.Nil(t, rev, "no-change update must not produce a revision")
	assert.Empty(t, repo.created, "no-change update must not write at all")
}

func TestRecord_Update_OnlyDifferingFields(t *testing.T) {
	t.Parallel()

	repo := &fakeRevisionRepo{}

	rev, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceBookings,
		Action:   domain.ActionUpdate,
		Before:   domain.Snapshot{"id": int64(9), "status": "pending", "notes": "x"},
		After:    domain.Snapshot{"id": int64(9), "status": "confirmed", "notes": "x"},
	})
	require.NoError(t, err)
	require.NotNil(t, rev)

	assert.Equal(t, []string{"status"}, rev.ChangedFields)
	assert.Equal(t, "9", rev.RecordID)
	assert.NotNil(t, rev.Before)
	assert.NotNil(t, rev.After)
}

func TestRecord_CompositeKeyIdentifier(t *testing.T) {
	t.Parallel()

	repo := &fakeRevisionRepo{}

	rev, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceSitterBreedSpecialty,
		Action:   domain.ActionInsert,
		After:    domain.Snapshot{"breed_id": int64(7), "sitter_id": int64(3)},
	})
	require.NoError(t, err)
	require.NotNil(t, rev)

	// Declared key order, not snapshot insertion order.
	assert.Equal(t, "3:7", rev.RecordID)
}

func TestRecord_ActorPassthrough(t *testing.T) {
	t.Parallel()

	repo := &fakeRevisionRepo{}
	actor := int64(11)

	rev, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceUsers,
		Action:   domain.ActionInsert,
		After:    domain.Snapshot{"id": int64(5)},
		ActorID:  &actor,
	})
	require.NoError(t, err)
	require.NotNil(t, rev.ActorID)
	assert.Equal(t, int64(11), *rev.ActorID)

	// System-initiated mutation carries no actor.
	rev, err = newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceUsers,
		Action:   domain.ActionInsert,
		After:    domain.Snapshot{"id": int64(6)},
	})
	require.NoError(t, err)
	assert.Nil(t, rev.ActorID)
}

func TestRecord_StorageFailure_WrappedError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	repo := &fakeRevisionRepo{err: boom}

	rev, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.ActionInsert,
		After:    domain.Snapshot{"id": int64(1)},
	})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, rev)
}

func TestRecord_UnknownAction(t *testing.T) {
	t.Parallel()

	repo := &fakeRevisionRepo{}

	_, err := newRecorder().Record(context.Background(), repo, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.RevisionAction("TRUNCATE"),
		After:    domain.Snapshot{"id": int64(1)},
	})
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestRecord_AnnouncesImmediatelyOutsideHold(t *testing.T) {
	t.Parallel()

	spy := &spyBroadcaster{}
	rec := revision.NewRecorder(zerolog.Nop(), spy)

	rev, err := rec.Record(context.Background(), &fakeRevisionRepo{}, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.ActionInsert,
		After:    domain.Snapshot{"id": int64(1)},
	})
	require.NoError(t, err)
	require.Len(t, spy.announced, 1)
	assert.Same(t, rev, spy.announced[0])
}

func TestRecord_HeldAnnouncementWaitsForDrain(t *testing.T) {
	t.Parallel()

	spy := &spyBroadcaster{}
	rec := revision.NewRecorder(zerolog.Nop(), spy)
	ctx, pending := revision.Hold(context.Background())

	rev, err := rec.Record(ctx, &fakeRevisionRepo{}, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.ActionInsert,
		After:    domain.Snapshot{"id": int64(1)},
	})
	require.NoError(t, err)
	assert.Empty(t, spy.announced, "announcement must wait for the commit")

	rec.Announce(ctx, pending.Drain()...)
	require.Len(t, spy.announced, 1)
	assert.Same(t, rev, spy.announced[0])

	assert.Empty(t, pending.Drain(), "drain empties the buffer")
}

func TestRecord_RolledBackRevisionNeverAnnounced(t *testing.T) {
	t.Parallel()

	spy := &spyBroadcaster{}
	rec := revision.NewRecorder(zerolog.Nop(), spy)
	ctx, _ := revision.Hold(context.Background())

	// The insert succeeds but the surrounding transaction rolls back, so
	// the buffered announcement is simply never drained.
	_, err := rec.Record(ctx, &fakeRevisionRepo{}, revision.RecordInput{
		Resource: domain.ResourceDogs,
		Action:   domain.ActionInsert,
		After:    domain.Snapshot{"id": int64(1)},
	})
	require.NoError(t, err)
	assert.Empty(t, spy.announced)
}

func TestIdentifier_FallbackHash(t *testing.T) {
	t.Parallel()

	// No id field and no declared composite key: synthesize from content.
	snap := domain.Snapshot{"email": "a@b.c", "weight": 3}
	got := revision.Identifier(domain.ResourceDogs, snap)

	assert.True(t, strings.HasPrefix(got, "unknown-"), "got %q", got)

	// Deterministic for identical content.
	again := revision.Identifier(domain.ResourceDogs, domain.Snapshot{"weight": 3, "email": "a@b.c"})
	assert.Equal(t, got, again)

	// Different content, different fingerprint.
	other := revision.Identifier(domain.ResourceDogs, domain.Snapshot{"email": "x@y.z", "weight": 3})
	assert.NotEqual(t, got, other)
}

func TestIdentifier_NilKeyFieldFallsBack(t *testing.T) {
	t.Parallel()

	got := revision.Identifier(domain.ResourceDogs, domain.Snapshot{"id": nil, "name": "Rex"})
	assert.True(t, strings.HasPrefix(got, "unknown-"), "got %q", got)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	instant := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		before domain.Snapshot
		after  domain.Snapshot
		want   []string
	}{
		{
			name:   "value change",
			before: domain.Snapshot{"a": 1, "b": 2},
			after:  domain.Snapshot{"a": 1, "b": 3},
			want:   []string{"b"},
		},
		{
			name:   "field added",
			before: domain.Snapshot{"a": 1},
			after:  domain.Snapshot{"a": 1, "b": 2},
			want:   []string{"b"},
		},
		{
			name:   "field removed",
			before: domain.Snapshot{"a": 1, "b": 2},
			after:  domain.Snapshot{"a": 1},
			want:   []string{"b"},
		},
		{
			name:   "identical",
			before: domain.Snapshot{"a": 1, "b": "x"},
			after:  domain.Snapshot{"b": "x", "a": 1},
			want:   []string{},
		},
		{
			name:   "nil to value",
			before: domain.Snapshot{"a": nil},
			after:  domain.Snapshot{"a": 1},
			want:   []string{"a"},
		},
		{
			name:   "same instant different zone",
			before: domain.Snapshot{"at": instant},
			after:  domain.Snapshot{"at": instant.In(seoul)},
			want:   []string{},
		},
		{
			name:   "sorted output",
			before: domain.Snapshot{"z": 1, "a": 1, "m": 1},
			after:  domain.Snapshot{"z": 2, "a": 2, "m": 2},
			want:   []string{"a", "m", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := revision.Diff(tt.before, tt.after)
			assert.Equal(t, tt.want, got)
		})
	}
}
