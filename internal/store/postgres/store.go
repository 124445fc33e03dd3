// Package postgres implements the domain repositories over pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pawsit/pawsit/internal/domain"
)

// DBTX is the query surface shared by a pool and a transaction, so every repo
// can run either standalone or inside Store.InTx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is DBTX plus transaction control. Satisfied by pgxpool.Pool, by the
// transaction wrapper below, and by pgxmock pools in tests.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store bundles all repositories over one database handle.
type Store struct {
	db        DB
	users     *UserRepo
	sitters   *SitterRepo
	dogs      *DogRepo
	bookings  *BookingRepo
	reviews   *ReviewRepo
	groups    *GroupRepo
	revisions *RevisionRepo
	effective *PermissionRepo
}

// New connects to PostgreSQL and builds a Store over the pool.
func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return NewWithDB(pool), nil
}

// NewWithDB builds a Store over an existing handle. Used by InTx and by
// tests with a mock pool.
func NewWithDB(db DB) *Store {
	return &Store{
		db:        db,
		users:     NewUserRepo(db),
		sitters:   NewSitterRepo(db),
		dogs:      NewDogRepo(db),
		bookings:  NewBookingRepo(db),
		reviews:   NewReviewRepo(db),
		groups:    NewGroupRepo(db),
		revisions: NewRevisionRepo(db),
		effective: NewPermissionRepo(db),
	}
}

// InTx runs fn against a Store whose repositories all share one transaction.
// The transaction commits when fn returns nil and rolls back otherwise, so a
// revision insert and the mutation it documents are all-or-nothing.
func (s *Store) InTx(ctx context.Context, fn func(s *Store) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres.InTx: begin: %w", err)
	}

	if err := fn(NewWithDB(txDB{tx})); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("postgres.InTx: rollback after %w: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres.InTx: commit: %w", err)
	}

	return nil
}

func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) Users() domain.UserRepository                    { return s.users }
func (s *Store) Sitters() domain.SitterRepository                { return s.sitters }
func (s *Store) Dogs() domain.DogRepository                      { return s.dogs }
func (s *Store) Bookings() domain.BookingRepository              { return s.bookings }
func (s *Store) Reviews() domain.ReviewRepository                { return s.reviews }
func (s *Store) Groups() domain.GroupRepository                  { return s.groups }
func (s *Store) Revisions() domain.RevisionRepository            { return s.revisions }
func (s *Store) Effective() domain.EffectivePermissionRepository { return s.effective }

// GroupStore returns the concrete group repo for callers needing the
// resolver's narrower read interface.
func (s *Store) GroupStore() *GroupRepo { return s.groups }

// txDB adapts a pgx.Tx to the DB interface; Close is a no-op because the
// transaction's lifecycle belongs to InTx.
type txDB struct {
	pgx.Tx
}

func (txDB) Close() {}
