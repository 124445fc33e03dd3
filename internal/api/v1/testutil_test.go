package v1_test

import (
	"context"

	"github.com/rs/zerolog"

	v1 "github.com/pawsit/pawsit/internal/api/v1"
	"github.com/pawsit/pawsit/internal/domain"
	"github.com/pawsit/pawsit/internal/revision"
	"github.com/pawsit/pawsit/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject the acting user into context for DoCtx
// ---------------------------------------------------------------------------

func userCtx(userID int64) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	return ctx
}

func adminCtx(userID int64) context.Context {
	ctx := userCtx(userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyIsAdmin, true)
	return ctx
}

// ---------------------------------------------------------------------------
// Mock DataStore and transaction runner
// ---------------------------------------------------------------------------

type mockDataStore struct {
	users     domain.UserRepository
	sitters   domain.SitterRepository
	dogs      domain.DogRepository
	bookings  domain.BookingRepository
	reviews   domain.ReviewRepository
	groups    domain.GroupRepository
	revisions domain.RevisionRepository
}

func (m *mockDataStore) Users() domain.UserRepository         { return m.users }
func (m *mockDataStore) Sitters() domain.SitterRepository     { return m.sitters }
func (m *mockDataStore) Dogs() domain.DogRepository           { return m.dogs }
func (m *mockDataStore) Bookings() domain.BookingRepository   { return m.bookings }
func (m *mockDataStore) Reviews() domain.ReviewRepository     { return m.reviews }
func (m *mockDataStore) Groups() domain.GroupRepository       { return m.groups }
func (m *mockDataStore) Revisions() domain.RevisionRepository { return m.revisions }

// passTx runs fn against the same store with no real transaction.
func passTx(store v1.DataStore) v1.TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context, tx v1.DataStore) error) error {
		return fn(ctx, store)
	}
}

// newRecorder returns a silent revision recorder for handler tests.
func newRecorder() *revision.Recorder {
	return revision.NewRecorder(zerolog.Nop(), nil)
}

// capturingRevisionRepo collects every revision written through it.
type capturingRevisionRepo struct {
	created []*domain.Revision
}

func (r *capturingRevisionRepo) Create(_ context.Context, rev *domain.Revision) error {
	rev.ID = int64(len(r.created) + 1)
	r.created = append(r.created, rev)
	return nil
}

func (r *capturingRevisionRepo) List(_ context.Context, _ domain.RevisionFilter) ([]*domain.Revision, error) {
	return r.created, nil
}

func (r *capturingRevisionRepo) GetByID(_ context.Context, id int64) (*domain.Revision, error) {
	for _, rev := range r.created {
		if rev.ID == id {
			return rev, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ---------------------------------------------------------------------------
// Mock PermissionCascader
// ---------------------------------------------------------------------------

type mockCascader struct {
	membershipChangedFunc   func(ctx context.Context, userID int64) error
	groupPermsChangedFunc   func(ctx context.Context, groupID int64) error
	effectivePermissionsFun func(ctx context.Context, userID int64) (domain.GrantMap, error)
}

func (m *mockCascader) OnMembershipChanged(ctx context.Context, userID int64) error {
	if m.membershipChangedFunc == nil {
		return nil
	}
	return m.membershipChangedFunc(ctx, userID)
}

func (m *mockCascader) OnGroupPermissionsChanged(ctx context.Context, groupID int64) error {
	if m.groupPermsChangedFunc == nil {
		return nil
	}
	return m.groupPermsChangedFunc(ctx, groupID)
}

func (m *mockCascader) EffectivePermissions(ctx context.Context, userID int64) (domain.GrantMap, error) {
	if m.effectivePermissionsFun == nil {
		return domain.GrantMap{}, nil
	}
	return m.effectivePermissionsFun(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	deleteFunc     func(ctx context.Context, id int64) error
	listFunc       func(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error { return m.createFunc(ctx, u) }

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error { return m.updateFunc(ctx, u) }

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error { return m.deleteFunc(ctx, id) }

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return m.listFunc(ctx, limit, offset)
}

func (m *mockUserRepo) CreateOAuthAccount(context.Context, *domain.OAuthAccount) error { return nil }

func (m *mockUserRepo) GetOAuthAccount(context.Context, string, string) (*domain.OAuthAccount, error) {
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) DeleteOAuthAccount(context.Context, int64) (*domain.OAuthAccount, error) {
	return nil, domain.ErrNotFound
}

// ---------------------------------------------------------------------------
// Mock DogRepository
// ---------------------------------------------------------------------------

type mockDogRepo struct {
	createFunc      func(ctx context.Context, d *domain.Dog) error
	getByIDFunc     func(ctx context.Context, id int64) (*domain.Dog, error)
	updateFunc      func(ctx context.Context, d *domain.Dog) error
	deleteFunc      func(ctx context.Context, id int64) error
	listByOwnerFunc func(ctx context.Context, ownerID int64) ([]*domain.Dog, error)
	createBreedFunc func(ctx context.Context, b *domain.DogBreed) error
	getBreedFunc    func(ctx context.Context, id int64) (*domain.DogBreed, error)
	listBreedsFunc  func(ctx context.Context) ([]*domain.DogBreed, error)
}

func (m *mockDogRepo) Create(ctx context.Context, d *domain.Dog) error { return m.createFunc(ctx, d) }

func (m *mockDogRepo) GetByID(ctx context.Context, id int64) (*domain.Dog, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockDogRepo) Update(ctx context.Context, d *domain.Dog) error { return m.updateFunc(ctx, d) }

func (m *mockDogRepo) Delete(ctx context.Context, id int64) error { return m.deleteFunc(ctx, id) }

func (m *mockDogRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Dog, error) {
	return m.listByOwnerFunc(ctx, ownerID)
}

func (m *mockDogRepo) CreateBreed(ctx context.Context, b *domain.DogBreed) error {
	return m.createBreedFunc(ctx, b)
}

func (m *mockDogRepo) GetBreed(ctx context.Context, id int64) (*domain.DogBreed, error) {
	return m.getBreedFunc(ctx, id)
}

func (m *mockDogRepo) ListBreeds(ctx context.Context) ([]*domain.DogBreed, error) {
	return m.listBreedsFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock BookingRepository
// ---------------------------------------------------------------------------

type mockBookingRepo struct {
	createFunc       func(ctx context.Context, b *domain.Booking) error
	getByIDFunc      func(ctx context.Context, id int64) (*domain.Booking, error)
	updateFunc       func(ctx context.Context, b *domain.Booking) error
	deleteFunc       func(ctx context.Context, id int64) error
	listByOwnerFunc  func(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Booking, error)
	listBySitterFunc func(ctx context.Context, sitterID int64, limit, offset int) ([]*domain.Booking, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return m.createFunc(ctx, b)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	return m.updateFunc(ctx, b)
}

func (m *mockBookingRepo) Delete(ctx context.Context, id int64) error { return m.deleteFunc(ctx, id) }

func (m *mockBookingRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]*domain.Booking, error) {
	return m.listByOwnerFunc(ctx, ownerID, limit, offset)
}

func (m *mockBookingRepo) ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]*domain.Booking, error) {
	return m.listBySitterFunc(ctx, sitterID, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock ReviewRepository
// ---------------------------------------------------------------------------

type mockReviewRepo struct {
	createFunc       func(ctx context.Context, r *domain.Review) error
	getByIDFunc      func(ctx context.Context, id int64) (*domain.Review, error)
	updateFunc       func(ctx context.Context, r *domain.Review) error
	deleteFunc       func(ctx context.Context, id int64) error
	listBySitterFunc func(ctx context.Context, sitterID int64, limit, offset int) ([]*domain.Review, error)
}

func (m *mockReviewRepo) Create(ctx context.Context, r *domain.Review) error {
	return m.createFunc(ctx, r)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockReviewRepo) Update(ctx context.Context, r *domain.Review) error {
	return m.updateFunc(ctx, r)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id int64) error { return m.deleteFunc(ctx, id) }

func (m *mockReviewRepo) ListBySitter(ctx context.Context, sitterID int64, limit, offset int) ([]*domain.Review, error) {
	return m.listBySitterFunc(ctx, sitterID, limit, offset)
}

// ---------------------------------------------------------------------------
// Mock GroupRepository
// ---------------------------------------------------------------------------

type mockGroupRepo struct {
	createFunc        func(ctx context.Context, g *domain.UserGroup) error
	getByIDFunc       func(ctx context.Context, id int64) (*domain.UserGroup, error)
	getByNameFunc     func(ctx context.Context, name string) (*domain.UserGroup, error)
	updateFunc        func(ctx context.Context, g *domain.UserGroup) error
	deleteFunc        func(ctx context.Context, id int64) error
	listFunc          func(ctx context.Context) ([]*domain.UserGroup, error)
	addMemberFunc     func(ctx context.Context, userID, groupID int64) (*domain.GroupMembership, error)
	removeMemberFunc  func(ctx context.Context, userID, groupID int64) (*domain.GroupMembership, error)
	memberIDsFunc     func(ctx context.Context, groupID int64) ([]int64, error)
	groupsForUserFunc func(ctx context.Context, userID int64) ([]*domain.UserGroup, error)
}

func (m *mockGroupRepo) Create(ctx context.Context, g *domain.UserGroup) error {
	return m.createFunc(ctx, g)
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id int64) (*domain.UserGroup, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockGroupRepo) GetByName(ctx context.Context, name string) (*domain.UserGroup, error) {
	return m.getByNameFunc(ctx, name)
}

func (m *mockGroupRepo) Update(ctx context.Context, g *domain.UserGroup) error {
	return m.updateFunc(ctx, g)
}

func (m *mockGroupRepo) Delete(ctx context.Context, id int64) error { return m.deleteFunc(ctx, id) }

func (m *mockGroupRepo) List(ctx context.Context) ([]*domain.UserGroup, error) {
	return m.listFunc(ctx)
}

func (m *mockGroupRepo) AddMember(ctx context.Context, userID, groupID int64) (*domain.GroupMembership, error) {
	return m.addMemberFunc(ctx, userID, groupID)
}

func (m *mockGroupRepo) RemoveMember(ctx context.Context, userID, groupID int64) (*domain.GroupMembership, error) {
	return m.removeMemberFunc(ctx, userID, groupID)
}

func (m *mockGroupRepo) MemberIDs(ctx context.Context, groupID int64) ([]int64, error) {
	return m.memberIDsFunc(ctx, groupID)
}

func (m *mockGroupRepo) GroupsForUser(ctx context.Context, userID int64) ([]*domain.UserGroup, error) {
	return m.groupsForUserFunc(ctx, userID)
}

// ---------------------------------------------------------------------------
// Mock SitterRepository
// ---------------------------------------------------------------------------

type mockSitterRepo struct {
	createFunc          func(ctx context.Context, s *domain.Sitter) error
	getByIDFunc         func(ctx context.Context, id int64) (*domain.Sitter, error)
	getByUserIDFunc     func(ctx context.Context, userID int64) (*domain.Sitter, error)
	updateFunc          func(ctx context.Context, s *domain.Sitter) error
	deleteFunc          func(ctx context.Context, id int64) error
	listFunc            func(ctx context.Context, limit, offset int) ([]*domain.Sitter, error)
	addSpecialtyFunc    func(ctx context.Context, s *domain.SitterBreedSpecialty) error
	removeSpecialtyFunc func(ctx context.Context, sitterID, breedID int64) (*domain.SitterBreedSpecialty, error)
}

func (m *mockSitterRepo) Create(ctx context.Context, s *domain.Sitter) error {
	return m.createFunc(ctx, s)
}

func (m *mockSitterRepo) GetByID(ctx context.Context, id int64) (*domain.Sitter, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSitterRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Sitter, error) {
	return m.getByUserIDFunc(ctx, userID)
}

func (m *mockSitterRepo) Update(ctx context.Context, s *domain.Sitter) error {
	return m.updateFunc(ctx, s)
}

func (m *mockSitterRepo) Delete(ctx context.Context, id int64) error { return m.deleteFunc(ctx, id) }

func (m *mockSitterRepo) List(ctx context.Context, limit, offset int) ([]*domain.Sitter, error) {
	return m.listFunc(ctx, limit, offset)
}

func (m *mockSitterRepo) AddCertificate(context.Context, *domain.SitterCertificate) error { return nil }

func (m *mockSitterRepo) DeleteCertificate(context.Context, int64) (*domain.SitterCertificate, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSitterRepo) ListCertificates(context.Context, int64) ([]*domain.SitterCertificate, error) {
	return nil, nil
}

func (m *mockSitterRepo) AddService(context.Context, *domain.SitterService) error { return nil }

func (m *mockSitterRepo) DeleteService(context.Context, int64) (*domain.SitterService, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSitterRepo) ListServices(context.Context, int64) ([]*domain.SitterService, error) {
	return nil, nil
}

func (m *mockSitterRepo) AddAvailability(context.Context, *domain.Availability) error { return nil }

func (m *mockSitterRepo) DeleteAvailability(context.Context, int64) (*domain.Availability, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSitterRepo) ListAvailability(context.Context, int64) ([]*domain.Availability, error) {
	return nil, nil
}

func (m *mockSitterRepo) AddUnavailableDate(context.Context, *domain.UnavailableDate) error {
	return nil
}

func (m *mockSitterRepo) DeleteUnavailableDate(context.Context, int64) (*domain.UnavailableDate, error) {
	return nil, domain.ErrNotFound
}

func (m *mockSitterRepo) ListUnavailableDates(context.Context, int64) ([]*domain.UnavailableDate, error) {
	return nil, nil
}

func (m *mockSitterRepo) AddBreedSpecialty(ctx context.Context, s *domain.SitterBreedSpecialty) error {
	return m.addSpecialtyFunc(ctx, s)
}

func (m *mockSitterRepo) RemoveBreedSpecialty(ctx context.Context, sitterID, breedID int64) (*domain.SitterBreedSpecialty, error) {
	return m.removeSpecialtyFunc(ctx, sitterID, breedID)
}

func (m *mockSitterRepo) ListBreedSpecialties(context.Context, int64) ([]*domain.SitterBreedSpecialty, error) {
	return nil, nil
}
