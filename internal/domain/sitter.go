package domain

import (
	"context"
	"time"
)

// Sitter is a user offering dog-sitting services.
type Sitter struct {
	ID          int64
	UserID      int64
	Bio         string
	HourlyRate  int64 // cents
	City        string
	Latitude    float64
	Longitude   float64
	Verified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot returns the sitter's audit snapshot.
func (s *Sitter) Snapshot() Snapshot {
	return Snapshot{
		"id":          s.ID,
		"user_id":     s.UserID,
		"bio":         s.Bio,
		"hourly_rate": s.HourlyRate,
		"city":        s.City,
		"latitude":    s.Latitude,
		"longitude":   s.Longitude,
		"verified":    s.Verified,
		"created_at":  s.CreatedAt,
		"updated_at":  s.UpdatedAt,
	}
}

// SitterCertificate is a qualification document attached to a sitter.
type SitterCertificate struct {
	ID        int64
	SitterID  int64
	Title     string
	Issuer    string
	IssuedAt  time.Time
	CreatedAt time.Time
}

// Snapshot returns the certificate's audit snapshot.
func (c *SitterCertificate) Snapshot() Snapshot {
	return Snapshot{
		"id":         c.ID,
		"sitter_id":  c.SitterID,
		"title":      c.Title,
		"issuer":     c.Issuer,
		"issued_at":  c.IssuedAt,
		"created_at": c.CreatedAt,
	}
}

// SitterService is one service a sitter offers (walking, boarding, daycare).
type SitterService struct {
	ID        int64
	SitterID  int64
	Name      string
	Price     int64 // cents
	CreatedAt time.Time
}

// Snapshot returns the service's audit snapshot.
func (s *SitterService) Snapshot() Snapshot {
	return Snapshot{
		"id":         s.ID,
		"sitter_id":  s.SitterID,
		"name":       s.Name,
		"price":      s.Price,
		"created_at": s.CreatedAt,
	}
}

// Availability is a weekly recurring slot a sitter accepts bookings in.
type Availability struct {
	ID        int64
	SitterID  int64
	Weekday   int // 0 = Sunday
	StartTime string
	EndTime   string
	CreatedAt time.Time
}

// Snapshot returns the availability slot's audit snapshot.
func (a *Availability) Snapshot() Snapshot {
	return Snapshot{
		"id":         a.ID,
		"sitter_id":  a.SitterID,
		"weekday":    a.Weekday,
		"start_time": a.StartTime,
		"end_time":   a.EndTime,
		"created_at": a.CreatedAt,
	}
}

// UnavailableDate blocks a single calendar date for a sitter.
type UnavailableDate struct {
	ID        int64
	SitterID  int64
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}

// Snapshot returns the blocked date's audit snapshot.
func (u *UnavailableDate) Snapshot() Snapshot {
	return Snapshot{
		"id":         u.ID,
		"sitter_id":  u.SitterID,
		"date":       u.Date,
		"reason":     u.Reason,
		"created_at": u.CreatedAt,
	}
}

// SitterBreedSpecialty marks a breed a sitter has particular experience with.
// Identified by the (sitter, breed) pair.
type SitterBreedSpecialty struct {
	SitterID  int64
	BreedID   int64
	CreatedAt time.Time
}

// Snapshot returns the specialty's audit snapshot.
func (s *SitterBreedSpecialty) Snapshot() Snapshot {
	return Snapshot{
		"sitter_id":  s.SitterID,
		"breed_id":   s.BreedID,
		"created_at": s.CreatedAt,
	}
}

// SitterRepository persists sitter profiles and their sub-resources.
type SitterRepository interface {
	Create(ctx context.Context, s *Sitter) error
	GetByID(ctx context.Context, id int64) (*Sitter, error)
	GetByUserID(ctx context.Context, userID int64) (*Sitter, error)
	Update(ctx context.Context, s *Sitter) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Sitter, error)

	// Certificates.
	AddCertificate(ctx context.Context, c *SitterCertificate) error
	DeleteCertificate(ctx context.Context, id int64) (*SitterCertificate, error)
	ListCertificates(ctx context.Context, sitterID int64) ([]*SitterCertificate, error)

	// Services.
	AddService(ctx context.Context, s *SitterService) error
	DeleteService(ctx context.Context, id int64) (*SitterService, error)
	ListServices(ctx context.Context, sitterID int64) ([]*SitterService, error)

	// Availability and blocked dates.
	AddAvailability(ctx context.Context, a *Availability) error
	DeleteAvailability(ctx context.Context, id int64) (*Availability, error)
	ListAvailability(ctx context.Context, sitterID int64) ([]*Availability, error)
	AddUnavailableDate(ctx context.Context, u *UnavailableDate) error
	DeleteUnavailableDate(ctx context.Context, id int64) (*UnavailableDate, error)
	ListUnavailableDates(ctx context.Context, sitterID int64) ([]*UnavailableDate, error)

	// Breed specialties (composite key).
	AddBreedSpecialty(ctx context.Context, s *SitterBreedSpecialty) error
	RemoveBreedSpecialty(ctx context.Context, sitterID, breedID int64) (*SitterBreedSpecialty, error)
	ListBreedSpecialties(ctx context.Context, sitterID int64) ([]*SitterBreedSpecialty, error)
}
