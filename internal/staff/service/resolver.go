package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cafeteria/internal/domain"
	apperrors "cafeteria/internal/errors"
)

const (
	minNameLength = 2
	minPINLength  = 4
	maxPINLength  = 12
)

// Store is one staff collection.
type Store interface {
	Name() string
	FindByName(ctx context.Context, name string) ([]domain.StaffRecord, error)
	All(ctx context.Context) ([]domain.StaffRecord, error)
	Insert(ctx context.Context, u domain.StaffUser) error
	Ping(ctx context.Context) error
}

// Resolver looks staff users up across an ordered list of stores. The
// first store is the primary: it wins lookups and id collisions and is
// the only one written to.
type Resolver struct {
	stores []Store
	logger *zap.Logger
	now    func() time.Time
}

func NewResolver(stores []Store, logger *zap.Logger, now func() time.Time) (*Resolver, error) {
	if len(stores) == 0 {
		return nil, errors.New("resolver needs at least one store")
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{stores: stores, logger: logger, now: now}, nil
}

// Normalize turns a stored record into a StaffUser. Records without an id,
// name or pin, or with an unknown role, are rejected.
func Normalize(rec domain.StaffRecord) (domain.StaffUser, bool) {
	id := rec.DocID
	if rec.ID != nil && *rec.ID != "" {
		id = *rec.ID
	}
	if id == "" || rec.Name == nil || *rec.Name == "" || rec.PIN == nil || *rec.PIN == "" || rec.Role == nil {
		return domain.StaffUser{}, false
	}

	role := domain.StaffRole(*rec.Role)
	if !role.Valid() {
		return domain.StaffUser{}, false
	}

	return domain.StaffUser{
		ID:        id,
		Name:      *rec.Name,
		PIN:       *rec.PIN,
		Role:      role,
		CreatedAt: rec.CreatedAt,
	}, true
}

// Lookup returns the first valid user named exactly name, searching the
// stores in order. A nil user with a nil error means no match.
func (r *Resolver) Lookup(ctx context.Context, name string) (*domain.StaffUser, error) {
	for _, store := range r.stores {
		records, err := store.FindByName(ctx, name)
		if err != nil {
			return nil, apperrors.NewTransientError("looking up staff in "+store.Name(), err)
		}

		for _, rec := range records {
			u, ok := Normalize(rec)
			if !ok {
				r.logger.Debug("skipping invalid staff record", zap.String("collection", store.Name()), zap.String("docId", rec.DocID))
				continue
			}
			if u.Name != name {
				continue
			}
			return &u, nil
		}
	}
	return nil, nil
}

func (r *Resolver) Register(ctx context.Context, name, pin string, role domain.StaffRole) (*domain.StaffUser, error) {
	name = strings.TrimSpace(name)
	if err := validateRegistration(name, pin, role); err != nil {
		return nil, err
	}

	existing, err := r.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewDuplicateNameError(name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError("hashing pin", err)
	}

	createdAt := r.now().UTC()
	u := domain.StaffUser{
		ID:        uuid.New().String(),
		Name:      name,
		PIN:       string(hash),
		Role:      role,
		CreatedAt: &createdAt,
	}

	primary := r.stores[0]
	if err := primary.Insert(ctx, u); err != nil {
		return nil, apperrors.NewTransientError("registering staff in "+primary.Name(), err)
	}

	r.logger.Info("staff user registered", zap.String("staffId", u.ID), zap.String("role", string(u.Role)))

	return &u, nil
}

func (r *Resolver) Authenticate(ctx context.Context, name, pin string) (*domain.StaffUser, error) {
	u, err := r.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.NewNotFoundError("staff user not found")
	}
	if !PINMatches(u.PIN, pin) {
		r.logger.Warn("wrong pin", zap.String("staffId", u.ID))
		return nil, apperrors.NewWrongPinError(name)
	}
	return u, nil
}

// ListAll merges every store, keeping the first record seen for each id,
// and orders admins before sellers and then by name.
func (r *Resolver) ListAll(ctx context.Context) ([]domain.StaffUser, error) {
	seen := make(map[string]bool)
	var users []domain.StaffUser

	for _, store := range r.stores {
		records, err := store.All(ctx)
		if err != nil {
			return nil, apperrors.NewTransientError("listing staff in "+store.Name(), err)
		}
		for _, rec := range records {
			u, ok := Normalize(rec)
			if !ok || seen[u.ID] {
				continue
			}
			seen[u.ID] = true
			users = append(users, u)
		}
	}

	SortUsers(users)
	return users, nil
}

// CheckAccess reports whether the primary store can be read.
func (r *Resolver) CheckAccess(ctx context.Context) bool {
	primary := r.stores[0]
	if err := primary.Ping(ctx); err != nil {
		r.logger.Error("staff store not reachable", zap.String("collection", primary.Name()), zap.Error(err))
		return false
	}
	return true
}

func SortUsers(users []domain.StaffUser) {
	col := collate.New(language.Spanish)
	sort.SliceStable(users, func(i, j int) bool {
		ri, rj := roleRank(users[i].Role), roleRank(users[j].Role)
		if ri != rj {
			return ri < rj
		}
		return col.CompareString(users[i].Name, users[j].Name) < 0
	})
}

func roleRank(role domain.StaffRole) int {
	if role == domain.StaffRoleAdmin {
		return 0
	}
	return 1
}

// PINMatches compares against a bcrypt hash, or exactly against a
// plaintext PIN written by older tooling.
func PINMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func validateRegistration(name, pin string, role domain.StaffRole) error {
	var details []apperrors.ValidationDetail

	if utf8.RuneCountInString(name) < minNameLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "name",
			Message: "name must have at least 2 characters",
		})
	}

	if n := utf8.RuneCountInString(pin); n < minPINLength || n > maxPINLength {
		details = append(details, apperrors.ValidationDetail{
			Field:   "pin",
			Message: "pin must have between 4 and 12 characters",
		})
	}

	if !role.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "role",
			Message: "role must be admin or vendedor",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
