package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cafeteria/internal/domain"
	apperrors "cafeteria/internal/errors"
)

type fakeStore struct {
	name     string
	records  []domain.StaffRecord
	inserted []domain.StaffUser
	err      error
}

func (s *fakeStore) Name() string { return s.name }

func (s *fakeStore) FindByName(ctx context.Context, name string) ([]domain.StaffRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.StaffRecord
	for _, r := range s.records {
		if r.Name != nil && *r.Name == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) All(ctx context.Context) ([]domain.StaffRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *fakeStore) Insert(ctx context.Context, u domain.StaffUser) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, u)
	id, name, pin, role := u.ID, u.Name, u.PIN, string(u.Role)
	s.records = append(s.records, domain.StaffRecord{DocID: u.ID, ID: &id, Name: &name, PIN: &pin, Role: &role, CreatedAt: u.CreatedAt})
	return nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.err }

func str(s string) *string { return &s }

func record(id, name, pin, role string) domain.StaffRecord {
	return domain.StaffRecord{DocID: id, ID: str(id), Name: str(name), PIN: str(pin), Role: str(role)}
}

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newResolver(t *testing.T, stores ...*fakeStore) *Resolver {
	t.Helper()
	list := make([]Store, len(stores))
	for i, s := range stores {
		list[i] = s
	}
	r, err := NewResolver(list, zap.NewNop(), func() time.Time { return fixedNow })
	require.NoError(t, err)
	return r
}

func TestNewResolver_RequiresStore(t *testing.T) {
	_, err := NewResolver(nil, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		rec    domain.StaffRecord
		ok     bool
		wantID string
	}{
		{"complete", record("a", "Ana", "1234", "admin"), true, "a"},
		{"id from document", domain.StaffRecord{DocID: "doc", Name: str("Ana"), PIN: str("1"), Role: str("vendedor")}, true, "doc"},
		{"missing name", domain.StaffRecord{DocID: "a", PIN: str("1"), Role: str("admin")}, false, ""},
		{"empty pin", record("a", "Ana", "", "admin"), false, ""},
		{"missing role", domain.StaffRecord{DocID: "a", Name: str("Ana"), PIN: str("1")}, false, ""},
		{"unknown role", record("a", "Ana", "1234", "cocinero"), false, ""},
		{"no id at all", domain.StaffRecord{Name: str("Ana"), PIN: str("1"), Role: str("admin")}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := Normalize(tt.rec)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.wantID, u.ID)
			}
		})
	}
}

func TestLookup_PrimaryFirst(t *testing.T) {
	primary := &fakeStore{name: "cafe_users", records: []domain.StaffRecord{record("p", "Luis", "1111", "admin")}}
	fallback := &fakeStore{name: "users", records: []domain.StaffRecord{record("f", "Luis", "2222", "vendedor")}}
	r := newResolver(t, primary, fallback)

	u, err := r.Lookup(context.Background(), "Luis")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "p", u.ID)
}

func TestLookup_SkipsInvalidAndFallsBack(t *testing.T) {
	primary := &fakeStore{name: "cafe_users", records: []domain.StaffRecord{record("p", "Luis", "1111", "jefe")}}
	fallback := &fakeStore{name: "users", records: []domain.StaffRecord{record("f", "Luis", "2222", "vendedor")}}
	r := newResolver(t, primary, fallback)

	u, err := r.Lookup(context.Background(), "Luis")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "f", u.ID)
}

func TestLookup_NoMatch(t *testing.T) {
	r := newResolver(t, &fakeStore{name: "cafe_users"}, &fakeStore{name: "users"})

	u, err := r.Lookup(context.Background(), "Nadie")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestLookup_StoreErrorIsTransient(t *testing.T) {
	r := newResolver(t, &fakeStore{name: "cafe_users", err: errors.New("down")})

	_, err := r.Lookup(context.Background(), "Luis")
	_, ok := apperrors.IsTransientError(err)
	assert.True(t, ok)
}

func TestRegister_WritesPrimaryOnlyWithHashedPIN(t *testing.T) {
	primary := &fakeStore{name: "cafe_users"}
	fallback := &fakeStore{name: "users"}
	r := newResolver(t, primary, fallback)

	u, err := r.Register(context.Background(), "  Marta ", "4321", domain.StaffRoleVendedor)
	require.NoError(t, err)

	assert.Equal(t, "Marta", u.Name)
	assert.NotEmpty(t, u.ID)
	require.NotNil(t, u.CreatedAt)
	assert.Equal(t, fixedNow, *u.CreatedAt)
	require.Len(t, primary.inserted, 1)
	assert.Empty(t, fallback.inserted)

	assert.NotEqual(t, "4321", u.PIN)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PIN), []byte("4321")))

	authed, err := r.Authenticate(context.Background(), "Marta", "4321")
	require.NoError(t, err)
	assert.Equal(t, u.ID, authed.ID)
}

func TestRegister_DuplicateName(t *testing.T) {
	fallback := &fakeStore{name: "users", records: []domain.StaffRecord{record("f", "Marta", "1111", "admin")}}
	primary := &fakeStore{name: "cafe_users"}
	r := newResolver(t, primary, fallback)

	_, err := r.Register(context.Background(), "Marta", "4321", domain.StaffRoleVendedor)

	de, ok := apperrors.IsDuplicateNameError(err)
	require.True(t, ok, "expected DuplicateNameError, got %T", err)
	assert.Equal(t, "Marta", de.Name)
	assert.Empty(t, primary.inserted)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		pin   string
		role  domain.StaffRole
		field string
	}{
		{"short name", " A ", "1234", domain.StaffRoleAdmin, "name"},
		{"short pin", "Ana", "123", domain.StaffRoleAdmin, "pin"},
		{"long pin", "Ana", "1234567890123", domain.StaffRoleAdmin, "pin"},
		{"bad role", "Ana", "1234", "cocinero", "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeStore{name: "cafe_users"}
			r := newResolver(t, primary)

			_, err := r.Register(context.Background(), tt.user, tt.pin, tt.role)

			ve, ok := apperrors.IsValidationError(err)
			require.True(t, ok)
			require.Len(t, ve.Details, 1)
			assert.Equal(t, tt.field, ve.Details[0].Field)
			assert.Empty(t, primary.inserted)
		})
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	primary := &fakeStore{name: "cafe_users"}
	r := newResolver(t, primary)
	primary.err = errors.New("read only")

	_, err := r.Register(context.Background(), "Ana", "1234", domain.StaffRoleAdmin)
	_, ok := apperrors.IsTransientError(err)
	assert.True(t, ok)
}

func TestAuthenticate_WrongPin(t *testing.T) {
	r := newResolver(t, &fakeStore{name: "cafe_users", records: []domain.StaffRecord{record("x", "X", "9999", "vendedor")}})

	_, err := r.Authenticate(context.Background(), "X", "1234")

	_, isWrongPin := apperrors.IsWrongPinError(err)
	_, isNotFound := apperrors.IsNotFoundError(err)
	assert.True(t, isWrongPin)
	assert.False(t, isNotFound)
}

func TestAuthenticate_NotFound(t *testing.T) {
	r := newResolver(t, &fakeStore{name: "cafe_users"})

	_, err := r.Authenticate(context.Background(), "X", "1234")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestAuthenticate_PlaintextIsCaseSensitive(t *testing.T) {
	r := newResolver(t, &fakeStore{name: "cafe_users", records: []domain.StaffRecord{record("x", "X", "abCD", "admin")}})

	_, err := r.Authenticate(context.Background(), "X", "ABCD")
	_, ok := apperrors.IsWrongPinError(err)
	assert.True(t, ok)

	u, err := r.Authenticate(context.Background(), "X", "abCD")
	require.NoError(t, err)
	assert.Equal(t, "x", u.ID)
}

func TestListAll_MergePrecedenceAndOrder(t *testing.T) {
	primary := &fakeStore{name: "cafe_users", records: []domain.StaffRecord{record("a", "Z", "1", "admin")}}
	fallback := &fakeStore{name: "users", records: []domain.StaffRecord{
		record("a", "Z", "2", "vendedor"),
		record("b", "A", "3", "vendedor"),
	}}
	r := newResolver(t, primary, fallback)

	users, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "a", users[0].ID)
	assert.Equal(t, domain.StaffRoleAdmin, users[0].Role)
	assert.Equal(t, "b", users[1].ID)
	assert.Equal(t, "A", users[1].Name)
}

func TestListAll_LocaleAwareNames(t *testing.T) {
	primary := &fakeStore{name: "cafe_users", records: []domain.StaffRecord{
		record("1", "Óscar", "1", "vendedor"),
		record("2", "ñandú", "1", "vendedor"),
		record("3", "Nuria", "1", "vendedor"),
		record("4", "oliva", "1", "vendedor"),
		record("5", "Zoe", "1", "admin"),
	}}
	r := newResolver(t, primary)

	users, err := r.ListAll(context.Background())
	require.NoError(t, err)

	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	assert.Equal(t, []string{"Zoe", "Nuria", "ñandú", "oliva", "Óscar"}, names)
}

func TestListAll_SkipsInvalidRecords(t *testing.T) {
	primary := &fakeStore{name: "cafe_users", records: []domain.StaffRecord{
		record("a", "Ana", "", "admin"),
		record("b", "Bea", "1", "vendedor"),
	}}
	r := newResolver(t, primary)

	users, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].ID)
}

func TestCheckAccess(t *testing.T) {
	ok := newResolver(t, &fakeStore{name: "cafe_users"})
	assert.True(t, ok.CheckAccess(context.Background()))

	down := newResolver(t, &fakeStore{name: "cafe_users", err: errors.New("permission denied")}, &fakeStore{name: "users"})
	assert.False(t, down.CheckAccess(context.Background()))
}

func TestPINMatches(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("2468"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, PINMatches(string(hash), "2468"))
	assert.False(t, PINMatches(string(hash), "1357"))
	assert.True(t, PINMatches("2468", "2468"))
	assert.False(t, PINMatches("2468", "24680"))
}
