package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/jwt"
	"github.com/dropDatabas3/ums/internal/security/password"
)

var fastParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}

// fakeRepo implementa solo lo que usa auth; el resto panickea vía la interfaz nil.
type fakeRepo struct {
	repository.PrincipalRepository
	role  types.Role
	creds map[string]repository.Credential
	err   error
	block bool
	calls int
}

func (f *fakeRepo) GetCredentialByEmail(ctx context.Context, email string) (*repository.Credential, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.creds[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*repository.Principal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.creds {
		if c.ID == id {
			p := c.Principal
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fixture struct {
	admins      *fakeRepo
	instructors *fakeRepo
	students    *fakeRepo
	issuer      *jwt.Issuer
	verifier    *Verifier
	gate        *Gate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash := func(p string) string {
		h, err := password.Hash(fastParams, p)
		require.NoError(t, err)
		return h
	}
	f := &fixture{
		admins: &fakeRepo{role: types.RoleAdmin, creds: map[string]repository.Credential{
			"admin@ums.com": {Principal: repository.Principal{ID: 1, Email: "admin@ums.com", Name: "System Admin"}, PasswordHash: hash("admin123")},
		}},
		instructors: &fakeRepo{role: types.RoleInstructor, creds: map[string]repository.Credential{
			"turing@ums.com": {Principal: repository.Principal{ID: 10, Email: "turing@ums.com", Name: "Alan", Department: "CS"}, PasswordHash: hash("enigma")},
		}},
		students: &fakeRepo{role: types.RoleStudent, creds: map[string]repository.Credential{
			"ada@ums.com": {Principal: repository.Principal{ID: 20, Email: "ada@ums.com", Name: "Ada", StudentID: "S-001"}, PasswordHash: hash("engine")},
			// mismo email que el admin, otra tabla
			"admin@ums.com": {Principal: repository.Principal{ID: 21, Email: "admin@ums.com", Name: "Homonym"}, PasswordHash: hash("student-pass")},
		}},
	}
	iss, err := jwt.NewIssuer("ums-test", []byte("test-secret"), time.Hour)
	require.NoError(t, err)
	f.issuer = iss
	f.verifier = NewVerifier(VerifierDeps{
		Stores:     Stores{Admins: f.admins, Instructors: f.instructors, Students: f.students},
		Issuer:     iss,
		HashParams: &fastParams,
	})
	f.gate = NewGate(iss)
	return f
}

func TestAuthenticateSuccessEmbedsIDAndRole(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		email, pass string
		role        types.Role
		id          int64
	}{
		{"admin@ums.com", "admin123", types.RoleAdmin, 1},
		{"turing@ums.com", "enigma", types.RoleInstructor, 10},
		{"ada@ums.com", "engine", types.RoleStudent, 20},
		{"admin@ums.com", "student-pass", types.RoleStudent, 21},
	}
	for _, c := range cases {
		res, err := f.verifier.Authenticate(context.Background(), c.email, c.pass, c.role)
		require.NoError(t, err, c.email)
		require.NotEmpty(t, res.Token)
		require.Equal(t, c.id, res.Principal.ID)
		require.Equal(t, c.role, res.Principal.Role)

		claims, err := f.issuer.Parse(res.Token)
		require.NoError(t, err)
		require.Equal(t, c.id, claims.PrincipalID)
		require.Equal(t, c.role, claims.Role)
	}
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	f := newFixture(t)
	_, err := f.verifier.Authenticate(context.Background(), "  Ada@UMS.com ", "engine", types.RoleStudent)
	require.NoError(t, err)
}

func TestAuthenticateUndifferentiatedFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, errBadPass := f.verifier.Authenticate(ctx, "admin@ums.com", "wrong", types.RoleAdmin)
	_, errNoUser := f.verifier.Authenticate(ctx, "ghost@ums.com", "admin123", types.RoleAdmin)
	// password correcta de otra tabla
	_, errWrongTable := f.verifier.Authenticate(ctx, "ada@ums.com", "engine", types.RoleInstructor)
	_, errEmpty := f.verifier.Authenticate(ctx, "admin@ums.com", "", types.RoleAdmin)

	for _, err := range []error{errBadPass, errNoUser, errWrongTable, errEmpty} {
		require.ErrorIs(t, err, ErrInvalidCredentials)
		require.Equal(t, errBadPass.Error(), err.Error())
	}
}

func TestAuthenticateInvalidRoleSkipsLookup(t *testing.T) {
	f := newFixture(t)
	for _, r := range []types.Role{"", "Admin", "root", "student "} {
		_, err := f.verifier.Authenticate(context.Background(), "admin@ums.com", "admin123", r)
		require.ErrorIs(t, err, ErrInvalidRole)
	}
	require.Zero(t, f.admins.calls+f.instructors.calls+f.students.calls)
}

func TestAuthenticateStoreUnavailable(t *testing.T) {
	f := newFixture(t)
	f.students.err = errors.New("connection refused")

	_, err := f.verifier.Authenticate(context.Background(), "ada@ums.com", "engine", types.RoleStudent)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateQueryTimeout(t *testing.T) {
	f := newFixture(t)
	f.students.block = true
	v := NewVerifier(VerifierDeps{
		Stores:       Stores{Students: f.students},
		Issuer:       f.issuer,
		QueryTimeout: 20 * time.Millisecond,
	})

	start := time.Now()
	_, err := v.Authenticate(context.Background(), "ada@ums.com", "engine", types.RoleStudent)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestAuthenticateMissingStore(t *testing.T) {
	iss, err := jwt.NewIssuer("ums-test", []byte("k"), time.Hour)
	require.NoError(t, err)
	v := NewVerifier(VerifierDeps{Issuer: iss})
	_, err = v.Authenticate(context.Background(), "a@b.c", "x", types.RoleAdmin)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestGateAuthorize(t *testing.T) {
	f := newFixture(t)
	studentTok, _, err := f.issuer.IssueAccess(20, types.RoleStudent)
	require.NoError(t, err)

	ac, err := f.gate.Authorize(studentTok, types.RoleStudent)
	require.NoError(t, err)
	require.Equal(t, AuthContext{PrincipalID: 20, Role: types.RoleStudent}, ac)

	ac, err = f.gate.Authorize(studentTok, AnyRole)
	require.NoError(t, err)
	require.Equal(t, types.RoleStudent, ac.Role)

	_, err = f.gate.Authorize(studentTok, types.RoleInstructor)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.gate.Authorize(studentTok, types.RoleAdmin)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = f.gate.Authorize("", types.RoleStudent)
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = f.gate.Authorize("garbage", types.RoleStudent)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGateInvalidBeatsForbidden(t *testing.T) {
	f := newFixture(t)
	other, err := jwt.NewIssuer("ums-test", []byte("other-secret"), time.Hour)
	require.NoError(t, err)
	tok, _, err := other.IssueAccess(20, types.RoleStudent)
	require.NoError(t, err)

	_, err = f.gate.Authorize(tok, types.RoleInstructor)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGateExpiry(t *testing.T) {
	t0 := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	now := t0
	iss, err := jwt.NewIssuer("ums-test", []byte("k"), time.Hour)
	require.NoError(t, err)
	iss.Now = func() time.Time { return now }
	g := NewGate(iss)

	tok, _, err := iss.IssueAccess(3, types.RoleAdmin)
	require.NoError(t, err)

	now = t0.Add(59*time.Minute + 59*time.Second)
	_, err = g.Authorize(tok, types.RoleAdmin)
	require.NoError(t, err)

	now = t0.Add(time.Hour)
	_, err = g.Authorize(tok, types.RoleAdmin)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	p, err := f.verifier.Profile(context.Background(), AuthContext{PrincipalID: 10, Role: types.RoleInstructor})
	require.NoError(t, err)
	require.Equal(t, "turing@ums.com", p.Email)
	require.Equal(t, types.RoleInstructor, p.Role)

	_, err = f.verifier.Profile(context.Background(), AuthContext{PrincipalID: 999, Role: types.RoleInstructor})
	require.ErrorIs(t, err, repository.ErrNotFound)

	f.instructors.err = errors.New("boom")
	_, err = f.verifier.Profile(context.Background(), AuthContext{PrincipalID: 10, Role: types.RoleInstructor})
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header, tok string
		ok          bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER  abc ", "abc", true},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		tok, ok := BearerToken(c.header)
		require.Equal(t, c.ok, ok, c.header)
		require.Equal(t, c.tok, tok, c.header)
	}
}

func TestStoresFor(t *testing.T) {
	f := newFixture(t)
	s := Stores{Admins: f.admins, Instructors: f.instructors, Students: f.students}
	for _, r := range types.Roles {
		repo, err := s.For(r)
		require.NoError(t, err)
		require.Equal(t, r, repo.(*fakeRepo).role)
	}
	_, err := s.For("guest")
	require.ErrorIs(t, err, ErrInvalidRole)
}
