package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sweetshop/sweetshop-api/internal/auth"
	"github.com/sweetshop/sweetshop-api/internal/core/domain"
	"github.com/sweetshop/sweetshop-api/internal/core/ports"
)

var testCodec = auth.NewCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)

// stubPrincipalRepo is an in-memory PrincipalRepository. Create enforces
// email uniqueness under a mutex, mirroring the store's unique index.
type stubPrincipalRepo struct {
	mu     sync.Mutex
	nextID int
	byMail map[string]*domain.Principal
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{byMail: make(map[string]*domain.Principal)}
}

func (r *stubPrincipalRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byMail[email]
	return ok, nil
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byMail[email]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byMail[p.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	r.byMail[clone.Email] = &clone
	result := clone
	return &result, nil
}

func newTestAuthService() (*AuthService, *stubPrincipalRepo, *stubPrincipalRepo) {
	admins := newStubPrincipalRepo()
	users := newStubPrincipalRepo()
	return NewAuthService(admins, users, testCodec, zerolog.Nop()), admins, users
}

func TestAuthService_RegisterAdmin_Success(t *testing.T) {
	svc, admins, _ := newTestAuthService()

	msg, err := svc.RegisterAdmin(context.Background(), ports.RegisterInput{
		Name: "A", Email: "a@x.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("RegisterAdmin returned error: %v", err)
	}
	if msg == "" {
		t.Fatalf("expected success message")
	}

	stored, err := admins.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("admin not persisted: %v", err)
	}
	if stored.PasswordHash == "secret1" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.RegisterUser(context.Background(), ports.RegisterInput{Name: "B", Email: "b@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.RegisterUser(context.Background(), ports.RegisterInput{Name: "B2", Email: "b@x.com", Password: "secret2"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	svc, _, users := newTestAuthService()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RegisterUser(context.Background(), ports.RegisterInput{
				Name: "C", Email: "c@x.com", Password: "secret1",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrEmailTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", succeeded)
	}
	if _, err := users.FindByEmail(context.Background(), "c@x.com"); err != nil {
		t.Fatalf("winner not persisted: %v", err)
	}
}

func TestAuthService_DisjointPrincipalStores(t *testing.T) {
	svc, _, _ := newTestAuthService()

	// The same email may exist independently as an admin and as a user.
	if _, err := svc.RegisterAdmin(context.Background(), ports.RegisterInput{Name: "D", Email: "d@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("admin registration failed: %v", err)
	}
	if _, err := svc.RegisterUser(context.Background(), ports.RegisterInput{Name: "D", Email: "d@x.com", Password: "secret2"}); err != nil {
		t.Fatalf("user registration with same email failed: %v", err)
	}
}

func TestAuthService_LoginAdmin_Success(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.RegisterAdmin(context.Background(), ports.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result, err := svc.LoginAdmin(context.Background(), ports.LoginInput{Email: "a@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("LoginAdmin returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if result.Role != domain.RoleAdmin || result.Email != "a@x.com" || result.Name != "A" {
		t.Fatalf("unexpected result: %+v", result)
	}

	claims, err := testCodec.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role claim: %s", claims.Role)
	}
	if claims.ID != result.ID {
		t.Fatalf("id claim %d does not match stored id %d", claims.ID, result.ID)
	}
}

func TestAuthService_Login_UniformRejection(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.RegisterUser(context.Background(), ports.RegisterInput{Name: "E", Email: "e@x.com", Password: "goodpass"}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, wrongPass := svc.LoginUser(context.Background(), ports.LoginInput{Email: "e@x.com", Password: "badpass"})
	_, unknown := svc.LoginUser(context.Background(), ports.LoginInput{Email: "ghost@x.com", Password: "whatever"})

	// Unknown email and wrong password must be indistinguishable.
	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("rejection messages differ: %q vs %q", wrongPass.Error(), unknown.Error())
	}
}

func TestAuthService_Login_RoleSelectsStore(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.RegisterUser(context.Background(), ports.RegisterInput{Name: "F", Email: "f@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	// A user account must not authenticate through the admin flow.
	if _, err := svc.LoginAdmin(context.Background(), ports.LoginInput{Email: "f@x.com", Password: "secret1"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
