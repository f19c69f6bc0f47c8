package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/thelocalstore/store-api/internal/password"
	"github.com/thelocalstore/store-api/internal/session"
	"github.com/thelocalstore/store-api/internal/storage"
	"github.com/thelocalstore/store-api/internal/token"
)

// fakeUserStore keeps users in memory and mimics the storage sentinels.
type fakeUserStore struct {
	users map[uuid.UUID]*storage.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*storage.User{}}
}

func (f *fakeUserStore) FindUserByEmail(_ context.Context, email string) (*storage.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeUserStore) FindUserByID(_ context.Context, id uuid.UUID) (*storage.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, in storage.NewUser) (*storage.User, error) {
	for _, u := range f.users {
		if u.Email == in.Email {
			return nil, storage.ErrDuplicateEmail
		}
		if u.PhoneNumber == in.PhoneNumber {
			return nil, storage.ErrDuplicatePhone
		}
	}
	u := &storage.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: in.PasswordHash,
		Status:       storage.StatusActive,
		Roles:        []string{storage.RoleUser},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) AppendUserRole(_ context.Context, id uuid.UUID, role string) (*storage.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.Roles = append(u.Roles, role)
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUserStore) DeleteUserCascade(_ context.Context, id uuid.UUID) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeMailer struct {
	to       string
	resetURI string
	fail     bool
}

func (f *fakeMailer) SendPasswordResetMail(_ context.Context, to, _, resetURI string) error {
	if f.fail {
		return errors.New("mail gateway down")
	}
	f.to = to
	f.resetURI = resetURI
	return nil
}

type testEnv struct {
	service *Service
	users   *fakeUserStore
	mailer  *fakeMailer
	cache   *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	tokens, err := token.NewService(token.Config{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		ResetSecret:   []byte("reset-secret-for-tests"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		ResetTTL:      10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("token.NewService failed: %v", err)
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("password.NewArgon2 failed: %v", err)
	}

	users := newFakeUserStore()
	mailer := &fakeMailer{}
	cache := session.NewStore(client, "")

	return &testEnv{
		service: NewService(users, tokens, cache, hasher, mailer, nil),
		users:   users,
		mailer:  mailer,
		cache:   cache,
	}
}

func registerAlice(t *testing.T, env *testEnv) *storage.User {
	t.Helper()
	user, err := env.service.Register(context.Background(), Profile{
		Name:        "Alice",
		Email:       "alice@example.com",
		PhoneNumber: "9876543210",
		Password:    "secret1",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestRegisterLoginRefreshLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	user, pair, err := env.service.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("Login user email = %q", user.Email)
	}
	if pair.Access == "" || pair.Refresh == "" {
		t.Fatal("Login returned empty tokens")
	}

	access, err := env.service.RefreshAccess(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("RefreshAccess failed: %v", err)
	}
	if access == "" {
		t.Fatal("RefreshAccess returned empty token")
	}

	if err := env.service.Logout(ctx, pair.Refresh); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := env.service.RefreshAccess(ctx, pair.Refresh); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("refresh after logout: got %v, want ErrSessionInvalid", err)
	}
}

func TestSecondLoginRevokesFirstSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	_, first, err := env.service.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}

	// Different iat/exp second makes the second refresh token distinct.
	time.Sleep(1100 * time.Millisecond)

	_, second, err := env.service.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	if first.Refresh == second.Refresh {
		t.Fatal("both logins produced the same refresh token")
	}

	if _, err := env.service.RefreshAccess(ctx, first.Refresh); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("first session refresh: got %v, want ErrSessionInvalid", err)
	}
	if _, err := env.service.RefreshAccess(ctx, second.Refresh); err != nil {
		t.Fatalf("second session refresh failed: %v", err)
	}
}

func TestRegisterConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	_, err := env.service.Register(ctx, Profile{
		Name:        "Other",
		Email:       "alice@example.com",
		PhoneNumber: "1112223334",
		Password:    "secret1",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}

	_, err = env.service.Register(ctx, Profile{
		Name:        "Other",
		Email:       "other@example.com",
		PhoneNumber: "9876543210",
		Password:    "secret1",
	})
	if !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("duplicate phone: got %v, want ErrPhoneTaken", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []Profile{
		{Name: "", Email: "a@example.com", PhoneNumber: "123", Password: "secret1"},
		{Name: "A", Email: "not-an-email", PhoneNumber: "123", Password: "secret1"},
		{Name: "A", Email: "a@example.com", PhoneNumber: "", Password: "secret1"},
		{Name: "A", Email: "a@example.com", PhoneNumber: "123", Password: "tiny"},
	}
	for i, p := range cases {
		if _, err := env.service.Register(ctx, p); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: got %v, want ErrValidation", i, err)
		}
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	if _, _, err := env.service.Login(ctx, "alice@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := env.service.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRejectsWrongKindAndDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerAlice(t, env)

	_, pair, err := env.service.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// An access token must never pass as a refresh token.
	if _, err := env.service.RefreshAccess(ctx, pair.Access); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("access-as-refresh: got %v, want ErrSessionInvalid", err)
	}

	if err := env.users.DeleteUserCascade(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := env.service.RefreshAccess(ctx, pair.Refresh); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("deleted user refresh: got %v, want ErrSessionInvalid", err)
	}
}

func TestPromoteToSeller(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	user, err := env.service.PromoteToSeller(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("PromoteToSeller failed: %v", err)
	}
	if !user.HasRole(storage.RoleSeller) {
		t.Fatal("seller role not appended")
	}
	if !user.HasRole(storage.RoleUser) {
		t.Fatal("user role lost during promotion")
	}

	if _, err := env.service.PromoteToSeller(ctx, "alice@example.com", "secret1"); !errors.Is(err, ErrAlreadySeller) {
		t.Fatalf("second promotion: got %v, want ErrAlreadySeller", err)
	}
	if _, err := env.service.PromoteToSeller(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad credentials: got %v, want ErrInvalidCredentials", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	_, pair, err := env.service.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := env.service.ForgotPassword(ctx, "alice@example.com", "https://shop.example/reset"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	if env.mailer.to != "alice@example.com" {
		t.Fatalf("mail sent to %q", env.mailer.to)
	}

	resetToken := env.mailer.resetURI[strings.LastIndex(env.mailer.resetURI, "/")+1:]
	if resetToken == "" {
		t.Fatalf("no token in reset URI %q", env.mailer.resetURI)
	}

	if err := env.service.ResetPassword(ctx, resetToken, "brand-new-pass"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// The reset terminates the refresh session.
	if _, err := env.service.RefreshAccess(ctx, pair.Refresh); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("refresh after reset: got %v, want ErrSessionInvalid", err)
	}

	if _, _, err := env.service.Login(ctx, "alice@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still works: %v", err)
	}
	if _, _, err := env.service.Login(ctx, "alice@example.com", "brand-new-pass"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestForgotPasswordFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	if err := env.service.ForgotPassword(ctx, "nobody@example.com", "https://shop.example/reset"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown email: got %v, want ErrUserNotFound", err)
	}

	env.mailer.fail = true
	if err := env.service.ForgotPassword(ctx, "alice@example.com", "https://shop.example/reset"); err == nil {
		t.Fatal("expected mail failure to propagate")
	}
}

func TestResetPasswordRejectsWrongKindToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	registerAlice(t, env)

	_, pair, err := env.service.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := env.service.ResetPassword(ctx, pair.Access, "brand-new-pass"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("access-as-reset: got %v, want ErrSessionInvalid", err)
	}
	if err := env.service.ResetPassword(ctx, pair.Refresh, "brand-new-pass"); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("refresh-as-reset: got %v, want ErrSessionInvalid", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerAlice(t, env)

	_, pair, err := env.service.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := env.service.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if _, err := env.service.RefreshAccess(ctx, pair.Refresh); !errors.Is(err, ErrSessionInvalid) {
		t.Fatalf("refresh after deletion: got %v, want ErrSessionInvalid", err)
	}
	if err := env.service.DeleteAccount(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("second deletion: got %v, want ErrUserNotFound", err)
	}
}
