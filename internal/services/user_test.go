package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"eventregistry/internal/domain"

	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return domain.ErrDuplicateUsername
		}
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

type fakeIssuer struct {
	lastRole string
}

func (f *fakeIssuer) Issue(userID, username, role string, _ time.Duration) (string, error) {
	f.lastRole = role
	return "token-for-" + userID, nil
}

func userFixture() (domain.UserService, *fakeUserRepo, *fakeIssuer) {
	repo := newFakeUserRepo()
	issuer := &fakeIssuer{}
	svc := NewUserService(repo, fakeHasher{}, issuer, time.Hour, time.Second)
	return svc, repo, issuer
}

func TestUserService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _, _ := userFixture()

		user, err := svc.SignUp(ctx, " alice ", "secret-password", " Alice@Example.com ", "Alice A.")
		require.NoError(t, err)
		require.NotEmpty(t, user.ID)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "alice@example.com", user.Email)
		require.Equal(t, domain.RoleUser, user.Role)
		require.True(t, user.Enabled)
		require.Equal(t, "hashed:secret-password", user.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, _, _ := userFixture()

		_, err := svc.SignUp(ctx, "alice", "secret-password", "alice@example.com", "")
		require.NoError(t, err)

		_, err = svc.SignUp(ctx, "alice", "other-password", "other@example.com", "")
		require.ErrorIs(t, err, domain.ErrDuplicateUsername)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _, _ := userFixture()

		_, err := svc.SignUp(ctx, "alice", "secret-password", "alice@example.com", "")
		require.NoError(t, err)

		_, err = svc.SignUp(ctx, "bob", "other-password", "ALICE@example.com", "")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, _, issuer := userFixture()

		created, err := svc.SignUp(ctx, "alice", "secret-password", "alice@example.com", "")
		require.NoError(t, err)

		token, user, err := svc.Login(ctx, "alice", "secret-password")
		require.NoError(t, err)
		require.Equal(t, "token-for-"+created.ID, token)
		require.Equal(t, created.ID, user.ID)
		require.Equal(t, domain.RoleUser, issuer.lastRole)
	})

	t.Run("unknown username", func(t *testing.T) {
		svc, _, _ := userFixture()
		_, _, err := svc.Login(ctx, "nobody", "whatever-password")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _ := userFixture()

		_, err := svc.SignUp(ctx, "alice", "secret-password", "alice@example.com", "")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "alice", "wrong-password")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		svc, repo, _ := userFixture()

		created, err := svc.SignUp(ctx, "alice", "secret-password", "alice@example.com", "")
		require.NoError(t, err)
		repo.users[created.ID].Enabled = false

		_, _, err = svc.Login(ctx, "alice", "secret-password")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserService_GetByID(t *testing.T) {
	svc, _, _ := userFixture()
	_, err := svc.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
