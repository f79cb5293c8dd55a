package user

import (
	"context"
	"errors"
	"testing"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	user       *domain.UserModel
	findErr    error
	saveErr    error
	updateErr  error
	retryErr   error
	saved      []*domain.UserModel
	updated    []*domain.UserModel
	retryCalls int
}

func (f *fakeUserRepo) FindByCredential(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.user, nil
}

func (f *fakeUserRepo) SaveUser(ctx context.Context, post *domain.UserModel) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, post)
	return nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, post)
	return nil
}

func (f *fakeUserRepo) IncrementLoginRetry(ctx context.Context, userID string) error {
	f.retryCalls++
	if f.retryErr != nil {
		return f.retryErr
	}
	if f.user != nil && f.user.ID == userID {
		f.user.LoginRetry++
	}
	return nil
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func storedUser(t *testing.T, retry int) *domain.UserModel {
	return &domain.UserModel{
		ID:         "u1",
		Username:   "gopher",
		Email:      "gopher@example.com",
		Password:   hashOf(t, "correct horse"),
		LoginRetry: retry,
	}
}

func TestSignIn(t *testing.T) {
	repo := &fakeUserRepo{user: storedUser(t, 0)}
	uc := NewUserUseCase(repo, 3)

	user, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "gopher", Password: "correct horse"})

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	// counter already zero, no reset write needed
	assert.Empty(t, repo.updated)
}

func TestSignIn_ResetsRetryCounter(t *testing.T) {
	repo := &fakeUserRepo{user: storedUser(t, 2)}
	uc := NewUserUseCase(repo, 3)

	user, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "gopher", Password: "correct horse"})

	require.NoError(t, err)
	assert.Zero(t, user.LoginRetry)
	require.Len(t, repo.updated, 1)
	assert.Zero(t, repo.updated[0].LoginRetry)
}

func TestSignIn_WrongPassword(t *testing.T) {
	repo := &fakeUserRepo{user: storedUser(t, 0)}
	uc := NewUserUseCase(repo, 3)

	_, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "gopher", Password: "wrong"})

	assert.ErrorIs(t, err, domain.ErrNoSuchUser)
	assert.Equal(t, 1, repo.retryCalls)
	assert.Equal(t, 1, repo.user.LoginRetry)
}

func TestSignIn_Lockout(t *testing.T) {
	repo := &fakeUserRepo{user: storedUser(t, 0)}
	uc := NewUserUseCase(repo, 3)

	for i := 0; i < 3; i++ {
		_, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "gopher", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrNoSuchUser)
	}

	// the counter has reached the limit, even the right password is refused
	_, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "gopher", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrUserTooManyRetry)
	assert.Equal(t, 3, repo.retryCalls)
}

func TestSignIn_UnknownUser(t *testing.T) {
	uc := NewUserUseCase(&fakeUserRepo{}, 3)
	_, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "nobody", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrNoSuchUser)
}

func TestSignIn_RetryWriteFailureKeepsVerdict(t *testing.T) {
	repo := &fakeUserRepo{user: storedUser(t, 0), retryErr: errors.New("connection refused")}
	uc := NewUserUseCase(repo, 3)

	_, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "gopher", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrNoSuchUser)
}

func TestSignIn_ResetWriteFailureStillSignsIn(t *testing.T) {
	repo := &fakeUserRepo{user: storedUser(t, 2), updateErr: errors.New("connection refused")}
	uc := NewUserUseCase(repo, 3)

	user, err := uc.SignIn(context.Background(), &domain.UserModel{Username: "gopher", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestSignUp(t *testing.T) {
	repo := &fakeUserRepo{}
	uc := NewUserUseCase(repo, 3)

	post := &domain.UserModel{Username: "gopher", Email: "gopher@example.com", Password: "hashed"}
	user, err := uc.SignUp(context.Background(), post)

	require.NoError(t, err)
	assert.Equal(t, post, user)
	require.Len(t, repo.saved, 1)
}

func TestSignUp_Duplicate(t *testing.T) {
	repo := &fakeUserRepo{user: storedUser(t, 0)}
	uc := NewUserUseCase(repo, 3)

	_, err := uc.SignUp(context.Background(), &domain.UserModel{Username: "gopher", Email: "gopher@example.com", Password: "hashed"})
	assert.ErrorIs(t, err, domain.ErrDuplicatedUser)
	assert.Empty(t, repo.saved)
}

func TestExists(t *testing.T) {
	uc := NewUserUseCase(&fakeUserRepo{user: storedUser(t, 0)}, 3)
	existing, err := uc.Exists(context.Background(), &domain.UserModel{Username: "gopher"})
	require.NoError(t, err)
	assert.True(t, existing)

	uc = NewUserUseCase(&fakeUserRepo{}, 3)
	existing, err = uc.Exists(context.Background(), &domain.UserModel{Username: "nobody"})
	require.NoError(t, err)
	assert.False(t, existing)
}
