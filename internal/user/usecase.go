package user

import (
	"context"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/logging"
	"go.elastic.co/apm"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCaseImpl owns the credential flow, including the login-retry counter
type UserUseCaseImpl struct {
	UserRepository   domain.UserRepository
	MaxLoginAttempts int
}

var _ domain.UserUseCase = &UserUseCaseImpl{}

// NewUserUseCase ...
func NewUserUseCase(
	UserRepository domain.UserRepository,
	MaxLoginAttempts int,
) *UserUseCaseImpl {
	return &UserUseCaseImpl{
		UserRepository:   UserRepository,
		MaxLoginAttempts: MaxLoginAttempts,
	}
}

// SignIn verify the posted credential. A wrong password bumps the retry
// counter; once it reaches MaxLoginAttempts the account is locked out until
// a successful attempt would have reset it out-of-band.
func (uu *UserUseCaseImpl) SignIn(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.SignIn", "service")
	defer apmSpan.End()

	ur := uu.UserRepository
	user, err := ur.FindByCredential(ctx, post)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSuchUser
	}
	if user.LoginRetry >= uu.MaxLoginAttempts {
		return nil, domain.ErrUserTooManyRetry
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(post.Password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			// counter writes must not mask the credential verdict
			if rerr := ur.IncrementLoginRetry(ctx, user.ID); rerr != nil {
				logging.ExtractLoggerFromContext(ctx).Error("Failed to record login attempt",
					zap.String("user.id", user.ID), zap.Error(rerr))
			}
			return nil, domain.ErrNoSuchUser
		}
		return nil, err
	}

	if user.LoginRetry > 0 {
		user.LoginRetry = 0
		if rerr := ur.UpdateUser(ctx, user); rerr != nil {
			logging.ExtractLoggerFromContext(ctx).Error("Failed to reset login attempts",
				zap.String("user.id", user.ID), zap.Error(rerr))
		}
	}
	return user, nil
}

// SignUp create a user
func (uu *UserUseCaseImpl) SignUp(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.SignUp", "service")
	defer apmSpan.End()

	ur := uu.UserRepository
	// search for existence
	if m, err := ur.FindByCredential(ctx, post); err != nil {
		return nil, err
	} else if m != nil {
		return nil, domain.ErrDuplicatedUser
	}

	// save user
	if err := ur.SaveUser(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Exists find if user exists in database
func (uu *UserUseCaseImpl) Exists(ctx context.Context, post *domain.UserModel) (bool, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.Exists", "service")
	defer apmSpan.End()

	user, err := uu.UserRepository.FindByCredential(ctx, post)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return true, nil
}
