package http

import (
	"net/http"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/auth"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
	"github.com/devtrail/devtrail/internal/infrastructure/validate"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler user related operations
type UserHandler struct {
	JWTUtil     *auth.JWTUtil
	KVStore     driver.KeyValueDB
	UserUseCase domain.UserUseCase
	Validator   validate.Validator
}

// NewUserHandler create an user controller instance
func NewUserHandler(
	JWTUtil *auth.JWTUtil,
	KVStore driver.KeyValueDB,
	UserUseCase domain.UserUseCase,
	Validator validate.Validator,
) *UserHandler {
	handler := &UserHandler{
		JWTUtil:     JWTUtil,
		UserUseCase: UserUseCase,
		Validator:   Validator,
		KVStore:     KVStore,
	}
	return handler
}

// HandleSignIn ...
func (uh *UserHandler) HandleSignIn(c echo.Context) (err error) {
	ju := uh.JWTUtil

	// parse body
	post := new(domain.UserModel)
	if err = c.Bind(post); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, NewErrorEnvelope("Failed to bind user entity"))
	}
	// the login form posts a single identifier
	post.Email = post.Username

	// the use case owns the credential verdict and the retry counter
	user, err := uh.UserUseCase.SignIn(c.Request().Context(), post)
	if err != nil {
		return respondError(c, err)
	}

	// issue JWT
	tokenStr, err := ju.GenerateTokenStr(user)
	if err != nil {
		return err
	}
	ju.SetClientToken(c, tokenStr)
	user.Password = ""
	return c.JSON(http.StatusOK, NewSuccessEnvelope(user))
}

// HandleSignUp ...
func (uh *UserHandler) HandleSignUp(c echo.Context) (err error) {
	UserUseCase := uh.UserUseCase
	post := new(domain.UserModel)

	if err = c.Bind(post); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, NewErrorEnvelope("Failed to bind user entity"))
	}

	// validation
	if fields := uh.Validator.Struct(post); fields != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope(fields))
	}

	// hash password
	if password, err := bcrypt.GenerateFromPassword([]byte(post.Password), bcrypt.DefaultCost); err == nil {
		post.Password = string(password)
	} else {
		return c.JSON(http.StatusUnprocessableEntity, NewErrorEnvelope("Failed to create user"))
	}

	// register
	user, err := UserUseCase.SignUp(c.Request().Context(), post)
	if err != nil {
		return respondError(c, err)
	}
	user.Password = ""
	return c.JSON(http.StatusOK, NewSuccessEnvelope(user))
}

// HandleSignOut ...
func (uh *UserHandler) HandleSignOut(c echo.Context) (err error) {
	ju := uh.JWTUtil
	kv := uh.KVStore

	if tokenStr, err := ju.ExtractToken(c); err == nil {
		if token, err := ju.Validate(tokenStr); err == nil {
			ju.ClearClientToken(c)
			if err := kv.SetEX(tokenStr, "", token.TimeRemaining()); err != nil {
				return err
			}
			return c.JSON(http.StatusOK, NewSuccessMessageEnvelope("Signed out"))
		}
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.JSON(http.StatusOK, NewSuccessMessageEnvelope("Signed out"))
}

// HandleUserExists ...
func (uh *UserHandler) HandleUserExists(c echo.Context) (err error) {
	UserUseCase := uh.UserUseCase
	post := new(domain.UserModel)
	post.Username = c.QueryParam("username")
	post.Email = c.QueryParam("email")

	if field := uh.Validator.AllEmpty([]string{"username", "email"}, post.Username, post.Email); field != nil {
		return c.JSON(http.StatusBadRequest, NewValidationEnvelope([]*validate.FieldError{field}))
	}

	existing, err := UserUseCase.Exists(c.Request().Context(), post)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, NewSuccessEnvelope(existing))
}
