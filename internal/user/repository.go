package user

import (
	"context"
	"database/sql"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
	"github.com/devtrail/devtrail/internal/infrastructure/uuid"
)

type UserRepository struct {
	Conn          driver.ITransactionalDB `dep:""`
	UUIDGenerator uuid.Generator
}

var _ domain.UserRepository = &UserRepository{}

func NewUserRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *UserRepository {
	return &UserRepository{
		Conn:          Conn,
		UUIDGenerator: UUIDGenerator,
	}
}

// FindByCredential query user with provided credential
func (repo *UserRepository) FindByCredential(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	conn := repo.Conn
	row, err := conn.QueryContext(ctx, `
SELECT
    id, username, password, email, login_retry
FROM
    app_user
WHERE
    username = $1 OR email = $2
	`, post.Username, post.Email)
	if err != nil {
		return nil, domain.NewStoreUnavailableError("user.FindByCredential", err)
	}
	defer row.Close()

	if row.Next() {
		user := new(domain.UserModel)
		if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.LoginRetry); err != nil {
			return nil, domain.NewStoreUnavailableError("user.FindByCredential", err)
		}
		return user, nil
	}
	return nil, nil
}

func (repo *UserRepository) SaveUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	// generate id
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `
INSERT INTO app_user (id, username, password, email)
VALUES ($1, $2, $3, $4)
	`, post.ID, post.Username, post.Password, post.Email)
	if err != nil {
		if driver.IsUniqueViolation(err) {
			return domain.ErrDuplicatedUser
		}
		return domain.NewStoreUnavailableError("user.SaveUser", err)
	}
	return nil
}

func (repo *UserRepository) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `
UPDATE app_user
SET email = $1,
    login_retry = $2
WHERE id = $3
	`, post.Email, post.LoginRetry, post.ID)
	if err != nil {
		return domain.NewStoreUnavailableError("user.UpdateUser", err)
	}
	return nil
}

// IncrementLoginRetry bump the failed-attempt counter by one. Read-modify-write
// under RepeatableRead so concurrent failed attempts cannot lose a count.
func (repo *UserRepository) IncrementLoginRetry(ctx context.Context, userID string) error {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		return domain.NewStoreUnavailableError("user.IncrementLoginRetry", err)
	}

	rows, err := tx.QueryContext(ctx, `
SELECT login_retry
FROM app_user
WHERE id = $1
	`, userID)
	if err != nil {
		tx.Rollback(ctx)
		return domain.NewStoreUnavailableError("user.IncrementLoginRetry", err)
	}
	var retry int
	if rows.Next() {
		if err := rows.Scan(&retry); err != nil {
			rows.Close()
			tx.Rollback(ctx)
			return domain.NewStoreUnavailableError("user.IncrementLoginRetry", err)
		}
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `
UPDATE app_user
SET login_retry = $1
WHERE id = $2
	`, retry+1, userID); err != nil {
		tx.Rollback(ctx)
		return domain.NewStoreUnavailableError("user.IncrementLoginRetry", err)
	}
	return tx.Commit(ctx)
}

func (repo *UserRepository) BeginTx(ctx context.Context) (driver.ITransactionalDB, error) {
	return repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
}
