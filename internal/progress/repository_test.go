package progress

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/devtrail/devtrail/internal/domain"
	"github.com/devtrail/devtrail/internal/infrastructure/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	rows [][]interface{}
	idx  int
}

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Scan(dest ...interface{}) error {
	row := f.rows[f.idx-1]
	for i, src := range row {
		switch d := dest[i].(type) {
		case *string:
			*d = src.(string)
		case **time.Time:
			*d = src.(*time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

func (f *fakeRows) Close() error { return nil }

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

type fakeConn struct {
	rows      *fakeRows
	queryErr  error
	execErr   error
	lastQuery string
	lastArgs  []interface{}
}

func (f *fakeConn) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.execErr != nil {
		return nil, f.execErr
	}
	return fakeResult{}, nil
}

func (f *fakeConn) QueryContext(ctx context.Context, query string, args ...interface{}) (driver.ISQLRows, error) {
	f.lastQuery = query
	f.lastArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeConn) BeginTx(ctx context.Context, opts *driver.TxOptions) (driver.ITransactionalDB, error) {
	return f, nil
}

func (f *fakeConn) Commit(ctx context.Context) error   { return nil }
func (f *fakeConn) Rollback(ctx context.Context) error { return nil }
func (f *fakeConn) Close(ctx context.Context) error    { return nil }
func (f *fakeConn) Ping() error                        { return nil }

type staticIDGenerator struct{ id string }

func (g staticIDGenerator) Generate() (string, error) { return g.id, nil }

func TestProgressRepositoryFindByUser(t *testing.T) {
	now := time.Now()
	conn := &fakeConn{rows: &fakeRows{rows: [][]interface{}{
		{"id-1", "u1", "7", "COMPLETED", &now},
		{"id-2", "u1", "12", "IN_PROGRESS", &now},
	}}}
	repo := NewProgressRepository(conn, staticIDGenerator{"x"})

	records, err := repo.FindByUser(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 7, records[0].ItemID)
	assert.Equal(t, domain.StatusCompleted, records[0].Status)
	assert.Equal(t, 12, records[1].ItemID)
	assert.Equal(t, domain.StatusInProgress, records[1].Status)
	assert.Equal(t, []interface{}{"u1"}, conn.lastArgs)
}

func TestProgressRepositoryFindByUser_CorruptedItemID(t *testing.T) {
	now := time.Now()
	conn := &fakeConn{rows: &fakeRows{rows: [][]interface{}{
		{"id-1", "u1", "not-a-number", "COMPLETED", &now},
	}}}
	repo := NewProgressRepository(conn, staticIDGenerator{"x"})

	records, err := repo.FindByUser(context.Background(), "u1")

	assert.Nil(t, records)
	assert.Equal(t, domain.ErrKindDataIntegrity, domain.KindOf(err))
	assert.Contains(t, err.Error(), "not-a-number")
}

func TestProgressRepositoryFindByUser_CorruptedStatus(t *testing.T) {
	now := time.Now()
	conn := &fakeConn{rows: &fakeRows{rows: [][]interface{}{
		{"id-1", "u1", "7", "FINISHED", &now},
	}}}
	repo := NewProgressRepository(conn, staticIDGenerator{"x"})

	records, err := repo.FindByUser(context.Background(), "u1")

	assert.Nil(t, records)
	assert.Equal(t, domain.ErrKindDataIntegrity, domain.KindOf(err))
	assert.Contains(t, err.Error(), "FINISHED")
}

func TestProgressRepositoryFindByUser_QueryFailure(t *testing.T) {
	conn := &fakeConn{queryErr: errors.New("connection refused")}
	repo := NewProgressRepository(conn, staticIDGenerator{"x"})

	_, err := repo.FindByUser(context.Background(), "u1")

	assert.Equal(t, domain.ErrKindStoreUnavailable, domain.KindOf(err))
	assert.True(t, errors.Is(err, conn.queryErr))
}

func TestProgressRepositoryUpsert(t *testing.T) {
	conn := &fakeConn{}
	repo := NewProgressRepository(conn, staticIDGenerator{"fixed-id"})

	err := repo.Upsert(context.Background(), "u1", 42, domain.StatusInProgress)

	require.NoError(t, err)
	assert.Contains(t, conn.lastQuery, "ON CONFLICT (user_id, item_id)")
	// item_id is stored as text
	assert.Equal(t, []interface{}{"fixed-id", "u1", "42", "IN_PROGRESS"}, conn.lastArgs)
}

func TestProgressRepositoryUpsert_ExecFailure(t *testing.T) {
	conn := &fakeConn{execErr: errors.New("connection refused")}
	repo := NewProgressRepository(conn, staticIDGenerator{"x"})

	err := repo.Upsert(context.Background(), "u1", 1, domain.StatusCompleted)

	assert.Equal(t, domain.ErrKindStoreUnavailable, domain.KindOf(err))
}

func TestProgressRepositoryDeleteAllByUser(t *testing.T) {
	conn := &fakeConn{}
	repo := NewProgressRepository(conn, staticIDGenerator{"x"})

	require.NoError(t, repo.DeleteAllByUser(context.Background(), "u1"))
	assert.Contains(t, conn.lastQuery, "DELETE FROM progress_record")
	assert.Equal(t, []interface{}{"u1"}, conn.lastArgs)
}
