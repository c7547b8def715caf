package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

func newTestAuditRepo(t *testing.T) repo.AuditRepo {
	t.Helper()
	return repo.NewAuditRepo(testTx(t))
}

func TestAuditRepo_InsertAndList(t *testing.T) {
	r := newTestAuditRepo(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		err := r.Insert(ctx, domain.AuditEntry{
			UserID:   "officer-1",
			Action:   "create",
			RecordID: int64(i),
			Changes:  fmt.Sprintf(`{"id":%d}`, i),
		})
		require.NoError(t, err)
	}

	entries, total, err := r.List(ctx, domain.PaginationParams{Page: 1, PerPage: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].RecordID, "newest first")
	assert.Equal(t, `{"id":3}`, entries[0].Changes)
	assert.False(t, entries[0].CreatedAt.IsZero())
}

func TestAuditRepo_List_SecondPage(t *testing.T) {
	r := newTestAuditRepo(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, r.Insert(ctx, domain.AuditEntry{
			UserID: "officer-1", Action: "delete", RecordID: int64(i), Changes: "{}",
		}))
	}

	entries, _, err := r.List(ctx, domain.PaginationParams{Page: 2, PerPage: 2})

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].RecordID)
}

func TestAuditRepo_Clear(t *testing.T) {
	r := newTestAuditRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, domain.AuditEntry{UserID: "officer-1", Action: "create", RecordID: 1, Changes: "{}"}))
	require.NoError(t, r.Clear(ctx))

	entries, total, err := r.List(ctx, domain.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, entries)
}
