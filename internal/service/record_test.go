package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/service"
)

// recordingAuditor captures RecordChange calls for assertion.
type recordingAuditor struct {
	userIDs []string
	actions []string
	records []domain.Record
}

func (a *recordingAuditor) RecordChange(_ context.Context, userID, action string, rec domain.Record) {
	a.userIDs = append(a.userIDs, userID)
	a.actions = append(a.actions, action)
	a.records = append(a.records, rec)
}

func newRecordService(store *memRecordRepo, audits service.Auditor) *service.RecordService {
	v := service.NewRecordValidator(store, domain.DateFormatISO)
	return service.NewRecordService(store, v, audits)
}

func TestRecordService_Create(t *testing.T) {
	store := &memRecordRepo{}
	audits := &recordingAuditor{}
	svc := newRecordService(store, audits)

	rec, err := svc.Create(context.Background(), "officer-1", validInput())

	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	require.Len(t, audits.actions, 1)
	assert.Equal(t, "create", audits.actions[0])
	assert.Equal(t, "officer-1", audits.userIDs[0])
	assert.Equal(t, rec.ID, audits.records[0].ID)
}

func TestRecordService_Create_InvalidInputNotAudited(t *testing.T) {
	audits := &recordingAuditor{}
	svc := newRecordService(&memRecordRepo{}, audits)

	in := validInput()
	in.Surname = ""

	_, err := svc.Create(context.Background(), "officer-1", in)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, audits.actions)
}

func TestRecordService_Create_NilAuditor(t *testing.T) {
	svc := newRecordService(&memRecordRepo{}, nil)

	_, err := svc.Create(context.Background(), "officer-1", validInput())

	require.NoError(t, err)
}

func TestRecordService_Update_Revalidates(t *testing.T) {
	store := &memRecordRepo{}
	svc := newRecordService(store, nil)

	created, err := svc.Create(context.Background(), "officer-1", validInput())
	require.NoError(t, err)

	in := validInput()
	in.Age = "not a number" // an edit re-runs the full validator

	_, err = svc.Update(context.Background(), "officer-1", created.ID, in)

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "age")
}

func TestRecordService_Update_KeepsID(t *testing.T) {
	store := &memRecordRepo{}
	audits := &recordingAuditor{}
	svc := newRecordService(store, audits)

	created, err := svc.Create(context.Background(), "officer-1", validInput())
	require.NoError(t, err)

	in := validInput()
	in.TravelReason = "Family visit"

	updated, err := svc.Update(context.Background(), "officer-2", created.ID, in)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Family visit", updated.TravelReason)
	assert.Equal(t, []string{"create", "update"}, audits.actions)
	assert.Equal(t, "officer-2", audits.userIDs[1])
}

func TestRecordService_Delete_AuditsDeletedRecord(t *testing.T) {
	store := &memRecordRepo{}
	audits := &recordingAuditor{}
	svc := newRecordService(store, audits)

	created, err := svc.Create(context.Background(), "officer-1", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "officer-1", created.ID))

	assert.Empty(t, store.records)
	require.Len(t, audits.actions, 2)
	assert.Equal(t, "delete", audits.actions[1])
	// The audited record is the row as it stood before deletion.
	assert.Equal(t, created.DocumentNo, audits.records[1].DocumentNo)
}

func TestRecordService_Delete_NotFound(t *testing.T) {
	audits := &recordingAuditor{}
	svc := newRecordService(&memRecordRepo{}, audits)

	err := svc.Delete(context.Background(), "officer-1", 99)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, audits.actions)
}

func TestRecordService_List_PaginationEnvelope(t *testing.T) {
	repo := &mockRecordRepo{
		list: func(_ context.Context, q domain.ListQuery) ([]domain.Record, int64, error) {
			return []domain.Record{{ID: 1}, {ID: 2}}, 45, nil
		},
	}
	svc := service.NewRecordService(repo, nil, nil)

	q := domain.ListQuery{Page: domain.PaginationParams{Page: 2, PerPage: 20}}
	page, err := svc.List(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, int64(45), page.Total)
	assert.Equal(t, 2, page.PageNum)
	assert.Equal(t, 3, page.LastPage)
	assert.Len(t, page.Items, 2)
}
