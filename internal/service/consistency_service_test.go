package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCovariateStore implements domain.CovariateStore for testing.
type mockCovariateStore struct {
	index domain.CovariateIndex
	err   error
	calls map[string]int
}

func newMockCovariateStore(index domain.CovariateIndex) *mockCovariateStore {
	return &mockCovariateStore{index: index, calls: make(map[string]int)}
}

func (m *mockCovariateStore) ListByType(ctx context.Context, covariateType string) ([]domain.StoredCovariate, error) {
	m.calls[covariateType]++
	if m.err != nil {
		return nil, m.err
	}
	return m.index[covariateType], nil
}

// MockConflictStore mocks the ConflictStore interface.
type MockConflictStore struct {
	mock.Mock
}

func (m *MockConflictStore) CreateBatch(ctx context.Context, conflicts []*domain.ClaimConflict) error {
	args := m.Called(ctx, conflicts)
	if args.Error(0) == nil {
		for _, c := range conflicts {
			c.ID = uuid.New()
		}
	}
	return args.Error(0)
}

// txConflictStore applies a batch atomically and fails the insert at
// position failAt (1-based) when failAt > 0.
type txConflictStore struct {
	failAt    int
	committed []domain.ClaimConflict
	attempts  int
}

func (s *txConflictStore) CreateBatch(ctx context.Context, conflicts []*domain.ClaimConflict) error {
	s.attempts++
	var pending []domain.ClaimConflict
	for i, c := range conflicts {
		if i+1 == s.failAt {
			return errors.New("insert failed")
		}
		pending = append(pending, *c)
	}
	s.committed = append(s.committed, pending...)
	return nil
}

func (s *txConflictStore) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.ClaimConflict, error) {
	return s.committed, nil
}

func (m *MockConflictStore) ListBySubject(ctx context.Context, subjectID string, limit int) ([]domain.ClaimConflict, error) {
	args := m.Called(ctx, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ClaimConflict), args.Error(1)
}

// mapCache is an in-memory IndexCache.
type mapCache struct {
	buckets map[string][]domain.StoredCovariate
}

func newMapCache() *mapCache {
	return &mapCache{buckets: make(map[string][]domain.StoredCovariate)}
}

func (c *mapCache) Get(claimType string) ([]domain.StoredCovariate, bool) {
	b, ok := c.buckets[claimType]
	return b, ok
}

func (c *mapCache) Set(claimType string, bucket []domain.StoredCovariate) {
	c.buckets[claimType] = bucket
}

func (c *mapCache) Invalidate(claimType string) {
	delete(c.buckets, claimType)
}

func sampleIndex() domain.CovariateIndex {
	return domain.CovariateIndex{
		"claim": {
			stored("1", "A", attrs("B", "TRUE")),
			stored("2", "A", attrs("C", "TRUE")),
			stored("3", "A", attrs("B", "true")),
		},
	}
}

func TestConsistencyService_Check(t *testing.T) {
	svc := NewConsistencyService(newMockCovariateStore(sampleIndex()), zap.NewNop())

	res, err := svc.Check(context.Background(), &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: "FALSE"})
	require.NoError(t, err)
	assert.False(t, res.IsConsistent)
	require.Len(t, res.Conflicts, 2)
	assert.Equal(t, "1", res.Conflicts[0].ID)
	assert.Equal(t, "3", res.Conflicts[1].ID)
	assert.Equal(t, 0, res.Recorded)

	res, err = svc.Check(context.Background(), &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: "TRUE"})
	require.NoError(t, err)
	assert.True(t, res.IsConsistent)
	assert.Empty(t, res.Conflicts)
}

func TestConsistencyService_CheckInvalidClaim(t *testing.T) {
	cs := newMockCovariateStore(sampleIndex())
	svc := NewConsistencyService(cs, zap.NewNop())

	_, err := svc.Check(context.Background(), &domain.Claim{SubjectID: "A", Type: "claim"})
	assert.ErrorIs(t, err, ErrClaimObjectMissing)
	assert.Empty(t, cs.calls, "store should not be queried for an invalid claim")
}

func TestConsistencyService_StoreErrorPropagates(t *testing.T) {
	cs := newMockCovariateStore(nil)
	cs.err = errors.New("connection refused")
	svc := NewConsistencyService(cs, zap.NewNop())

	res, err := svc.Check(context.Background(), &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: "FALSE"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, cs.err)
	assert.Contains(t, err.Error(), `"claim"`)
}

func TestConsistencyService_UsesCache(t *testing.T) {
	cs := newMockCovariateStore(sampleIndex())
	cache := newMapCache()
	svc := NewConsistencyService(cs, zap.NewNop())
	svc.SetIndexCache(cache)

	claim := &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: "FALSE"}
	for i := 0; i < 3; i++ {
		res, err := svc.Check(context.Background(), claim)
		require.NoError(t, err)
		assert.Len(t, res.Conflicts, 2)
	}
	assert.Equal(t, 1, cs.calls["claim"])

	svc.Invalidate("claim")
	_, err := svc.Check(context.Background(), claim)
	require.NoError(t, err)
	assert.Equal(t, 2, cs.calls["claim"])
}

func TestConsistencyService_CachesUnknownTypeAsEmpty(t *testing.T) {
	cs := newMockCovariateStore(sampleIndex())
	cache := newMapCache()
	svc := NewConsistencyService(cs, zap.NewNop())
	svc.SetIndexCache(cache)

	claim := &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "other", Status: "FALSE"}
	res, err := svc.Check(context.Background(), claim)
	require.NoError(t, err)
	assert.True(t, res.IsConsistent)

	_, ok := cache.Get("other")
	assert.True(t, ok)
}

func TestConsistencyService_RecordsConflicts(t *testing.T) {
	conflicts := new(MockConflictStore)
	conflicts.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*domain.ClaimConflict")).Return(nil).Once()

	svc := NewConsistencyService(newMockCovariateStore(sampleIndex()), zap.NewNop())
	svc.SetConflictStore(conflicts)

	res, err := svc.Check(context.Background(), &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: " false"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Recorded)
	conflicts.AssertExpectations(t)

	batch := conflicts.Calls[0].Arguments.Get(1).([]*domain.ClaimConflict)
	require.Len(t, batch, 2)

	first := batch[0]
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Equal(t, "A", first.SubjectID)
	assert.Equal(t, "B", first.ObjectID)
	assert.Equal(t, "claim", first.ClaimType)
	assert.Equal(t, "1", first.CovariateID)
	assert.Equal(t, domain.StatusFalse, first.IncomingStatus)
	assert.Equal(t, domain.StatusTrue, first.StoredStatus)

	assert.Equal(t, "3", batch[1].CovariateID)
}

func TestConsistencyService_NoRecordWhenConsistent(t *testing.T) {
	conflicts := new(MockConflictStore)
	svc := NewConsistencyService(newMockCovariateStore(sampleIndex()), zap.NewNop())
	svc.SetConflictStore(conflicts)

	res, err := svc.Check(context.Background(), &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: "TRUE"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Recorded)
	conflicts.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestConsistencyService_RecordErrorPropagates(t *testing.T) {
	dbErr := errors.New("insert failed")
	conflicts := new(MockConflictStore)
	conflicts.On("CreateBatch", mock.Anything, mock.Anything).Return(dbErr).Once()

	svc := NewConsistencyService(newMockCovariateStore(sampleIndex()), zap.NewNop())
	svc.SetConflictStore(conflicts)

	res, err := svc.Check(context.Background(), &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: "FALSE"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dbErr)
	conflicts.AssertNumberOfCalls(t, "CreateBatch", 1)
}

func TestConsistencyService_PartialRecordFailurePersistsNothing(t *testing.T) {
	conflicts := &txConflictStore{failAt: 2}
	svc := NewConsistencyService(newMockCovariateStore(sampleIndex()), zap.NewNop())
	svc.SetConflictStore(conflicts)

	claim := &domain.Claim{SubjectID: "A", ObjectID: "B", Type: "claim", Status: "FALSE"}
	res, err := svc.Check(context.Background(), claim)
	assert.Nil(t, res)
	require.Error(t, err)
	assert.Equal(t, 1, conflicts.attempts, "conflicts are written in one batch")
	assert.Empty(t, conflicts.committed)

	conflicts.failAt = 0
	res, err = svc.Check(context.Background(), claim)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Recorded)
	assert.Len(t, conflicts.committed, 2, "a retry does not duplicate records")
}

func TestConsistencyService_ListConflicts(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := NewConsistencyService(newMockCovariateStore(nil), zap.NewNop())
		_, err := svc.ListConflicts(context.Background(), "A", 10)
		assert.ErrorIs(t, err, ErrConflictLogDisabled)
	})

	t.Run("missing subject", func(t *testing.T) {
		svc := NewConsistencyService(newMockCovariateStore(nil), zap.NewNop())
		svc.SetConflictStore(new(MockConflictStore))
		_, err := svc.ListConflicts(context.Background(), "", 10)
		assert.ErrorIs(t, err, ErrInvalidClaim)
	})

	t.Run("default limit", func(t *testing.T) {
		want := []domain.ClaimConflict{{ID: uuid.New(), SubjectID: "A", CovariateID: "1"}}
		conflicts := new(MockConflictStore)
		conflicts.On("ListBySubject", mock.Anything, "A", defaultConflictListLimit).Return(want, nil)

		svc := NewConsistencyService(newMockCovariateStore(nil), zap.NewNop())
		svc.SetConflictStore(conflicts)

		got, err := svc.ListConflicts(context.Background(), "A", 0)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		conflicts.AssertExpectations(t)
	})
}
