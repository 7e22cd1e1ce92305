package ingestion

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cmmps/nppx-loader/internal/database"
	"github.com/cmmps/nppx-loader/internal/models"
)

// MockSink is a testify mock of the database.Sink interface.
type MockSink struct {
	mock.Mock
}

func (m *MockSink) FindWholesalerByName(ctx context.Context, name string) (*models.Wholesaler, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wholesaler), args.Error(1)
}

func (m *MockSink) CreatePosting(ctx context.Context, posting *models.Posting) (string, error) {
	args := m.Called(ctx, posting)
	return args.String(0), args.Error(1)
}

func (m *MockSink) SavePrice(ctx context.Context, record *models.PriceRecord, session database.Session) error {
	args := m.Called(ctx, record, session)
	return args.Error(0)
}

func (m *MockSink) StartSession(ctx context.Context) (database.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(database.Session), args.Error(1)
}

// FakeSession tracks transaction state the way a real session does and
// records the sequence of commits for cadence assertions.
type FakeSession struct {
	active    bool
	closed    bool
	Commits   int
	Begins    int
	Rollbacks int
	CommitErr error
	BeginErr  error
	CloseErr  error
}

func NewFakeSession() *FakeSession {
	// sessions start with a transaction already open
	return &FakeSession{active: true}
}

func (s *FakeSession) Begin(ctx context.Context) error {
	if s.BeginErr != nil {
		return s.BeginErr
	}
	s.Begins++
	s.active = true
	return nil
}

func (s *FakeSession) Commit(ctx context.Context) error {
	if s.CommitErr != nil {
		return s.CommitErr
	}
	s.Commits++
	s.active = false
	return nil
}

func (s *FakeSession) Rollback(ctx context.Context) error {
	s.Rollbacks++
	s.active = false
	return nil
}

func (s *FakeSession) Active() bool {
	return s.active
}

func (s *FakeSession) Close(ctx context.Context) error {
	s.closed = true
	return s.CloseErr
}
