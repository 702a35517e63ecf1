package session

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/audit"
	"github.com/nhom-do-an/ocm-admin-sub002/internal/domain/session"
)

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) Login(ctx context.Context, caller Caller, credentials Credentials) (*TokenPair, error) {
	args := m.Called(ctx, caller, credentials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TokenPair), args.Error(1)
}

func (m *MockAuthClient) GetProfile(ctx context.Context, caller Caller) (*session.User, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.User), args.Error(1)
}

type MockStoreClient struct {
	mock.Mock
}

func (m *MockStoreClient) CheckStore(ctx context.Context, caller Caller) error {
	return m.Called(ctx, caller).Error(0)
}

type MockChannelClient struct {
	mock.Mock
}

func (m *MockChannelClient) GetPublications(ctx context.Context, caller Caller) ([]session.Publication, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]session.Publication), args.Error(1)
}

type MockRevocations struct {
	mock.Mock
}

func (m *MockRevocations) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevocations) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Record(ctx context.Context, event *audit.AuthEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepository) FindRecent(ctx context.Context, filter audit.Filter) ([]audit.AuthEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.AuthEvent), args.Error(1)
}

// memTokens is an in-memory TokenStore
type memTokens struct {
	values map[string]string
	setErr error
}

func newMemTokens(kv ...string) *memTokens {
	t := &memTokens{values: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		t.values[kv[i]] = kv[i+1]
	}
	return t
}

func (t *memTokens) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok && v != ""
}

func (t *memTokens) Set(key, value string) error {
	if t.setErr != nil {
		return t.setErr
	}
	t.values[key] = value
	return nil
}

func (t *memTokens) Remove(key string) {
	delete(t.values, key)
}

type recordedBootstrap struct {
	outcome string
	elapsed time.Duration
}

type recordingMetrics struct {
	mu   sync.Mutex
	runs []recordedBootstrap
}

func (r *recordingMetrics) RecordBootstrap(_ context.Context, outcome string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, recordedBootstrap{outcome: outcome, elapsed: elapsed})
}

func (r *recordingMetrics) outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run.outcome)
	}
	return out
}
