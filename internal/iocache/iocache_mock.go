package iocache

import (
	"github.com/stretchr/testify/mock"

	"github.com/Stephen-Collins-tech/hotspots-sub001/internal/contract"
	"github.com/Stephen-Collins-tech/hotspots-sub001/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetChurnStore implements the CacheManager interface.
func (m *MockCacheManager) GetChurnStore() contract.ChurnStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ChurnStore)
	return store
}

// GetSnapshotStore implements the CacheManager interface.
func (m *MockCacheManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockChurnStore is a mock implementation of ChurnStore for testing.
type MockChurnStore struct {
	mock.Mock
}

var _ contract.ChurnStore = &MockChurnStore{} // Compile-time check

// Get implements the ChurnStore interface.
func (m *MockChurnStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	return args.Get(0).([]byte), args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the ChurnStore interface.
func (m *MockChurnStore) Set(key string, value []byte, version int, timestamp int64) error {
	args := m.Called(key, value, version, timestamp)
	return args.Error(0)
}

// GetStatus implements the ChurnStore interface.
func (m *MockChurnStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the ChurnStore interface.
func (m *MockChurnStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Put implements the SnapshotStore interface.
func (m *MockSnapshotStore) Put(snapshot *schema.Snapshot) error {
	args := m.Called(snapshot)
	return args.Error(0)
}

// Get implements the SnapshotStore interface.
func (m *MockSnapshotStore) Get(commitSHA string) (*schema.Snapshot, error) {
	args := m.Called(commitSHA)
	snap, _ := args.Get(0).(*schema.Snapshot)
	return snap, args.Error(1)
}

// List implements the SnapshotStore interface.
func (m *MockSnapshotStore) List() ([]schema.SnapshotMeta, error) {
	args := m.Called()
	metas, _ := args.Get(0).([]schema.SnapshotMeta)
	return metas, args.Error(1)
}

// Delete implements the SnapshotStore interface.
func (m *MockSnapshotStore) Delete(commitSHA string) error {
	args := m.Called(commitSHA)
	return args.Error(0)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
