package mocks

import (
	context "context"
	time "time"

	mock "github.com/stretchr/testify/mock"
)

// SchedulerLockDatabase is a mock type for the SchedulerLockDatabase type
type SchedulerLockDatabase struct {
	mock.Mock
}

// ReleaseLock provides a mock function with given fields: ctx, job, owner
func (_m *SchedulerLockDatabase) ReleaseLock(ctx context.Context, job string, owner string) error {
	ret := _m.Called(ctx, job, owner)

	return ret.Error(0)
}

// TryAcquireLock provides a mock function with given fields: ctx, job, owner, ttl
func (_m *SchedulerLockDatabase) TryAcquireLock(ctx context.Context, job string, owner string, ttl time.Duration) (bool, error) {
	ret := _m.Called(ctx, job, owner, ttl)

	return ret.Bool(0), ret.Error(1)
}
