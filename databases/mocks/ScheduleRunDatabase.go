package mocks

import (
	context "context"

	databases "github.com/linesmerrill/hearing-scheduler/databases"
	models "github.com/linesmerrill/hearing-scheduler/models"
	mock "github.com/stretchr/testify/mock"

	options "go.mongodb.org/mongo-driver/mongo/options"
)

// ScheduleRunDatabase is a mock type for the ScheduleRunDatabase type
type ScheduleRunDatabase struct {
	mock.Mock
}

// FindLatest provides a mock function with given fields: ctx, limit
func (_m *ScheduleRunDatabase) FindLatest(ctx context.Context, limit int64) ([]models.ScheduleRun, error) {
	ret := _m.Called(ctx, limit)

	var r0 []models.ScheduleRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.ScheduleRun)
	}

	return r0, ret.Error(1)
}

// FindOne provides a mock function with given fields: ctx, filter, opts
func (_m *ScheduleRunDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.ScheduleRun, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, len(opts), func(i int) interface{} { return opts[i] })...)

	var r0 *models.ScheduleRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ScheduleRun)
	}

	return r0, ret.Error(1)
}

// InsertOne provides a mock function with given fields: ctx, run
func (_m *ScheduleRunDatabase) InsertOne(ctx context.Context, run models.ScheduleRun) (databases.InsertOneResultHelper, error) {
	ret := _m.Called(ctx, run)

	var r0 databases.InsertOneResultHelper
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(databases.InsertOneResultHelper)
	}

	return r0, ret.Error(1)
}
