package mocks

import (
	context "context"

	models "github.com/linesmerrill/hearing-scheduler/models"
	mock "github.com/stretchr/testify/mock"

	options "go.mongodb.org/mongo-driver/mongo/options"
)

// JudgeDatabase is a mock type for the JudgeDatabase type
type JudgeDatabase struct {
	mock.Mock
}

// Find provides a mock function with given fields: ctx, filter, opts
func (_m *JudgeDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JudgeRecord, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, len(opts), func(i int) interface{} { return opts[i] })...)

	var r0 []models.JudgeRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.JudgeRecord)
	}

	return r0, ret.Error(1)
}

// FindOne provides a mock function with given fields: ctx, filter, opts
func (_m *JudgeDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.JudgeRecord, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, len(opts), func(i int) interface{} { return opts[i] })...)

	var r0 *models.JudgeRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.JudgeRecord)
	}

	return r0, ret.Error(1)
}

// Upsert provides a mock function with given fields: ctx, j
func (_m *JudgeDatabase) Upsert(ctx context.Context, j models.JudgeRecord) error {
	ret := _m.Called(ctx, j)

	return ret.Error(0)
}
