package mocks

import (
	context "context"

	models "github.com/linesmerrill/hearing-scheduler/models"
	mock "github.com/stretchr/testify/mock"

	options "go.mongodb.org/mongo-driver/mongo/options"
)

// CaseDatabase is a mock type for the CaseDatabase type
type CaseDatabase struct {
	mock.Mock
}

// CountDocuments provides a mock function with given fields: ctx, filter, opts
func (_m *CaseDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, len(opts), func(i int) interface{} { return opts[i] })...)

	return ret.Get(0).(int64), ret.Error(1)
}

// DeleteOne provides a mock function with given fields: ctx, filter, opts
func (_m *CaseDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, len(opts), func(i int) interface{} { return opts[i] })...)

	return ret.Error(0)
}

// Find provides a mock function with given fields: ctx, filter, opts
func (_m *CaseDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.CaseRecord, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, len(opts), func(i int) interface{} { return opts[i] })...)

	var r0 []models.CaseRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.CaseRecord)
	}

	return r0, ret.Error(1)
}

// FindOne provides a mock function with given fields: ctx, filter, opts
func (_m *CaseDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.CaseRecord, error) {
	ret := _m.Called(variadic([]interface{}{ctx, filter}, len(opts), func(i int) interface{} { return opts[i] })...)

	var r0 *models.CaseRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CaseRecord)
	}

	return r0, ret.Error(1)
}

// Upsert provides a mock function with given fields: ctx, c
func (_m *CaseDatabase) Upsert(ctx context.Context, c models.CaseRecord) error {
	ret := _m.Called(ctx, c)

	return ret.Error(0)
}
