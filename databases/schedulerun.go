package databases

// go generate: mockery --name ScheduleRunDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/hearing-scheduler/models"
)

const scheduleRunName = "scheduleruns"

// ScheduleRunDatabase contains the methods to use with the schedule run database
type ScheduleRunDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.ScheduleRun, error)
	FindLatest(ctx context.Context, limit int64) ([]models.ScheduleRun, error)
	InsertOne(ctx context.Context, run models.ScheduleRun) (InsertOneResultHelper, error)
}

type scheduleRunDatabase struct {
	db DatabaseHelper
}

// NewScheduleRunDatabase initializes a new instance of schedule run database with the provided db connection
func NewScheduleRunDatabase(db DatabaseHelper) ScheduleRunDatabase {
	return &scheduleRunDatabase{
		db: db,
	}
}

func (s *scheduleRunDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.ScheduleRun, error) {
	run := &models.ScheduleRun{}
	err := s.db.Collection(scheduleRunName).FindOne(ctx, filter, opts...).Decode(&run)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindLatest returns the most recent runs, newest first
func (s *scheduleRunDatabase) FindLatest(ctx context.Context, limit int64) ([]models.ScheduleRun, error) {
	var runs []models.ScheduleRun
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	curr, err := s.db.Collection(scheduleRunName).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	if err = curr.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *scheduleRunDatabase) InsertOne(ctx context.Context, run models.ScheduleRun) (InsertOneResultHelper, error) {
	return s.db.Collection(scheduleRunName).InsertOne(ctx, run)
}
