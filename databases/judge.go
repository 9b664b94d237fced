package databases

// go generate: mockery --name JudgeDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/hearing-scheduler/models"
)

const judgeName = "judges"

// JudgeDatabase contains the methods to use with the judge roster database
type JudgeDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.JudgeRecord, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JudgeRecord, error)
	Upsert(ctx context.Context, j models.JudgeRecord) error
}

type judgeDatabase struct {
	db DatabaseHelper
}

// NewJudgeDatabase initializes a new instance of judge database with the provided db connection
func NewJudgeDatabase(db DatabaseHelper) JudgeDatabase {
	return &judgeDatabase{
		db: db,
	}
}

func (j *judgeDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.JudgeRecord, error) {
	judge := &models.JudgeRecord{}
	err := j.db.Collection(judgeName).FindOne(ctx, filter, opts...).Decode(&judge)
	if err != nil {
		return nil, err
	}
	return judge, nil
}

// Find returns the matching judges. Callers pass a sort on _id so the roster
// order, and with it the schedule, is stable between runs.
func (j *judgeDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.JudgeRecord, error) {
	var judges []models.JudgeRecord
	curr, err := j.db.Collection(judgeName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &judges)
	if err != nil {
		return nil, err
	}
	return judges, nil
}

// Upsert stores the judge keyed by id
func (j *judgeDatabase) Upsert(ctx context.Context, judge models.JudgeRecord) error {
	return j.db.Collection(judgeName).ReplaceOne(ctx, bson.M{"_id": judge.JudgeID}, judge, options.Replace().SetUpsert(true))
}
