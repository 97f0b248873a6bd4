package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CodeXGautam/Vocintera/internal/models"
	"github.com/CodeXGautam/Vocintera/internal/repositories"
)

// InterviewRepo wraps the interviews collection.
type InterviewRepo struct{ col *mongo.Collection }

// NewInterviewRepo ensures an index on the owner and returns the repo.
func NewInterviewRepo(db *mongo.Database) *InterviewRepo {
	col := db.Collection("interviews")
	r := &InterviewRepo{col: col}

	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "candidate", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	return r
}

// Create inserts a new interview session.
func (r *InterviewRepo) Create(ctx context.Context, session *models.Interview) (*models.Interview, error) {
	now := time.Now().UTC()
	session.CreatedAt, session.UpdatedAt = now, now
	if session.Conversation == nil {
		session.Conversation = []models.Turn{}
	}

	result, err := r.col.InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = id
	}
	return session, nil
}

func (r *InterviewRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Interview, error) {
	var session models.Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AppendTurns appends turns to the conversation in the given order. The
// append is a single atomic $push so the candidate/interviewer pair of a
// turn exchange is never interleaved with another request's writes.
func (r *InterviewRepo) AppendTurns(ctx context.Context, id primitive.ObjectID, turns ...models.Turn) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"interviewHistory": bson.M{"$each": turns}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// SetCompleted marks the session ended. Calling it again simply overwrites
// the timestamp and flags.
func (r *InterviewRepo) SetCompleted(ctx context.Context, id primitive.ObjectID, completedAt time.Time, manual bool) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":      true,
			"completedAt": completedAt,
			"manualEnd":   manual,
			"updatedAt":   time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *InterviewRepo) SetEvaluation(ctx context.Context, id primitive.ObjectID, eval *models.Evaluation, at time.Time) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"evaluation":  eval,
			"evaluatedAt": at,
			"updatedAt":   time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ListByOwner returns the owner's sessions newest first by creation time.
// A limit of 0 returns all of them.
func (r *InterviewRepo) ListByOwner(ctx context.Context, owner primitive.ObjectID, limit int64) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{"candidate": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Interview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEvaluatedByOwner returns completed, evaluated sessions newest first
// by evaluation time.
func (r *InterviewRepo) ListEvaluatedByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Interview, error) {
	filter := bson.M{
		"candidate":  owner,
		"status":     true,
		"evaluation": bson.M{"$exists": true},
	}
	opts := options.Find().SetSort(bson.D{{Key: "evaluatedAt", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Interview{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InterviewRepo) GetEvaluatedForOwner(ctx context.Context, id, owner primitive.ObjectID) (*models.Interview, error) {
	filter := bson.M{
		"_id":        id,
		"candidate":  owner,
		"status":     true,
		"evaluation": bson.M{"$exists": true},
	}

	var session models.Interview
	err := r.col.FindOne(ctx, filter).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByIDs removes the given sessions. Already deleted ids are simply
// not matched, so repeated sweeps are safe.
func (r *InterviewRepo) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Owners returns the distinct candidates that own at least one session.
func (r *InterviewRepo) Owners(ctx context.Context) ([]primitive.ObjectID, error) {
	values, err := r.col.Distinct(ctx, "candidate", bson.D{})
	if err != nil {
		return nil, err
	}

	owners := make([]primitive.ObjectID, 0, len(values))
	for _, value := range values {
		if id, ok := value.(primitive.ObjectID); ok {
			owners = append(owners, id)
		}
	}
	return owners, nil
}
