package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/shift"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type shiftDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	StartTime    string    `bson:"start_time"`
	EndTime      string    `bson:"end_time"`
	BreakMinutes int       `bson:"break_minutes"`
	TotalHours   float64   `bson:"total_hours"`
	IsActive     bool      `bson:"is_active"`
	DepartmentID *string   `bson:"department_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type shiftRepository struct {
	coll *mongo.Collection
}

func NewShiftRepository(m *database.MongoDB) shift.ShiftRepository {
	return &shiftRepository{coll: m.Database.Collection(shiftsCollection)}
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	now := time.Now().UTC()
	s.ID = newID()
	s.CreatedAt, s.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, shiftDocument(s)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shift.Shift{}, shift.ErrShiftNameExists
		}
		return shift.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return s, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	var doc shiftDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by id: %w", err)
	}
	return shift.Shift(doc), nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context, activeOnly bool) ([]shift.Shift, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	var docs []shiftDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode shifts: %w", err)
	}

	out := make([]shift.Shift, 0, len(docs))
	for _, doc := range docs {
		out = append(out, shift.Shift(doc))
	}
	return out, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": bson.M{
		"name":          s.Name,
		"start_time":    s.StartTime,
		"end_time":      s.EndTime,
		"break_minutes": s.BreakMinutes,
		"total_hours":   s.TotalHours,
		"is_active":     s.IsActive,
		"department_id": s.DepartmentID,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return shift.ErrShiftNameExists
		}
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if res.MatchedCount == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if res.DeletedCount == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}
