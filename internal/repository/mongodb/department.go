package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/department"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type departmentDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description *string   `bson:"description,omitempty"`
	ManagerID   *string   `bson:"manager_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d departmentDocument) toDomain() department.Department {
	return department.Department(d)
}

type departmentRepository struct {
	coll *mongo.Collection
}

func NewDepartmentRepository(m *database.MongoDB) department.DepartmentRepository {
	return &departmentRepository{coll: m.Database.Collection(departmentsCollection)}
}

// Create implements department.DepartmentRepository.
func (r *departmentRepository) Create(ctx context.Context, d department.Department) (department.Department, error) {
	now := time.Now().UTC()
	d.ID = newID()
	d.CreatedAt, d.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, departmentDocument(d)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return department.Department{}, department.ErrDepartmentNameExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return d, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepository) GetByID(ctx context.Context, id string) (department.Department, error) {
	var doc departmentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department by id: %w", err)
	}
	return doc.toDomain(), nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepository) List(ctx context.Context) ([]department.Department, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	var docs []departmentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode departments: %w", err)
	}

	out := make([]department.Department, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
