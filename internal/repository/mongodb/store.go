// Package mongodb stores every aggregate in MongoDB. Uniqueness rules are
// unique indexes and conditional writes are single-document filters, so the
// same guarantees hold as with the PostgreSQL driver. Transactions need a
// replica set.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	departmentsCollection   = "departments"
	shiftsCollection        = "shifts"
	employeesCollection     = "employees"
	attendancesCollection   = "attendances"
	leaveRequestsCollection = "leave_requests"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// EnsureIndexes creates the indexes the repositories rely on.
func EnsureIndexes(ctx context.Context, m *database.MongoDB) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		departmentsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		shiftsCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		},
		employeesCollection: {
			{Keys: bson.D{{Key: "employee_code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "shift_id", Value: 1}}},
		},
		attendancesCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "date", Value: -1}}},
		},
		leaveRequestsCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_date", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := m.Database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	slog.Info("MongoDB indexes ensured", "database", m.Database.Name())
	return nil
}

// Transactor implements database.Transactor with a session transaction.
// Nested calls join the session already carried by ctx.
type Transactor struct {
	client *mongo.Client
}

func NewTransactor(m *database.MongoDB) *Transactor {
	return &Transactor{client: m.Client}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func inSession(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
