package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type commentDocument struct {
	ID        string    `bson:"id"`
	AuthorID  string    `bson:"author_id"`
	Body      string    `bson:"body"`
	CreatedAt time.Time `bson:"created_at"`
}

type leaveRequestDocument struct {
	ID              string            `bson:"_id"`
	EmployeeID      string            `bson:"employee_id"`
	Type            string            `bson:"leave_type"`
	StartDate       time.Time         `bson:"start_date"`
	EndDate         time.Time         `bson:"end_date"`
	Duration        float64           `bson:"duration"`
	Reason          string            `bson:"reason"`
	Status          string            `bson:"status"`
	IsHalfDay       bool              `bson:"is_half_day"`
	HalfDayType     *string           `bson:"half_day_type,omitempty"`
	ApprovedBy      *string           `bson:"approved_by,omitempty"`
	ApprovedAt      *time.Time        `bson:"approved_at,omitempty"`
	RejectionReason *string           `bson:"rejection_reason,omitempty"`
	Attachments     []string          `bson:"attachments"`
	Comments        []commentDocument `bson:"comments"`
	CreatedAt       time.Time         `bson:"created_at"`
	UpdatedAt       time.Time         `bson:"updated_at"`
}

func newLeaveRequestDocument(r leave.LeaveRequest) leaveRequestDocument {
	doc := leaveRequestDocument{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            string(r.Type),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Duration:        r.Duration,
		Reason:          r.Reason,
		Status:          string(r.Status),
		IsHalfDay:       r.IsHalfDay,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		Attachments:     append([]string{}, r.Attachments...),
		Comments:        make([]commentDocument, 0, len(r.Comments)),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.HalfDayType != nil {
		h := string(*r.HalfDayType)
		doc.HalfDayType = &h
	}
	for _, c := range r.Comments {
		doc.Comments = append(doc.Comments, commentDocument(c))
	}
	return doc
}

func (d leaveRequestDocument) toDomain() leave.LeaveRequest {
	r := leave.LeaveRequest{
		ID:              d.ID,
		EmployeeID:      d.EmployeeID,
		Type:            leave.Type(d.Type),
		StartDate:       d.StartDate,
		EndDate:         d.EndDate,
		Duration:        d.Duration,
		Reason:          d.Reason,
		Status:          leave.Status(d.Status),
		IsHalfDay:       d.IsHalfDay,
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
		RejectionReason: d.RejectionReason,
		Attachments:     d.Attachments,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.HalfDayType != nil {
		h := leave.HalfDayType(*d.HalfDayType)
		r.HalfDayType = &h
	}
	for _, c := range d.Comments {
		r.Comments = append(r.Comments, leave.Comment(c))
	}
	return r
}

type leaveRequestRepository struct {
	coll      *mongo.Collection
	employees *mongo.Collection
}

func NewLeaveRequestRepository(m *database.MongoDB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{
		coll:      m.Database.Collection(leaveRequestsCollection),
		employees: m.Database.Collection(employeesCollection),
	}
}

func (r *leaveRequestRepository) find(ctx context.Context, filter bson.M) ([]leave.LeaveRequest, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find leave requests: %w", err)
	}

	var docs []leaveRequestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode leave requests: %w", err)
	}

	out := make([]leave.LeaveRequest, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	now := time.Now().UTC()
	request.ID = newID()
	request.CreatedAt, request.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, newLeaveRequestDocument(request)); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var doc leaveRequestDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	return doc.toDomain(), nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	query := bson.M{}
	if filter.EmployeeID != nil {
		query["employee_id"] = *filter.EmployeeID
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if filter.Type != nil {
		query["leave_type"] = string(*filter.Type)
	}
	if filter.From != nil {
		query["end_date"] = bson.M{"$gte": *filter.From}
	}
	if filter.To != nil {
		query["start_date"] = bson.M{"$lte": *filter.To}
	}
	return r.find(ctx, query)
}

// FindOverlapCandidates implements leave.OverlapFinder. Inside a session it
// first writes the employee's lock field, so two transactions checking the
// same employee conflict and one of them retries.
func (r *leaveRequestRepository) FindOverlapCandidates(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	if inSession(ctx) {
		if err := lockEmployeeLeave(ctx, r.employees, employeeID); err != nil {
			return nil, err
		}
	}

	return r.find(ctx, bson.M{
		"employee_id": employeeID,
		"status":      bson.M{"$in": bson.A{string(leave.StatusPending), string(leave.StatusApproved)}},
		"start_date":  bson.M{"$lte": end},
		"end_date":    bson.M{"$gte": start},
	})
}

// TransitionStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) TransitionStatus(ctx context.Context, t leave.StatusTransition) error {
	set := bson.M{
		"status":     string(t.To),
		"updated_at": t.At,
	}
	if t.To == leave.StatusApproved || t.To == leave.StatusRejected {
		set["approved_by"] = t.ActorID
		set["approved_at"] = t.At
		if t.RejectionReason != nil {
			set["rejection_reason"] = *t.RejectionReason
		}
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": t.ID, "status": string(leave.StatusPending)},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": t.ID})
	if err != nil {
		return fmt.Errorf("failed to check leave request: %w", err)
	}
	if n == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return leave.ErrLeaveRequestAlreadyProcessed
}

// AddComment implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) AddComment(ctx context.Context, requestID string, c leave.Comment) error {
	if c.ID == "" {
		c.ID = newID()
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": requestID}, bson.M{
		"$push": bson.M{"comments": commentDocument(c)},
		"$set":  bson.M{"updated_at": c.CreatedAt},
	})
	if err != nil {
		return fmt.Errorf("failed to add leave comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
