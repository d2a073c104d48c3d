package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type punchDocument struct {
	Time     time.Time `bson:"time"`
	Method   string    `bson:"method"`
	Location *string   `bson:"location,omitempty"`
}

func newPunchDocument(p attendance.Punch) punchDocument {
	return punchDocument{Time: p.Time, Method: string(p.Method), Location: p.Location}
}

func (d punchDocument) toDomain() attendance.Punch {
	return attendance.Punch{Time: d.Time, Method: attendance.Method(d.Method), Location: d.Location}
}

type attendanceDocument struct {
	ID                string         `bson:"_id"`
	EmployeeID        string         `bson:"employee_id"`
	Date              time.Time      `bson:"date"`
	CheckIn           punchDocument  `bson:"check_in"`
	CheckOut          *punchDocument `bson:"check_out"`
	ShiftID           *string        `bson:"shift_id,omitempty"`
	TotalHours        float64        `bson:"total_hours"`
	OvertimeHours     float64        `bson:"overtime_hours"`
	LateMinutes       int            `bson:"late_minutes"`
	EarlyLeaveMinutes int            `bson:"early_leave_minutes"`
	Status            string         `bson:"status"`
	Notes             *string        `bson:"notes,omitempty"`
	ApprovedBy        *string        `bson:"approved_by,omitempty"`
	ApprovedAt        *time.Time     `bson:"approved_at,omitempty"`
	CreatedAt         time.Time      `bson:"created_at"`
	UpdatedAt         time.Time      `bson:"updated_at"`
}

func newAttendanceDocument(a attendance.Attendance) attendanceDocument {
	doc := attendanceDocument{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		Date:              attendance.CalendarDate(a.Date),
		CheckIn:           newPunchDocument(a.CheckIn),
		ShiftID:           a.ShiftID,
		TotalHours:        a.TotalHours,
		OvertimeHours:     a.OvertimeHours,
		LateMinutes:       a.LateMinutes,
		EarlyLeaveMinutes: a.EarlyLeaveMinutes,
		Status:            string(a.Status),
		Notes:             a.Notes,
		ApprovedBy:        a.ApprovedBy,
		ApprovedAt:        a.ApprovedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.CheckOut != nil {
		out := newPunchDocument(*a.CheckOut)
		doc.CheckOut = &out
	}
	return doc
}

func (d attendanceDocument) toDomain() attendance.Attendance {
	a := attendance.Attendance{
		ID:                d.ID,
		EmployeeID:        d.EmployeeID,
		Date:              d.Date,
		CheckIn:           d.CheckIn.toDomain(),
		ShiftID:           d.ShiftID,
		TotalHours:        d.TotalHours,
		OvertimeHours:     d.OvertimeHours,
		LateMinutes:       d.LateMinutes,
		EarlyLeaveMinutes: d.EarlyLeaveMinutes,
		Status:            attendance.Status(d.Status),
		Notes:             d.Notes,
		ApprovedBy:        d.ApprovedBy,
		ApprovedAt:        d.ApprovedAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.CheckOut != nil {
		out := d.CheckOut.toDomain()
		a.CheckOut = &out
	}
	return a
}

type attendanceRepository struct {
	coll *mongo.Collection
}

func NewAttendanceRepository(m *database.MongoDB) attendance.AttendanceRepository {
	return &attendanceRepository{coll: m.Database.Collection(attendancesCollection)}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	now := time.Now().UTC()
	a.ID = newID()
	a.CreatedAt, a.UpdatedAt = now, now

	if _, err := r.coll.InsertOne(ctx, newAttendanceDocument(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) findOne(ctx context.Context, filter bson.M) (attendance.Attendance, error) {
	var doc attendanceDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return doc.toDomain(), nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	return r.findOne(ctx, bson.M{"employee_id": employeeID, "date": attendance.CalendarDate(date)})
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	query := bson.M{}
	if filter.EmployeeID != nil {
		query["employee_id"] = *filter.EmployeeID
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = attendance.CalendarDate(*filter.From)
	}
	if filter.To != nil {
		dateRange["$lte"] = attendance.CalendarDate(*filter.To)
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "employee_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode attendance: %w", err)
	}

	out := make([]attendance.Attendance, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) RecordCheckOut(ctx context.Context, a attendance.Attendance) error {
	if a.CheckOut == nil {
		return fmt.Errorf("record check-out: missing check-out punch")
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": a.ID, "check_out": nil},
		bson.M{"$set": bson.M{
			"check_out":           newPunchDocument(*a.CheckOut),
			"total_hours":         a.TotalHours,
			"overtime_hours":      a.OvertimeHours,
			"late_minutes":        a.LateMinutes,
			"early_leave_minutes": a.EarlyLeaveMinutes,
			"status":              string(a.Status),
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to record check-out: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": a.ID})
	if err != nil {
		return fmt.Errorf("failed to check attendance: %w", err)
	}
	if n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return attendance.ErrAlreadyCheckedOut
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	doc := newAttendanceDocument(a)
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": bson.M{
		"check_in":            doc.CheckIn,
		"check_out":           doc.CheckOut,
		"shift_id":            doc.ShiftID,
		"total_hours":         doc.TotalHours,
		"overtime_hours":      doc.OvertimeHours,
		"late_minutes":        doc.LateMinutes,
		"early_leave_minutes": doc.EarlyLeaveMinutes,
		"status":              doc.Status,
		"notes":               doc.Notes,
		"approved_by":         doc.ApprovedBy,
		"approved_at":         doc.ApprovedAt,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if res.MatchedCount == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
