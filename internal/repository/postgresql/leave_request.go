package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	id, employee_id, leave_type, start_date, end_date, duration, reason, status,
	is_half_day, half_day_type, approved_by, approved_at, rejection_reason,
	attachments, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		r           leave.LeaveRequest
		leaveType   string
		status      string
		halfDayType *string
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &leaveType, &r.StartDate, &r.EndDate, &r.Duration, &r.Reason, &status,
		&r.IsHalfDay, &halfDayType, &r.ApprovedBy, &r.ApprovedAt, &r.RejectionReason,
		&r.Attachments, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	r.Type = leave.Type(leaveType)
	r.Status = leave.Status(status)
	if halfDayType != nil {
		h := leave.HalfDayType(*halfDayType)
		r.HalfDayType = &h
	}
	return r, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// comments loads comments for the given requests, oldest first.
func (r *leaveRequestRepository) comments(ctx context.Context, ids []string) (map[string][]leave.Comment, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, leave_request_id, author_id, body, created_at
		FROM leave_comments
		WHERE leave_request_id = ANY($1)
		ORDER BY created_at, id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave comments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]leave.Comment, len(ids))
	for rows.Next() {
		var (
			c         leave.Comment
			requestID string
		)
		if err := rows.Scan(&c.ID, &requestID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave comment: %w", err)
		}
		out[requestID] = append(out[requestID], c)
	}
	return out, rows.Err()
}

func (r *leaveRequestRepository) withComments(ctx context.Context, requests []leave.LeaveRequest) error {
	if len(requests) == 0 {
		return nil
	}
	ids := make([]string, len(requests))
	for i := range requests {
		ids[i] = requests[i].ID
	}
	comments, err := r.comments(ctx, ids)
	if err != nil {
		return err
	}
	for i := range requests {
		requests[i].Comments = comments[requests[i].ID]
	}
	return nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	request.ID = newID()
	if request.Attachments == nil {
		request.Attachments = []string{}
	}
	var halfDayType *string
	if request.HalfDayType != nil {
		h := string(*request.HalfDayType)
		halfDayType = &h
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, start_date, end_date, duration, reason,
			status, is_half_day, half_day_type, attachments
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		string(request.Type),
		request.StartDate,
		request.EndDate,
		request.Duration,
		request.Reason,
		string(request.Status),
		request.IsHalfDay,
		halfDayType,
		request.Attachments,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	request, err := scanLeaveRequest(q.QueryRow(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}

	requests := []leave.LeaveRequest{request}
	if err := r.withComments(ctx, requests); err != nil {
		return leave.LeaveRequest{}, err
	}
	return requests[0], nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.Type != nil {
		baseWhere += fmt.Sprintf(" AND leave_type = $%d", argIdx)
		args = append(args, string(*filter.Type))
		argIdx++
	}
	if filter.From != nil {
		baseWhere += fmt.Sprintf(" AND end_date >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		baseWhere += fmt.Sprintf(" AND start_date <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s FROM leave_requests %s ORDER BY start_date DESC`, leaveRequestColumns, baseWhere)
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	requests, err := collectLeaveRequests(rows)
	if err != nil {
		return nil, err
	}
	if err := r.withComments(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FindOverlapCandidates implements leave.OverlapFinder. Inside a transaction
// it first takes an advisory lock on the employee, so concurrent submissions
// and approvals for one employee run their overlap checks one at a time.
func (r *leaveRequestRepository) FindOverlapCandidates(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if _, inTx := database.TxFromContext(ctx); inTx {
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID); err != nil {
			return nil, fmt.Errorf("failed to lock employee leave: %w", err)
		}
	}

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status IN ('pending', 'approved')
		  AND start_date <= $3
		  AND end_date >= $2
	`
	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping leave: %w", err)
	}
	return collectLeaveRequests(rows)
}

func (r *leaveRequestRepository) exists(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var found bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check leave request: %w", err)
	}
	return found, nil
}

// TransitionStatus implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) TransitionStatus(ctx context.Context, t leave.StatusTransition) error {
	q := GetQuerier(ctx, r.db)

	var (
		tag pgconn.CommandTag
		err error
	)
	if t.To == leave.StatusApproved || t.To == leave.StatusRejected {
		tag, err = q.Exec(ctx, `
			UPDATE leave_requests
			SET status = $2, approved_by = $3, approved_at = $4, rejection_reason = $5, updated_at = $4
			WHERE id = $1 AND status = 'pending'
		`, t.ID, string(t.To), t.ActorID, t.At, t.RejectionReason)
	} else {
		tag, err = q.Exec(ctx, `
			UPDATE leave_requests
			SET status = $2, updated_at = $3
			WHERE id = $1 AND status = 'pending'
		`, t.ID, string(t.To), t.At)
	}
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	found, err := r.exists(ctx, t.ID)
	if err != nil {
		return err
	}
	if !found {
		return leave.ErrLeaveRequestNotFound
	}
	return leave.ErrLeaveRequestAlreadyProcessed
}

// AddComment implements leave.LeaveRequestRepository.
func (r *leaveRequestRepository) AddComment(ctx context.Context, requestID string, c leave.Comment) error {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = newID()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO leave_comments (id, leave_request_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, requestID, c.AuthorID, c.Body, c.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return leave.ErrLeaveRequestNotFound
		}
		return fmt.Errorf("failed to add leave comment: %w", err)
	}
	return nil
}
