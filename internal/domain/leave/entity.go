package leave

import "time"

type Type string

const (
	TypeAnnual      Type = "annual"
	TypeSick        Type = "sick"
	TypePersonal    Type = "personal"
	TypeMaternity   Type = "maternity"
	TypePaternity   Type = "paternity"
	TypeBereavement Type = "bereavement"
	TypeOther       Type = "other"
)

var TypeValues = []string{
	string(TypeAnnual),
	string(TypeSick),
	string(TypePersonal),
	string(TypeMaternity),
	string(TypePaternity),
	string(TypeBereavement),
	string(TypeOther),
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusCancelled),
}

// Blocking reports whether a request in this status reserves its dates.
func (s Status) Blocking() bool {
	return s == StatusPending || s == StatusApproved
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

type HalfDayType string

const (
	HalfDayMorning   HalfDayType = "morning"
	HalfDayAfternoon HalfDayType = "afternoon"
)

var HalfDayTypeValues = []string{
	string(HalfDayMorning),
	string(HalfDayAfternoon),
}

type Comment struct {
	ID        string
	AuthorID  string
	Body      string
	CreatedAt time.Time
}

type LeaveRequest struct {
	ID          string
	EmployeeID  string
	Type        Type
	StartDate   time.Time
	EndDate     time.Time // inclusive
	Duration    float64   // days
	Reason      string
	Status      Status
	IsHalfDay   bool
	HalfDayType *HalfDayType

	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	Attachments     []string
	Comments        []Comment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// StatusTransition moves a pending request to a terminal status.
type StatusTransition struct {
	ID              string
	To              Status
	ActorID         string
	At              time.Time
	RejectionReason *string
}

func ParseType(s string) (Type, error) {
	for _, v := range TypeValues {
		if s == v {
			return Type(s), nil
		}
	}
	return "", ErrInvalidType
}
