package attendance

import "context"

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)
	Amend(ctx context.Context, req AmendAttendanceRequest) (AttendanceResponse, error)
	Get(ctx context.Context, id string) (AttendanceResponse, error)
	ListMine(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)
}
