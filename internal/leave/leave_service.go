package leave

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
	leaveerrors "leavedesk/internal/leave/errors"
	"leavedesk/internal/shared/apperror"
	"leavedesk/internal/shared/response"
)

const (
	dateLayout   = "2006-01-02"
	reasonMin    = 10
	reasonMax    = 500
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type Service interface {
	// Apply validates the request in a fixed order (role, leave type,
	// dates, reason) and returns the first failure. The stored status is
	// always Pending, whatever the caller sends.
	Apply(ctx context.Context, caller domain.Caller, req ApplyLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, caller domain.Caller, q ListQuery) ([]LeaveResponse, response.Pagination, error)
	ListAll(ctx context.Context, caller domain.Caller, q ListQuery) ([]LeaveResponse, response.Pagination, error)
	DashboardStats(ctx context.Context, caller domain.Caller) (DashboardStats, error)
	Approve(ctx context.Context, caller domain.Caller, id string) (LeaveResponse, error)
	Reject(ctx context.Context, caller domain.Caller, id string) (LeaveResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	profiles employee.Service
	logger   *zap.Logger
	stats    singleflight.Group
}

func NewService(db *gorm.DB, repo Repository, profiles employee.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, profiles: profiles, logger: l}
}

func (s *service) Apply(ctx context.Context, caller domain.Caller, req ApplyLeaveRequest) (LeaveResponse, error) {
	if caller.Role != domain.RoleEmployee {
		return LeaveResponse{}, leaveerrors.ErrApplyForbidden
	}

	leaveType := strings.ToLower(strings.TrimSpace(req.LeaveType))
	if !ValidLeaveType(leaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.StartDate), time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if start.Before(today()) {
		return LeaveResponse{}, leaveerrors.ErrStartDateInPast
	}

	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.EndDate), time.UTC)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	// Length limits count characters, not bytes, so multibyte reasons
	// are measured the way a caller would count them.
	reason := strings.TrimSpace(req.Reason)
	if utf8.RuneCountInString(reason) < reasonMin {
		return LeaveResponse{}, leaveerrors.ErrReasonTooShort
	}
	if utf8.RuneCountInString(reason) > reasonMax {
		return LeaveResponse{}, leaveerrors.ErrReasonTooLong
	}

	ownerID, err := uuid.Parse(caller.ID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	l := &Leave{
		ID:         uuid.New(),
		EmployeeID: ownerID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  inclusiveDays(start, end),
		Reason:     reason,
		Status:     StatusPending,
	}

	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("leave applied",
		zap.String("leave_id", l.ID.String()),
		zap.String("user_id", caller.ID),
		zap.String("leave_type", leaveType),
		zap.Int("total_days", l.TotalDays),
	)

	// Re-read for the owner join; fall back to the bare record when the
	// read loses a race with anything.
	if full, err := s.repo.FindByID(ctx, l.ID.String()); err == nil {
		return mapToResponse(*full), nil
	}
	return mapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, caller domain.Caller, q ListQuery) ([]LeaveResponse, response.Pagination, error) {
	if caller.Role != domain.RoleEmployee {
		return nil, response.Pagination{}, leaveerrors.ErrListMineForbidden
	}
	if _, err := uuid.Parse(caller.ID); err != nil {
		return nil, response.Pagination{}, leaveerrors.ErrInvalidUserID
	}

	q = normalizeQuery(q)
	leaves, total, err := s.repo.FindPage(ctx, Filter{
		EmployeeID: caller.ID,
		Status:     q.Status,
		Offset:     (q.Page - 1) * q.Limit,
		Limit:      q.Limit,
	})
	if err != nil {
		s.logger.Error("list own leaves failed", zap.Error(err))
		return nil, response.Pagination{}, err
	}
	return mapToResponses(leaves), response.NewPagination(total, q.Page, q.Limit), nil
}

func (s *service) ListAll(ctx context.Context, caller domain.Caller, q ListQuery) ([]LeaveResponse, response.Pagination, error) {
	if caller.Role != domain.RoleEmployer {
		return nil, response.Pagination{}, leaveerrors.ErrListAllForbidden
	}

	q = normalizeQuery(q)
	leaves, total, err := s.repo.FindPage(ctx, Filter{
		Status: q.Status,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	})
	if err != nil {
		s.logger.Error("list all leaves failed", zap.Error(err))
		return nil, response.Pagination{}, err
	}
	return mapToResponses(leaves), response.NewPagination(total, q.Page, q.Limit), nil
}

func (s *service) DashboardStats(ctx context.Context, caller domain.Caller) (DashboardStats, error) {
	if caller.Role != domain.RoleEmployer {
		return DashboardStats{}, leaveerrors.ErrListAllForbidden
	}

	// Collapse a burst of dashboard loads into one aggregate query. The
	// query runs on a detached context: a canceled first caller must not
	// fail the followers sharing this flight.
	v, err, _ := s.stats.Do("dashboard-stats", func() (interface{}, error) {
		return s.repo.CountByStatus(context.WithoutCancel(ctx))
	})
	if err != nil {
		s.logger.Error("dashboard stats failed", zap.Error(err))
		return DashboardStats{}, err
	}
	return v.(DashboardStats), nil
}

func (s *service) Approve(ctx context.Context, caller domain.Caller, id string) (LeaveResponse, error) {
	return s.decide(ctx, caller, id, StatusApproved)
}

func (s *service) Reject(ctx context.Context, caller domain.Caller, id string) (LeaveResponse, error) {
	return s.decide(ctx, caller, id, StatusRejected)
}

func (s *service) decide(ctx context.Context, caller domain.Caller, id, target string) (LeaveResponse, error) {
	if caller.Role != domain.RoleEmployer {
		return LeaveResponse{}, leaveerrors.ErrDecideForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	// The status flip and the balance charge commit or roll back
	// together; a failed charge must not strand an Approved record with
	// an uncharged balance.
	var l *Leave
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		rows, err := txRepo.UpdateStatusIfPending(ctx, id, target)
		if err != nil {
			return err
		}

		var findErr error
		l, findErr = txRepo.FindByID(ctx, id)
		if rows == 0 {
			// The conditional update touched nothing: either the record
			// does not exist, or it already left Pending.
			if findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return leaveerrors.ErrLeaveNotFound
				}
				return findErr
			}
			return leaveerrors.AlreadyProcessed(l.Status)
		}
		if findErr != nil {
			return findErr
		}

		if target == StatusApproved {
			return s.profiles.WithTx(tx).ConsumeLeave(ctx, l.EmployeeID.String(), l.TotalDays)
		}
		return nil
	})
	if txErr != nil {
		var appErr *apperror.AppError
		if !errors.As(txErr, &appErr) {
			s.logger.Error("leave status transition failed",
				zap.String("leave_id", id),
				zap.String("target", target),
				zap.Error(txErr),
			)
		}
		return LeaveResponse{}, txErr
	}

	s.logger.Info("leave decided",
		zap.String("leave_id", id),
		zap.String("status", target),
		zap.String("decided_by", caller.ID),
	)
	return mapToResponse(*l), nil
}

func normalizeQuery(q ListQuery) ListQuery {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if !ValidStatus(q.Status) {
		q.Status = ""
	}
	return q
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// inclusiveDays counts both endpoints, so a single-day leave is 1.
func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID.String(),
		LeaveType: l.LeaveType,
		StartDate: l.StartDate.Format(dateLayout),
		EndDate:   l.EndDate.Format(dateLayout),
		Days:      l.TotalDays,
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.Employee != nil {
		resp.Employee = &OwnerResponse{
			ID:    l.Employee.ID.String(),
			Name:  l.Employee.Name,
			Email: l.Employee.Email,
			Role:  l.Employee.Role,
		}
	}
	return resp
}

func mapToResponses(leaves []Leave) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l))
	}
	return out
}
