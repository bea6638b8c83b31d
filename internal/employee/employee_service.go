package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	employeeerrors "leavedesk/internal/employee/errors"
)

type Service interface {
	// WithTx returns a service whose writes run inside tx, so a caller
	// can group a profile write with its own statements.
	WithTx(tx *gorm.DB) Service
	// CreateForUser provisions the profile row when a user registers
	// with the employee role. An empty code is generated from the user
	// id; an empty department falls back to the first enum value.
	CreateForUser(ctx context.Context, userID uuid.UUID, code, department string) (*Employee, error)
	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error)
	// ConsumeLeave charges approved days against the balance. Users
	// without a profile are skipped silently.
	ConsumeLeave(ctx context.Context, userID string, days int) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx), logger: s.logger}
}

func (s *service) CreateForUser(ctx context.Context, userID uuid.UUID, code, department string) (*Employee, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = fmt.Sprintf("EMP-%s", strings.ToUpper(userID.String()[:8]))
	}

	department = strings.TrimSpace(department)
	if department == "" {
		department = Departments[0]
	}
	if !ValidDepartment(department) {
		return nil, employeeerrors.ErrInvalidDepartment
	}

	e := &Employee{
		ID:              uuid.New(),
		UserID:          userID,
		Code:            code,
		Department:      department,
		TotalLeaves:     DefaultAnnualLeaves,
		UsedLeaves:      0,
		RemainingLeaves: DefaultAnnualLeaves,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		if isUniqueViolation(err) {
			return nil, employeeerrors.ErrEmployeeCodeTaken
		}
		s.logger.Error("create profile persist failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("employee profile created",
		zap.String("user_id", userID.String()),
		zap.String("employee_code", e.Code),
	)
	return e, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (ProfileResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return ProfileResponse{}, employeeerrors.ErrInvalidUserID
	}

	e, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, employeeerrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}
	return mapToProfileResponse(*e), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return ProfileResponse{}, employeeerrors.ErrInvalidUserID
	}

	e, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, employeeerrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}

	if req.Department != "" {
		if !ValidDepartment(req.Department) {
			return ProfileResponse{}, employeeerrors.ErrInvalidDepartment
		}
		e.Department = req.Department
	}

	// Derived invariant: remaining = total - used, recomputed on every
	// save rather than trusted from storage.
	e.RemainingLeaves = e.TotalLeaves - e.UsedLeaves

	if err := s.repo.Update(ctx, e); err != nil {
		s.logger.Error("update profile persist failed", zap.Error(err))
		return ProfileResponse{}, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		if err := s.repo.UpdateUserName(ctx, userID, name); err != nil {
			s.logger.Error("update user name failed", zap.Error(err))
			return ProfileResponse{}, err
		}
		if e.User != nil {
			e.User.Name = name
		}
	}

	s.logger.Info("employee profile updated", zap.String("user_id", userID))
	return mapToProfileResponse(*e), nil
}

func (s *service) ConsumeLeave(ctx context.Context, userID string, days int) error {
	if days <= 0 {
		return nil
	}

	rows, err := s.repo.IncrementUsedLeaves(ctx, userID, days)
	if err != nil {
		return err
	}
	if rows == 0 {
		s.logger.Debug("no profile to charge leave against", zap.String("user_id", userID))
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToProfileResponse(e Employee) ProfileResponse {
	resp := ProfileResponse{
		ID:              e.ID.String(),
		EmployeeID:      e.Code,
		Department:      e.Department,
		TotalLeaves:     e.TotalLeaves,
		UsedLeaves:      e.UsedLeaves,
		RemainingLeaves: e.RemainingLeaves,
	}
	if e.User != nil {
		resp.Name = e.User.Name
		resp.Email = e.User.Email
	}
	return resp
}
