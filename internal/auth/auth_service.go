package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/config"
	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
)

type Service interface {
	Register(ctx context.Context, req SignupRequest) (string, UserResponse, error)
	Login(ctx context.Context, email, password string) (string, UserResponse, error)
	GetMe(ctx context.Context, userID string) (*UserResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	profiles employee.Service
	cfg      config.Config
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, profiles employee.Service, cfg config.Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{db: db, repo: repo, profiles: profiles, cfg: cfg, logger: l}
}

func (s *service) Register(ctx context.Context, req SignupRequest) (string, UserResponse, error) {
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.ValidRole(role) {
		return "", UserResponse{}, autherrors.ErrInvalidRole
	}

	// Case-insensitive uniqueness: the canonical form is lowercase and
	// that is the only form ever stored or compared.
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", UserResponse{}, autherrors.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("register email lookup failed", zap.Error(err))
		return "", UserResponse{}, err
	}

	// Hashed synchronously before the persistence call; the plaintext
	// never reaches the repository.
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", UserResponse{}, err
	}

	user := &User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}

	// The user row and its profile commit or roll back together; a
	// failed provisioning must not strand a profileless account.
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		if user.IsEmployee() {
			if _, err := s.profiles.WithTx(tx).CreateForUser(ctx, user.ID, req.EmployeeID, req.Department); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		// Two registrations can race past the lookup; the unique index
		// settles it.
		if isUniqueViolation(txErr) {
			return "", UserResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("register persist failed",
			zap.String("user_id", user.ID.String()),
			zap.Error(txErr),
		)
		return "", UserResponse{}, txErr
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", UserResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return token, mapToUserResponse(user), nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, UserResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", UserResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", UserResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return token, mapToUserResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToUserResponse(u)
	return &resp, nil
}

func (s *service) generateToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(s.cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
