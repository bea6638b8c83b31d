package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/config"
	"leavedesk/internal/domain"
	"leavedesk/internal/employee"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, u *User) error
	getByEmailFn func(ctx context.Context, email string) (*User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, u *User) error { return f.createFn(ctx, u) }
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return f.getByIDFn(ctx, id)
}

type fakeProfiles struct {
	createForUserFn func(ctx context.Context, userID uuid.UUID, code, department string) (*employee.Employee, error)
}

func (f *fakeProfiles) WithTx(tx *gorm.DB) employee.Service { return f }

func (f *fakeProfiles) CreateForUser(ctx context.Context, userID uuid.UUID, code, department string) (*employee.Employee, error) {
	if f.createForUserFn != nil {
		return f.createForUserFn(ctx, userID, code, department)
	}
	return &employee.Employee{ID: uuid.New(), UserID: userID}, nil
}
func (f *fakeProfiles) GetProfile(ctx context.Context, userID string) (employee.ProfileResponse, error) {
	return employee.ProfileResponse{}, nil
}
func (f *fakeProfiles) UpdateProfile(ctx context.Context, userID string, req employee.UpdateProfileRequest) (employee.ProfileResponse, error) {
	return employee.ProfileResponse{}, nil
}
func (f *fakeProfiles) ConsumeLeave(ctx context.Context, userID string, days int) error {
	return nil
}

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return db, mock
}

func newTestService(t *testing.T, repo Repository, profiles employee.Service) (Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewService(db, repo, profiles, testConfig()), mock
}

func notFoundRepo() *fakeRepo {
	return &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, u *User) error { return nil },
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	var saved User
	repo := notFoundRepo()
	repo.createFn = func(ctx context.Context, u *User) error { saved = *u; return nil }

	var profileUserID uuid.UUID
	profiles := &fakeProfiles{
		createForUserFn: func(ctx context.Context, userID uuid.UUID, code, department string) (*employee.Employee, error) {
			profileUserID = userID
			return &employee.Employee{ID: uuid.New(), UserID: userID}, nil
		},
	}

	svc, mock := newTestService(t, repo, profiles)
	mock.ExpectBegin()
	mock.ExpectCommit()

	token, user, err := svc.Register(ctx, SignupRequest{
		Name:     "Jane Worker",
		Email:    "Jane.Worker@Example.COM",
		Password: "supersecret",
	})

	assert.NoError(t, err)
	assert.Equal(t, "jane.worker@example.com", user.Email)
	assert.Equal(t, domain.RoleEmployee, user.Role)

	// The stored password is a bcrypt hash of the plaintext.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.Password), []byte("supersecret")))
	assert.NotEqual(t, "supersecret", saved.Password)

	// The employee role gets a profile provisioned under the new user id.
	assert.Equal(t, saved.ID, profileUserID)
	assert.NoError(t, mock.ExpectationsWereMet())

	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, saved.ID.String(), claims["user_id"])
	assert.Equal(t, "jane.worker@example.com", claims["email"])
	assert.Equal(t, domain.RoleEmployee, claims["role"])
	exp := int64(claims["exp"].(float64))
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), exp, 5)
}

func TestService_Register_EmployerSkipsProfile(t *testing.T) {
	profiles := &fakeProfiles{
		createForUserFn: func(ctx context.Context, userID uuid.UUID, code, department string) (*employee.Employee, error) {
			t.Fatal("employer signup must not create an employee profile")
			return nil, nil
		},
	}

	svc, mock := newTestService(t, notFoundRepo(), profiles)
	mock.ExpectBegin()
	mock.ExpectCommit()

	_, user, err := svc.Register(context.Background(), SignupRequest{
		Name:     "Big Boss",
		Email:    "boss@example.com",
		Password: "supersecret",
		Role:     domain.RoleEmployer,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleEmployer, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Register_ProfileFailureRollsBackUser(t *testing.T) {
	created := 0
	repo := notFoundRepo()
	repo.createFn = func(ctx context.Context, u *User) error { created++; return nil }

	provisionErr := errors.New("profile insert failed")
	profiles := &fakeProfiles{
		createForUserFn: func(ctx context.Context, userID uuid.UUID, code, department string) (*employee.Employee, error) {
			return nil, provisionErr
		},
	}

	svc, mock := newTestService(t, repo, profiles)

	// The user insert and the profile insert share one transaction, so a
	// failed provisioning must not leave a profileless account behind.
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, _, err := svc.Register(context.Background(), SignupRequest{
		Name:     "Jane Worker",
		Email:    "jane.worker@example.com",
		Password: "supersecret",
	})

	assert.ErrorIs(t, err, provisionErr)
	assert.Equal(t, 1, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Register_InvalidRole(t *testing.T) {
	svc, _ := newTestService(t, notFoundRepo(), &fakeProfiles{})
	_, _, err := svc.Register(context.Background(), SignupRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "supersecret",
		Role:     "admin",
	})
	assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			assert.Equal(t, "jane@example.com", email)
			return &User{ID: uuid.New(), Email: email}, nil
		},
	}

	svc, _ := newTestService(t, repo, &fakeProfiles{})
	// Different casing still collides with the stored lowercase form.
	_, _, err := svc.Register(context.Background(), SignupRequest{
		Name:     "Jane",
		Email:    "JANE@example.com",
		Password: "supersecret",
	})
	assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
}

func TestService_Login(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.DefaultCost)
	stored := &User{
		ID:       uuid.New(),
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: string(hashed),
		Role:     domain.RoleEmployee,
	}
	repo := &fakeRepo{
		getByEmailFn: func(ctx context.Context, email string) (*User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc, _ := newTestService(t, repo, &fakeProfiles{})

	token, user, err := svc.Login(context.Background(), "Jane@Example.com", "supersecret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, stored.ID.String(), user.ID)

	// Wrong password and unknown email are indistinguishable to the caller.
	_, _, err = svc.Login(context.Background(), "jane@example.com", "wrongpass")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "supersecret")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_GetMe(t *testing.T) {
	stored := &User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", Role: domain.RoleEmployee}
	repo := &fakeRepo{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*User, error) {
			if id == stored.ID {
				return stored, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc, _ := newTestService(t, repo, &fakeProfiles{})

	me, err := svc.GetMe(context.Background(), stored.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, stored.Email, me.Email)

	_, err = svc.GetMe(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)

	_, err = svc.GetMe(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}
