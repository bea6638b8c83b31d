package employee

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// WithTx returns a repository bound to tx so callers can group
	// statements into one transaction.
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, e *Employee) error
	FindByUserID(ctx context.Context, userID string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	UpdateUserName(ctx context.Context, userID, name string) error
	// IncrementUsedLeaves consumes days from the balance in one atomic
	// update so concurrent approvals cannot lose a write. Returns the
	// number of rows touched (0 when the user has no profile).
	IncrementUsedLeaves(ctx context.Context, userID string, days int) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&e).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) UpdateUserName(ctx context.Context, userID, name string) error {
	return r.db.WithContext(ctx).
		Table("users").
		Where("id = ?", userID).
		Update("name", name).Error
}

func (r *repository) IncrementUsedLeaves(ctx context.Context, userID string, days int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("user_id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"used_leaves":      gorm.Expr("used_leaves + ?", days),
			"remaining_leaves": gorm.Expr("total_leaves - (used_leaves + ?)", days),
			"updated_at":       gorm.Expr("now()"),
		})
	return res.RowsAffected, res.Error
}
