package leave

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Filter narrows a page listing. An empty EmployeeID means all owners;
// an empty Status means all statuses.
type Filter struct {
	EmployeeID string
	Status     string
	Offset     int
	Limit      int
}

type Repository interface {
	// WithTx returns a repository bound to tx so callers can group
	// statements into one transaction.
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *Leave) error
	FindByID(ctx context.Context, id string) (*Leave, error)
	FindPage(ctx context.Context, f Filter) ([]Leave, int64, error)
	// UpdateStatusIfPending is the conditional transition: it flips the
	// status only when the current status is still Pending, in a single
	// statement, and reports how many rows changed. Two racing
	// approvals can therefore never both succeed.
	UpdateStatusIfPending(ctx context.Context, id, status string) (int64, error)
	CountByStatus(ctx context.Context) (DashboardStats, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Leave, error) {
	var l Leave
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindPage(ctx context.Context, f Filter) ([]Leave, int64, error) {
	q := r.db.WithContext(ctx).Model(&Leave{})
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []Leave
	err := q.
		Preload("Employee").
		Order("created_at DESC").
		Offset(f.Offset).
		Limit(f.Limit).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, id, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Leave{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) CountByStatus(ctx context.Context) (DashboardStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Leave{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return DashboardStats{}, err
	}

	var stats DashboardStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case StatusPending:
			stats.Pending = row.Count
		case StatusApproved:
			stats.Approved = row.Count
		case StatusRejected:
			stats.Rejected = row.Count
		}
	}
	return stats, nil
}
