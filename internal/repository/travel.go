package repository

import (
	"context"
	"errors"

	"wayfare/internal/cache"
	"wayfare/internal/models"

	"gorm.io/gorm"
)

// TravelListFilter narrows list queries. Zero values mean "no filter".
type TravelListFilter struct {
	Status   string // exact status match
	AuthorID uint   // restrict to one author
	Keyword  string // substring match on title or author nickname
	Limit    int
	Offset   int
}

// TravelRepository defines persistence operations for travel diaries.
// Soft-deleted rows are invisible to every method except HardDelete.
type TravelRepository interface {
	Create(ctx context.Context, travel *models.Travel) error
	GetByID(ctx context.Context, id uint) (*models.Travel, error)
	List(ctx context.Context, filter TravelListFilter) ([]*models.Travel, int64, error)
	Update(ctx context.Context, travel *models.Travel) error
	SoftDelete(ctx context.Context, id uint) error
	HardDelete(ctx context.Context, id uint) error
}

type travelRepository struct {
	db *gorm.DB
}

// NewTravelRepository creates a new travel repository
func NewTravelRepository(db *gorm.DB) TravelRepository {
	return &travelRepository{db: db}
}

// visible scopes every read to rows that have not been soft-deleted.
func (r *travelRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Travel{}).Where("travels.is_deleted = ?", false)
}

func (r *travelRepository) Create(ctx context.Context, travel *models.Travel) error {
	if err := r.db.WithContext(ctx).Create(travel).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *travelRepository) GetByID(ctx context.Context, id uint) (*models.Travel, error) {
	var travel models.Travel
	key := cache.TravelKey(id)

	err := cache.Aside(ctx, key, &travel, cache.TravelTTL, func() error {
		if err := r.visible(ctx).Preload("Author").First(&travel, "travels.id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Travel", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &travel, nil
}

func (r *travelRepository) List(ctx context.Context, filter TravelListFilter) ([]*models.Travel, int64, error) {
	q := r.visible(ctx)

	if filter.Status != "" {
		q = q.Where("travels.status = ?", filter.Status)
	}
	if filter.AuthorID != 0 {
		q = q.Where("travels.author_id = ?", filter.AuthorID)
	}
	if filter.Keyword != "" {
		// Match on title or author nickname, case-insensitively. LOWER/LIKE
		// keeps this portable across postgres and sqlite.
		pattern := "%" + filter.Keyword + "%"
		q = q.Joins("JOIN users ON users.id = travels.author_id").
			Where("LOWER(travels.title) LIKE LOWER(?) OR LOWER(users.nickname) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var travels []*models.Travel
	err := q.Preload("Author").
		Order("travels.created_at DESC, travels.id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&travels).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return travels, total, nil
}

func (r *travelRepository) Update(ctx context.Context, travel *models.Travel) error {
	if err := r.db.WithContext(ctx).Save(travel).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTravel(ctx, travel.ID)
	return nil
}

// SoftDelete hides the travel from all subsequent reads while keeping the row.
func (r *travelRepository) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Travel{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Travel", id)
	}
	cache.InvalidateTravel(ctx, id)
	return nil
}

// HardDelete removes the row permanently.
func (r *travelRepository) HardDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Travel{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Travel", id)
	}
	cache.InvalidateTravel(ctx, id)
	return nil
}
