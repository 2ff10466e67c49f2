package repository

import (
	"time"

	"deadsignal/internal/domain"
	"deadsignal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HuntRepository struct {
	db *gorm.DB
}

func NewHuntRepository(db *gorm.DB) *HuntRepository {
	return &HuntRepository{db: db}
}

// Create inserts h. An active hunt claims the player's active slot, so a
// second concurrent active hunt for the same player fails on the unique index.
func (r *HuntRepository) Create(h *models.Hunt) error {
	if h.IsActive() {
		id := h.UserID
		h.ActiveUserID = &id
	}
	return r.db.Omit(clause.Associations).Create(h).Error
}

// SetSpiritBoxLock writes only the lock start of a still-active hunt.
// gorm.ErrRecordNotFound means the hunt was closed in the meantime.
func (r *HuntRepository) SetSpiritBoxLock(id uint, since *time.Time) error {
	res := r.db.Model(&models.Hunt{}).
		Where("id = ? AND status = ?", id, domain.HuntStatusActive).
		Update("spirit_box_locked_since", since)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Close moves an active hunt to status and frees the player's active slot.
// Only one caller can close a hunt; the others get gorm.ErrRecordNotFound.
func (r *HuntRepository) Close(h *models.Hunt, status string, endedAt time.Time) error {
	res := r.db.Model(&models.Hunt{}).
		Where("id = ? AND status = ?", h.ID, domain.HuntStatusActive).
		Updates(map[string]interface{}{
			"status":                  status,
			"ended_at":                endedAt,
			"spirit_box_locked_since": nil,
			"active_user_id":          nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	h.Status = status
	h.EndedAt = &endedAt
	h.SpiritBoxLockedSince = nil
	h.ActiveUserID = nil
	return nil
}

// GetActiveByUserID returns the player's running hunt with its ghost type loaded.
func (r *HuntRepository) GetActiveByUserID(userID uint) (*models.Hunt, error) {
	var h models.Hunt
	err := r.db.Preload("GhostType").
		Where("user_id = ? AND status = ?", userID, domain.HuntStatusActive).
		Order("id DESC").
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HuntRepository) GetByID(id uint) (*models.Hunt, error) {
	var h models.Hunt
	err := r.db.Preload("GhostType").First(&h, id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *HuntRepository) ListByUserID(userID uint, limit, offset int) ([]models.Hunt, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []models.Hunt
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
