package repository

import (
	"deadsignal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocationRepository keeps one row per player: the last accepted fix.
type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// Upsert replaces the player's fix, keyed on user_id.
func (r *LocationRepository) Upsert(loc *models.PlayerLocation) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"latitude", "longitude", "accuracy_meters", "heading", "last_updated_at", "updated_at", "deleted_at",
		}),
	}).Create(loc).Error
}

func (r *LocationRepository) GetByUserID(userID uint) (*models.PlayerLocation, error) {
	var loc models.PlayerLocation
	err := r.db.Where("user_id = ?", userID).First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
