package repository

import (
	"deadsignal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvidenceRepository struct {
	db *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Record stores e unless the hunt already holds the same kind and value.
// It reports whether a new row was written.
func (r *EvidenceRepository) Record(e *models.Evidence) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *EvidenceRepository) ListByHuntID(huntID uint) ([]models.Evidence, error) {
	var list []models.Evidence
	err := r.db.Where("hunt_id = ?", huntID).Order("captured_at ASC, id ASC").Find(&list).Error
	return list, err
}

// SetPhotoURL attaches an uploaded capture to its evidence row.
func (r *EvidenceRepository) SetPhotoURL(id uint, url string) error {
	return r.db.Model(&models.Evidence{}).Where("id = ?", id).Update("photo_url", url).Error
}

func (r *EvidenceRepository) CountByHuntID(huntID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Evidence{}).Where("hunt_id = ?", huntID).Count(&n).Error
	return n, err
}
