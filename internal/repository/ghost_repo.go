package repository

import (
	"deadsignal/internal/models"

	"gorm.io/gorm"
)

type GhostRepository struct {
	db *gorm.DB
}

func NewGhostRepository(db *gorm.DB) *GhostRepository {
	return &GhostRepository{db: db}
}

func (r *GhostRepository) ListActive() ([]models.GhostType, error) {
	var list []models.GhostType
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&list).Error
	return list, err
}

func (r *GhostRepository) GetByID(id uint) (*models.GhostType, error) {
	var g models.GhostType
	err := r.db.First(&g, id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GhostRepository) GetByName(name string) (*models.GhostType, error) {
	var g models.GhostType
	err := r.db.Where("name = ? AND is_active = ?", name, true).First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListAll includes retired ghost types.
func (r *GhostRepository) ListAll() ([]models.GhostType, error) {
	var list []models.GhostType
	err := r.db.Order("id ASC").Find(&list).Error
	return list, err
}

func (r *GhostRepository) SetActive(id uint, active bool) error {
	g, err := r.GetByID(id)
	if err != nil {
		return err
	}
	return r.db.Model(g).Update("is_active", active).Error
}
