package database

import (
	"errors"
	"log"

	"deadsignal/config"
	"deadsignal/internal/domain"
	"deadsignal/internal/models"
	"deadsignal/pkg/sensor"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GhostCatalog is the built-in set of ghost types.
var GhostCatalog = []models.GhostType{
	{
		Name:            "Wraith",
		Description:     "Drifts between rooms. Leaves frost where it lingers.",
		ThermalCategory: sensor.ThermalDeepCold,
		Personality:     sensor.PersonalityNeutral,
		SpiritKnobA:     0.35,
		SpiritKnobB:     0.72,
		SpiritTolerance: 0.06,
		Manifestations: []sensor.Manifestation{
			{Primary: "full_apparition", Probability: 0.15},
			{Primary: "mist", Probability: 0.45},
		},
		Words: sensor.WordFamily{
			Emotion: []string{"cold", "lost", "alone"},
			Theme:   []string{"window", "winter", "stairs"},
		},
	},
	{
		Name:            "Poltergeist",
		Description:     "Loud and restless. The meter jumps before you see it.",
		ThermalCategory: sensor.ThermalNormal,
		Personality:     sensor.PersonalityExcitable,
		SpiritKnobA:     0.81,
		SpiritKnobB:     0.22,
		SpiritTolerance: 0.08,
		Manifestations: []sensor.Manifestation{
			{Primary: "blur", Probability: 0.5},
			{Primary: "handprint", Probability: 0.25},
		},
		Words: sensor.WordFamily{
			Emotion: []string{"angry", "play", "mine"},
			Theme:   []string{"toys", "break", "noise", "door"},
		},
	},
	{
		Name:            "Shade",
		Description:     "Keeps to itself. Barely registers until you are close.",
		ThermalCategory: sensor.ThermalColdSpot,
		Personality:     sensor.PersonalityShy,
		SpiritKnobA:     0.12,
		SpiritKnobB:     0.58,
		SpiritTolerance: 0.04,
		Manifestations: []sensor.Manifestation{
			{Primary: "shadow_figure", Probability: 0.3},
		},
		Words: sensor.WordFamily{
			Emotion: []string{"afraid", "hide"},
			Theme:   []string{"dark", "corner", "under"},
		},
	},
	{
		Name:            "Drowned",
		Description:     "Smells of river water. Answers slowly.",
		ThermalCategory: sensor.ThermalColdSpot,
		Personality:     sensor.PersonalityNeutral,
		SpiritKnobA:     0.47,
		SpiritKnobB:     0.09,
		SpiritTolerance: 0.05,
		Manifestations: []sensor.Manifestation{
			{Primary: "wet_footprints", Probability: 0.35},
			{Primary: "face_in_glass", Probability: 0.1},
		},
		Words: sensor.WordFamily{
			Emotion: []string{"sinking", "tired"},
			Theme:   []string{"water", "river", "bridge", "rain"},
		},
	},
}

// SeedGhostTypes inserts catalog entries missing from the ghost_types table.
func SeedGhostTypes(db *gorm.DB) error {
	created := 0
	for _, g := range GhostCatalog {
		g.IsActive = true
		res := db.Where(models.GhostType{Name: g.Name}).FirstOrCreate(&g)
		if res.Error != nil {
			return res.Error
		}
		created += int(res.RowsAffected)
	}
	if created > 0 {
		log.Printf("[seed] created %d ghost types", created)
	}
	return nil
}

// SeedAdmin creates the configured admin account if it does not exist yet.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	var existing models.User
	err := db.Where("email = ?", cfg.Email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &models.User{
		Email:        cfg.Email,
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(u).Error; err != nil {
		return err
	}
	log.Printf("[seed] created admin %s", cfg.Email)
	return nil
}
