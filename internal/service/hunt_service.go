package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"deadsignal/config"
	"deadsignal/internal/domain"
	"deadsignal/internal/models"
	"deadsignal/internal/repository"
	"deadsignal/pkg/location"
	"deadsignal/pkg/photostamp"
	"deadsignal/pkg/proximity"
	"deadsignal/pkg/sensor"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNoActiveHunt  = errors.New("no active hunt")
	ErrHuntActive    = errors.New("a hunt is already running")
	ErrHuntNotFound  = errors.New("hunt not found")
	ErrUnknownGhost  = errors.New("unknown ghost type")
	ErrPoorAccuracy  = errors.New("gps fix too inaccurate")
	ErrNoFix         = errors.New("no location fix yet")
	ErrOutOfCone     = errors.New("ghost is not in front of the camera")
	ErrSignalTooWeak = errors.New("signal too weak to photograph")
)

// Snapshot is every tool reading for one player position and heading.
type Snapshot struct {
	HuntID         uint                  `json:"hunt_id"`
	DistanceMeters float64               `json:"distance_meters"`
	Bearing        float64               `json:"-"`
	RadarBearing   float64               `json:"radar_bearing"`
	Heading        float64               `json:"heading"`
	InRadarCone    bool                  `json:"in_radar_cone"`
	InCameraCone   bool                  `json:"in_camera_cone"`
	EMF            sensor.EMFLevel       `json:"emf"`
	Thermal        sensor.ThermalReading `json:"thermal"`
	CameraOdds     float64               `json:"camera_odds"`
	Proximity      string                `json:"proximity"`
	NewEvidence    []models.Evidence     `json:"new_evidence,omitempty"`
	At             time.Time             `json:"at"`
}

// PhotoResult is the outcome of one camera shot.
type PhotoResult struct {
	Snapshot      *Snapshot        `json:"snapshot"`
	Manifestation string           `json:"manifestation,omitempty"`
	Captured      bool             `json:"captured"`
	PhotoURL      string           `json:"photo_url,omitempty"`
	Evidence      *models.Evidence `json:"evidence,omitempty"`
}

// SpiritBoxResult is the state of the spirit box after one tuning update.
type SpiritBoxResult struct {
	Locked    bool          `json:"locked"`
	HeldFor   time.Duration `json:"-"`
	HeldForMs int64         `json:"held_for_ms"`
	Answered  bool          `json:"answered"`
	Word      string        `json:"word,omitempty"`
}

// RadarPublisher receives every fresh snapshot, typically to push it to the
// player's open radar sockets.
type RadarPublisher interface {
	PublishRadar(userID uint, snap *Snapshot)
}

// PhotoUploader stores a captured photo and returns its URL.
type PhotoUploader interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
}

type HuntService struct {
	cfg          *config.HuntConfig
	uploadFolder string
	huntRepo     *repository.HuntRepository
	ghostRepo    *repository.GhostRepository
	locRepo      *repository.LocationRepository
	evidenceRepo *repository.EvidenceRepository
	userRepo     *repository.UserRepository
	rng          sensor.Source
	radar        RadarPublisher
	uploader     PhotoUploader
}

func NewHuntService(
	cfg *config.Config,
	huntRepo *repository.HuntRepository,
	ghostRepo *repository.GhostRepository,
	locRepo *repository.LocationRepository,
	evidenceRepo *repository.EvidenceRepository,
	userRepo *repository.UserRepository,
	rng sensor.Source,
) *HuntService {
	return &HuntService{
		cfg:          &cfg.Hunt,
		uploadFolder: cfg.Cloudinary.Folder,
		huntRepo:     huntRepo,
		ghostRepo:    ghostRepo,
		locRepo:      locRepo,
		evidenceRepo: evidenceRepo,
		userRepo:     userRepo,
		rng:          rng,
	}
}

// WithRadar sets where snapshots are published. nil disables publishing.
func (s *HuntService) WithRadar(p RadarPublisher) *HuntService {
	s.radar = p
	return s
}

// WithUploader sets where captured photos are stored. nil disables uploads.
func (s *HuntService) WithUploader(u PhotoUploader) *HuntService {
	s.uploader = u
	return s
}

func (s *HuntService) Ghosts() ([]models.GhostType, error) {
	return s.ghostRepo.ListActive()
}

// Start hides a ghost near pos and opens a hunt. ghostName picks the ghost
// type; empty picks one at random.
func (s *HuntService) Start(userID uint, pos location.GeoPosition, heading float64, ghostName string) (*models.Hunt, error) {
	if err := s.checkAccuracy(pos); err != nil {
		return nil, err
	}
	if _, err := s.huntRepo.GetActiveByUserID(userID); err == nil {
		return nil, ErrHuntActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	ghost, err := s.pickGhost(ghostName)
	if err != nil {
		return nil, err
	}
	if err := s.saveFix(userID, pos, heading); err != nil {
		return nil, err
	}

	spawnBearing := s.rng.Float64() * 360
	spawnDist := s.cfg.MinSpawnMeters + s.rng.Float64()*(s.cfg.MaxSpawnMeters-s.cfg.MinSpawnMeters)
	at := location.Destination(pos, spawnBearing, spawnDist)
	h := &models.Hunt{
		Code:           uuid.New().String(),
		UserID:         userID,
		GhostTypeID:    ghost.ID,
		GhostLatitude:  at.Lat,
		GhostLongitude: at.Lng,
		Status:         domain.HuntStatusActive,
		StartedAt:      time.Now(),
	}
	if err := s.huntRepo.Create(h); err != nil {
		// a concurrent Start won the player's active slot
		if _, active := s.huntRepo.GetActiveByUserID(userID); active == nil {
			return nil, ErrHuntActive
		}
		return nil, fmt.Errorf("create hunt: %w", err)
	}
	h.GhostType = *ghost
	log.Printf("[hunt] started hunt=%d user=%d ghost=%s spawn=%.0fm", h.ID, userID, ghost.Name, spawnDist)
	return h, nil
}

func (s *HuntService) pickGhost(name string) (*models.GhostType, error) {
	if name = strings.TrimSpace(name); name != "" {
		g, err := s.ghostRepo.GetByName(name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownGhost
		}
		return g, err
	}
	list, err := s.ghostRepo.ListActive()
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrUnknownGhost
	}
	return &list[s.rng.Intn(len(list))], nil
}

// Active returns the player's running hunt.
func (s *HuntService) Active(userID uint) (*models.Hunt, error) {
	h, err := s.huntRepo.GetActiveByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveHunt
	}
	return h, err
}

// UpdatePosition stores a new fix and returns the tool readings for it.
// EMF 5 and cold readings are logged as evidence the first time they occur.
func (s *HuntService) UpdatePosition(userID uint, pos location.GeoPosition, heading float64) (*Snapshot, error) {
	if err := s.checkAccuracy(pos); err != nil {
		return nil, err
	}
	if err := s.saveFix(userID, pos, heading); err != nil {
		return nil, err
	}
	h, err := s.Active(userID)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot(h, pos, heading)
	if snap.EMF == sensor.EMFMax {
		s.record(h, snap, domain.EvidenceEMF5, "5", "")
	}
	if snap.Thermal.Cold() {
		s.record(h, snap, domain.EvidenceColdReading, string(snap.Thermal.Category), "")
	}
	if s.radar != nil {
		s.radar.PublishRadar(userID, snap)
	}
	return snap, nil
}

// Radar recomputes readings from the last stored fix without saving anything.
func (s *HuntService) Radar(userID uint) (*Snapshot, error) {
	h, err := s.Active(userID)
	if err != nil {
		return nil, err
	}
	loc, err := s.lastFix(userID)
	if err != nil {
		return nil, err
	}
	return s.snapshot(h, loc.Position(), loc.Heading), nil
}

// Photograph takes a picture facing heading from the last stored fix. The ghost
// must be in the camera cone and the EMF reading at least 3; photo, when
// non-nil, is uploaded only if something manifests.
func (s *HuntService) Photograph(ctx context.Context, userID uint, heading float64, photo io.Reader) (*PhotoResult, error) {
	h, err := s.Active(userID)
	if err != nil {
		return nil, err
	}
	loc, err := s.lastFix(userID)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot(h, loc.Position(), heading)
	res := &PhotoResult{Snapshot: snap}
	if !snap.InCameraCone {
		return res, ErrOutOfCone
	}
	if !snap.EMF.Strong() {
		return res, ErrSignalTooWeak
	}
	primary, ok := sensor.CameraManifestation(s.rng, snap.DistanceMeters, h.GhostType.Manifestations)
	if !ok {
		return res, nil
	}
	res.Manifestation = primary
	res.Captured = true
	// A repeat of an already journalled manifestation is not stored again.
	res.Evidence = s.record(h, snap, domain.EvidencePhoto, primary, "")
	if res.Evidence == nil || photo == nil || s.uploader == nil {
		return res, nil
	}
	if res.PhotoURL = s.keepPhoto(ctx, h, snap, primary, photo); res.PhotoURL == "" {
		return res, nil
	}
	if err := s.evidenceRepo.SetPhotoURL(res.Evidence.ID, res.PhotoURL); err != nil {
		log.Printf("[hunt] attach photo evidence=%d: %v", res.Evidence.ID, err)
	}
	res.Evidence.PhotoURL = res.PhotoURL
	snap.NewEvidence[len(snap.NewEvidence)-1].PhotoURL = res.PhotoURL
	return res, nil
}

// keepPhoto stamps the capture with the hunt and reading and uploads it.
// Failures cost the picture, not the evidence.
func (s *HuntService) keepPhoto(ctx context.Context, h *models.Hunt, snap *Snapshot, manifestation string, photo io.Reader) string {
	caption := []string{
		"DEAD SIGNAL // EVIDENCE " + strings.ToUpper(h.Code[:8]),
		fmt.Sprintf("%s  EMF %d  %s", snap.At.UTC().Format("2006-01-02 15:04:05"), snap.EMF, strings.ToUpper(manifestation)),
	}
	stamped, err := photostamp.Stamp(photo, caption)
	if err != nil {
		log.Printf("[hunt] photo rejected hunt=%d: %v", h.ID, err)
		return ""
	}
	publicID := "cap_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, _, err := s.uploader.UploadImage(ctx, bytes.NewReader(stamped), s.uploadFolder+"/"+h.Code, publicID)
	if err != nil {
		log.Printf("[hunt] photo upload failed hunt=%d: %v", h.ID, err)
		return ""
	}
	return url
}

// TuneSpiritBox checks the player's knobs against the ghost. The lock must be
// held for SpiritBoxHold across calls before the ghost answers with a word.
func (s *HuntService) TuneSpiritBox(userID uint, knobs sensor.SpiritBoxKnobs, now time.Time) (*SpiritBoxResult, error) {
	h, err := s.Active(userID)
	if err != nil {
		return nil, err
	}
	res := &SpiritBoxResult{Locked: h.GhostType.SpiritBox().Locked(knobs)}
	switch {
	case !res.Locked:
		if h.SpiritBoxLockedSince == nil {
			return res, nil
		}
		h.SpiritBoxLockedSince = nil
	case h.SpiritBoxLockedSince == nil:
		h.SpiritBoxLockedSince = &now
	default:
		res.HeldFor = now.Sub(*h.SpiritBoxLockedSince)
		res.HeldForMs = res.HeldFor.Milliseconds()
		if res.HeldFor < s.cfg.SpiritBoxHold {
			return res, nil
		}
		res.Answered = true
		res.Word = sensor.RandomWord(s.rng, h.GhostType.Words)
		h.SpiritBoxLockedSince = nil
	}
	if err := s.huntRepo.SetSpiritBoxLock(h.ID, h.SpiritBoxLockedSince); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveHunt
		}
		return nil, err
	}
	if res.Answered {
		var snap Snapshot
		if loc, err := s.lastFix(userID); err == nil {
			snap = *s.snapshot(h, loc.Position(), loc.Heading)
		}
		s.record(h, &snap, domain.EvidenceSpiritBox, res.Word, "")
	}
	return res, nil
}

// End closes the active hunt. A solved hunt counts towards the player's tally.
func (s *HuntService) End(userID uint, solved bool) (*models.Hunt, error) {
	h, err := s.Active(userID)
	if err != nil {
		return nil, err
	}
	status := domain.HuntStatusAbandoned
	if solved {
		status = domain.HuntStatusSolved
	}
	if err := s.huntRepo.Close(h, status, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveHunt
		}
		return nil, err
	}
	if n, err := s.evidenceRepo.CountByHuntID(h.ID); err == nil {
		h.EvidenceCount = n
	}
	if solved {
		if err := s.userRepo.IncrementSolved(userID); err != nil {
			log.Printf("[hunt] increment solved user=%d: %v", userID, err)
		}
	}
	log.Printf("[hunt] ended hunt=%d user=%d status=%s evidence=%d", h.ID, userID, h.Status, h.EvidenceCount)
	return h, nil
}

// Evidence lists the journal of one of the player's hunts.
func (s *HuntService) Evidence(userID, huntID uint) ([]models.Evidence, error) {
	h, err := s.huntRepo.GetByID(huntID)
	if err != nil || h.UserID != userID {
		return nil, ErrHuntNotFound
	}
	return s.evidenceRepo.ListByHuntID(h.ID)
}

func (s *HuntService) History(userID uint, limit, offset int) ([]models.Hunt, error) {
	return s.huntRepo.ListByUserID(userID, limit, offset)
}

func (s *HuntService) snapshot(h *models.Hunt, pos location.GeoPosition, heading float64) *Snapshot {
	ghost := h.GhostPosition()
	dist := location.DistanceMeters(pos, ghost)
	brg := location.Bearing(pos, ghost)
	return &Snapshot{
		HuntID:         h.ID,
		DistanceMeters: dist,
		Bearing:        brg,
		RadarBearing:   sensor.RadarWobble(s.rng, brg),
		Heading:        location.NormalizeBearing(heading),
		InRadarCone:    location.InForwardCone(brg, heading, location.RadarConeHalfAngle),
		InCameraCone:   location.InForwardCone(brg, heading, location.CameraConeHalfAngle),
		EMF:            sensor.EMFLevelFor(dist, h.GhostType.Personality),
		Thermal:        sensor.ThermalReadingFor(dist, h.GhostType.ThermalCategory),
		CameraOdds:     sensor.ManifestationFavorability(dist),
		Proximity:      proximity.For(dist, s.cfg.SignalRadius),
		At:             time.Now(),
	}
}

// record logs evidence, ignoring duplicates. Failures are logged, not returned:
// a lost journal entry must not break the reading.
func (s *HuntService) record(h *models.Hunt, snap *Snapshot, kind, value, photoURL string) *models.Evidence {
	e := &models.Evidence{
		HuntID:         h.ID,
		Kind:           kind,
		Value:          value,
		DistanceMeters: snap.DistanceMeters,
		Bearing:        snap.Bearing,
		PhotoURL:       photoURL,
		CapturedAt:     time.Now(),
	}
	created, err := s.evidenceRepo.Record(e)
	if err != nil {
		log.Printf("[hunt] record evidence hunt=%d kind=%s: %v", h.ID, kind, err)
		return nil
	}
	if !created {
		return nil
	}
	snap.NewEvidence = append(snap.NewEvidence, *e)
	return e
}

func (s *HuntService) checkAccuracy(pos location.GeoPosition) error {
	if s.cfg.MaxAccuracyMeters > 0 && pos.Accuracy > s.cfg.MaxAccuracyMeters {
		return ErrPoorAccuracy
	}
	return nil
}

func (s *HuntService) saveFix(userID uint, pos location.GeoPosition, heading float64) error {
	loc := &models.PlayerLocation{
		UserID:         userID,
		Latitude:       pos.Lat,
		Longitude:      pos.Lng,
		AccuracyMeters: pos.Accuracy,
		Heading:        location.NormalizeBearing(heading),
		LastUpdatedAt:  time.Now(),
	}
	if !pos.Timestamp.IsZero() {
		loc.LastUpdatedAt = pos.Timestamp
	}
	return s.locRepo.Upsert(loc)
}

func (s *HuntService) lastFix(userID uint) (*models.PlayerLocation, error) {
	loc, err := s.locRepo.GetByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoFix
	}
	return loc, err
}
