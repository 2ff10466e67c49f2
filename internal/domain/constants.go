package domain

const (
	RolePlayer = "PLAYER"
	RoleAdmin  = "ADMIN"
)

const (
	HuntStatusActive    = "ACTIVE"
	HuntStatusSolved    = "SOLVED"
	HuntStatusAbandoned = "ABANDONED"
)

const (
	EvidenceEMF5        = "EMF_5"
	EvidenceColdReading = "COLD_READING"
	EvidencePhoto       = "PHOTO"
	EvidenceSpiritBox   = "SPIRIT_BOX"
)

const (
	ToolEMF       = "EMF"
	ToolThermal   = "THERMAL"
	ToolCamera    = "CAMERA"
	ToolSpiritBox = "SPIRIT_BOX"
	ToolRadar     = "RADAR"
)
