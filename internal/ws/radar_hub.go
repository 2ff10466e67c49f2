package ws

import (
	"deadsignal/internal/service"
)

// RadarFrame is one message on the radar channel.
type RadarFrame struct {
	Type     string            `json:"type"`
	Snapshot *service.Snapshot `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// RadarHub pushes fresh readings to each player's open radar sockets.
type RadarHub struct {
	*Hub
}

func NewRadarHub() *RadarHub {
	return &RadarHub{Hub: NewHub()}
}

// PublishRadar implements service.RadarPublisher.
func (r *RadarHub) PublishRadar(userID uint, snap *service.Snapshot) {
	r.BroadcastToUser(userID, RadarFrame{Type: "radar", Snapshot: snap})
}
