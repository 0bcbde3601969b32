package domain

import "time"

// Websocket message types exchanged with gate/checkpoint/admin screens.
const (
	WSTypeSubscribe   = "subscribe"
	WSTypeUnsubscribe = "unsubscribe"
	WSTypeZoneUpdate  = "zone-update"
	WSTypeAdminUpdate = "admin-update"
)

// WSClientMessage is what a connected screen sends: subscribe/unsubscribe
// for a gate's zone updates.
type WSClientMessage struct {
	Type    string          `json:"type"`
	Payload WSClientPayload `json:"payload"`
}

type WSClientPayload struct {
	GateID string `json:"gateId"`
}

// ZoneUpdateMessage pushes the full recomputed zone payload after any
// mutating operation on the zone.
type ZoneUpdateMessage struct {
	Type    string    `json:"type"`
	Payload ZoneState `json:"payload"`
}

// AdminUpdate describes an administrative change (rates, zone open/close,
// schedule edits) and is broadcast to every connected client.
type AdminUpdate struct {
	ActorID    string         `json:"actorId"`
	Action     string         `json:"action"`
	TargetType string         `json:"targetType"`
	TargetID   string         `json:"targetId"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

type AdminUpdateMessage struct {
	Type    string      `json:"type"`
	Payload AdminUpdate `json:"payload"`
}
