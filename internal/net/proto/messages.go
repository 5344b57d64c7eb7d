// Package proto defines the websocket wire protocol for the path
// service: path queries, dynamic entity updates, and their replies.
package proto

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Version tracks the wire-protocol revision expected by clients.
const Version = 1

// Client message type identifiers.
const (
	TypePathRequest  = "pathRequest"
	TypeEntityUpdate = "entityUpdate"
	TypeHeartbeat    = "heartbeat"
)

// Server message type identifiers.
const (
	TypePathResponse = "pathResponse"
	TypeError        = "error"
)

// Envelope carries only the discriminator; the payload is decoded a
// second time once the type is known.
type Envelope struct {
	Type string `json:"type"`
}

// PathRequest asks for a path between two world positions for an
// agent of the given collision radius. ID is echoed on the response
// so clients can correlate concurrent queries.
type PathRequest struct {
	Type   string     `json:"type"`
	ID     string     `json:"id"`
	Start  mgl32.Vec3 `json:"start"`
	Goal   mgl32.Vec3 `json:"goal"`
	Radius float32    `json:"radius"`
}

// PathResponse answers a PathRequest. Found false means no path and
// an empty waypoint list.
type PathResponse struct {
	Type      string       `json:"type"`
	ID        string       `json:"id"`
	Found     bool         `json:"found"`
	Waypoints []mgl32.Vec3 `json:"waypoints,omitempty"`
}

// EntityState is one live actor's footprint for obstacle baking.
type EntityState struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Position mgl32.Vec3 `json:"position"`
	Radius   float32    `json:"radius"`
}

// EntityUpdate replaces the full dynamic obstacle set. Partial
// updates are deliberately unsupported; the baker rebuilds from the
// complete set every time.
type EntityUpdate struct {
	Type     string        `json:"type"`
	Entities []EntityState `json:"entities"`
}

// ErrorMessage reports a rejected or malformed request.
type ErrorMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// Entity kind identifiers accepted in EntityState.Kind.
const (
	KindPlayer          = "player"
	KindEnemy           = "enemy"
	KindProjectile      = "projectile"
	KindTemporaryEffect = "effect"
)

// DecodeEnvelope reads just the type discriminator.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return env, fmt.Errorf("decode envelope: missing type")
	}
	return env, nil
}

// DecodePathRequest decodes and sanity-checks a path request.
func DecodePathRequest(payload []byte) (PathRequest, error) {
	var req PathRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return req, fmt.Errorf("decode path request: %w", err)
	}
	if req.ID == "" {
		return req, fmt.Errorf("decode path request: missing id")
	}
	if req.Radius < 0 {
		return req, fmt.Errorf("decode path request: negative radius %v", req.Radius)
	}
	return req, nil
}

// DecodeEntityUpdate decodes a dynamic entity update.
func DecodeEntityUpdate(payload []byte) (EntityUpdate, error) {
	var upd EntityUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		return upd, fmt.Errorf("decode entity update: %w", err)
	}
	for i, e := range upd.Entities {
		if e.ID == "" {
			return upd, fmt.Errorf("decode entity update: entity %d missing id", i)
		}
		if e.Radius <= 0 {
			return upd, fmt.Errorf("decode entity update: entity %q has radius %v", e.ID, e.Radius)
		}
		switch e.Kind {
		case KindPlayer, KindEnemy, KindProjectile, KindTemporaryEffect:
		default:
			return upd, fmt.Errorf("decode entity update: entity %q has unknown kind %q", e.ID, e.Kind)
		}
	}
	return upd, nil
}

// EncodePathResponse renders a path response payload.
func EncodePathResponse(id string, waypoints []mgl32.Vec3, found bool) ([]byte, error) {
	return json.Marshal(PathResponse{
		Type:      TypePathResponse,
		ID:        id,
		Found:     found,
		Waypoints: waypoints,
	})
}

// EncodeError renders an error payload.
func EncodeError(id, message string) ([]byte, error) {
	return json.Marshal(ErrorMessage{
		Type:    TypeError,
		ID:      id,
		Message: message,
	})
}
