package ws

import "time"

const wsRoutingKey = "ws_events.chat"

func wsEventPayload(info ConnInfo, event string, elapsed time.Duration, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"room_id":     info.RoomID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": elapsed.Milliseconds(),
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"user_id":   info.UserID,
			"role":      info.Role,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
