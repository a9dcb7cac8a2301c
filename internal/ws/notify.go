package ws

import (
	"context"
	"strconv"
	"time"

	"wellness-chat/internal/models"
	"wellness-chat/internal/observability"
	"wellness-chat/internal/push"
)

const (
	previewLimit  = 50
	previewCutoff = 47
	pushTimeout   = 10 * time.Second
)

// pushBody renders the notification body for a message type. Text
// previews are cut at 47 runes with an ellipsis once they pass 50.
func pushBody(msgType models.MessageType, content string) string {
	switch msgType {
	case models.MessageText:
		runes := []rune(content)
		if len(runes) > previewLimit {
			return string(runes[:previewCutoff]) + "..."
		}
		return content
	case models.MessageAudio:
		return "Sent you a voice message"
	case models.MessageImage:
		return "Sent you an image"
	case models.MessageProduct:
		return "Shared a product with you"
	case models.MessageOffices:
		return "Shared an office contact with you"
	case models.MessageJoin, models.MessageAssignExpert:
		return ""
	}
	return ""
}

// notifyAbsentPeers fans a push notification out to every room
// participant without a live connection. The whole path is best-effort:
// failures are counted and logged, never surfaced to the sender, and
// dispatch runs detached so it cannot delay the broadcast.
func (r *Router) notifyAbsentPeers(ctx context.Context, room models.Room, sender models.User, msg models.Message) {
	for _, peer := range r.roomPeers(ctx, room, sender.ID) {
		if peer.FCMToken == nil || *peer.FCMToken == "" {
			continue
		}
		if r.hub.IsUserConnected(peer.ID, room.ID) {
			continue
		}

		body := pushBody(msg.Type, msg.Content)
		record, err := r.notifications.CreateNotification(ctx, models.NewNotification{
			Title:        sender.Name,
			Body:         body,
			Type:         string(msg.Type),
			TargetUserID: peer.ID,
			SenderID:     sender.ID,
		})
		if err != nil {
			r.logger.Warnw("notification record failed", "room_id", room.ID, "target_user_id", peer.ID, "error", err)
		}

		intent := push.Intent{
			Token: *peer.FCMToken,
			Title: sender.Name,
			Body:  body,
			Data: map[string]string{
				"type":      string(msg.Type),
				"room_id":   strconv.Itoa(room.ID),
				"sender_id": strconv.Itoa(sender.ID),
			},
		}
		if record.ID != 0 {
			intent.Data["notification_id"] = strconv.Itoa(record.ID)
		}

		go r.dispatch(peer.ID, intent)
	}
}

func (r *Router) dispatch(targetUserID int, intent push.Intent) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	if err := r.push.Send(ctx, intent); err != nil {
		observability.IncPushDispatch("error")
		r.logger.Warnw("push dispatch failed", "target_user_id", targetUserID, "error", err)
		return
	}
	observability.IncPushDispatch("success")
}

// roomPeers resolves the room's participants other than the sender:
// the owning user and the assigned expert, when present.
func (r *Router) roomPeers(ctx context.Context, room models.Room, senderID int) []models.User {
	ids := make([]int, 0, 2)
	if room.UserID != senderID {
		ids = append(ids, room.UserID)
	}
	if room.ExpertID != nil && *room.ExpertID != senderID {
		ids = append(ids, *room.ExpertID)
	}

	peers := make([]models.User, 0, len(ids))
	for _, id := range ids {
		peer, err := r.users.GetUser(ctx, id)
		if err != nil {
			r.logger.Warnw("peer lookup failed", "room_id", room.ID, "user_id", id, "error", err)
			continue
		}
		peers = append(peers, peer)
	}
	return peers
}
