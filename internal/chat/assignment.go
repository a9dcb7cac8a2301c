package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"wellness-chat/internal/models"
	"wellness-chat/internal/repositories"
)

// RoomService owns room creation and expert load-balancing.
type RoomService struct {
	rooms  repositories.RoomRepository
	users  repositories.UserRepository
	logger *zap.SugaredLogger
}

// NewRoomService constructs a RoomService.
func NewRoomService(rooms repositories.RoomRepository, users repositories.UserRepository, logger *zap.SugaredLogger) *RoomService {
	return &RoomService{rooms: rooms, users: users, logger: logger}
}

// GetOrCreateRoom returns the user's existing active room, creating one
// when none exists. Repeated calls return the same room while it stays
// active. On creation for a plain user the least busy expert is
// assigned automatically; no expert available is not an error.
func (s *RoomService) GetOrCreateRoom(ctx context.Context, user models.User) (models.Room, bool, error) {
	room, err := s.rooms.GetActiveRoomForUser(ctx, user.ID)
	if err == nil {
		return room, false, nil
	}
	if !errors.Is(err, repositories.ErrRoomNotFound) {
		return models.Room{}, false, err
	}

	name := fmt.Sprintf("%s's Chat", user.Name)
	var expertID *int
	if user.Role == models.RoleUser {
		expert, err := s.LeastBusyExpert(ctx)
		if err != nil {
			s.logger.Warnw("expert assignment skipped", "user_id", user.ID, "error", err)
		} else if expert != nil {
			expertID = &expert.ID
		}
	}

	// Two concurrent first-time creations can both observe the same
	// least-busy expert and assign to them; the load balancer is greedy,
	// not transactional.
	created, err := s.rooms.CreateRoom(ctx, user.ID, &name, expertID)
	if err != nil {
		return models.Room{}, false, err
	}
	return created, true, nil
}

// LeastBusyExpert picks the expert with the fewest active rooms, first
// encountered winning ties. Returns nil when no experts exist.
func (s *RoomService) LeastBusyExpert(ctx context.Context) (*models.User, error) {
	experts, err := s.users.ListExperts(ctx)
	if err != nil {
		return nil, err
	}
	if len(experts) == 0 {
		return nil, nil
	}

	var best *models.User
	bestLoad := 0
	for i := range experts {
		load, err := s.rooms.CountActiveRoomsForExpert(ctx, experts[i].ID)
		if err != nil {
			return nil, err
		}
		if best == nil || load < bestLoad {
			best = &experts[i]
			bestLoad = load
		}
	}
	return best, nil
}

// AssignExpert explicitly reassigns a room's expert.
func (s *RoomService) AssignExpert(ctx context.Context, roomID int, expertID int) (models.Room, error) {
	return s.rooms.AssignExpert(ctx, roomID, expertID)
}

// CanAccessRoom reports whether the user may join or read the room:
// its owner, its assigned expert, or any admin.
func CanAccessRoom(user models.User, room models.Room) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	if room.UserID == user.ID {
		return true
	}
	return room.ExpertID != nil && *room.ExpertID == user.ID
}
