package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wellness-chat/internal/mocks"
	"wellness-chat/internal/models"
	"wellness-chat/internal/repositories"
)

func newService() (*RoomService, *mocks.RoomRepositoryMock, *mocks.UserRepositoryMock) {
	rooms := new(mocks.RoomRepositoryMock)
	users := new(mocks.UserRepositoryMock)
	return NewRoomService(rooms, users, zap.NewNop().Sugar()), rooms, users
}

func expert(id int) models.User {
	return models.User{ID: id, Role: models.RoleExpert}
}

func TestLeastBusyExpertPicksLowestLoad(t *testing.T) {
	svc, rooms, users := newService()

	users.On("ListExperts", mock.Anything).Return([]models.User{expert(10), expert(11), expert(12)}, nil)
	rooms.On("CountActiveRoomsForExpert", mock.Anything, 10).Return(2, nil)
	rooms.On("CountActiveRoomsForExpert", mock.Anything, 11).Return(0, nil)
	rooms.On("CountActiveRoomsForExpert", mock.Anything, 12).Return(1, nil)

	best, err := svc.LeastBusyExpert(context.Background())
	require.NoError(t, err)
	require.NotNil(t, best)
	require.Equal(t, 11, best.ID)
}

func TestLeastBusyExpertTieBreaksOnFirst(t *testing.T) {
	svc, rooms, users := newService()

	users.On("ListExperts", mock.Anything).Return([]models.User{expert(10), expert(11)}, nil)
	rooms.On("CountActiveRoomsForExpert", mock.Anything, 10).Return(1, nil)
	rooms.On("CountActiveRoomsForExpert", mock.Anything, 11).Return(1, nil)

	best, err := svc.LeastBusyExpert(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, best.ID)
}

func TestLeastBusyExpertNoneAvailable(t *testing.T) {
	svc, _, users := newService()

	users.On("ListExperts", mock.Anything).Return([]models.User{}, nil)

	best, err := svc.LeastBusyExpert(context.Background())
	require.NoError(t, err)
	require.Nil(t, best)
}

func TestGetOrCreateRoomAssignsExpertToNewUserRoom(t *testing.T) {
	svc, rooms, users := newService()
	user := models.User{ID: 1, Name: "Alice", Role: models.RoleUser}

	rooms.On("GetActiveRoomForUser", mock.Anything, 1).Return(nil, repositories.ErrRoomNotFound).Once()
	users.On("ListExperts", mock.Anything).Return([]models.User{expert(10)}, nil).Once()
	rooms.On("CountActiveRoomsForExpert", mock.Anything, 10).Return(0, nil).Once()
	rooms.On("CreateRoom", mock.Anything, 1, mock.MatchedBy(func(name *string) bool {
		return name != nil && *name == "Alice's Chat"
	}), mock.MatchedBy(func(expertID *int) bool {
		return expertID != nil && *expertID == 10
	})).Return(models.Room{ID: 7, UserID: 1, ExpertID: intPtr(10), IsActive: true}, nil).Once()

	room, created, err := svc.GetOrCreateRoom(context.Background(), user)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 7, room.ID)
	rooms.AssertExpectations(t)
}

func TestGetOrCreateRoomIsIdempotent(t *testing.T) {
	svc, rooms, users := newService()
	user := models.User{ID: 1, Name: "Alice", Role: models.RoleUser}
	existing := models.Room{ID: 7, UserID: 1, IsActive: true}

	rooms.On("GetActiveRoomForUser", mock.Anything, 1).Return(existing, nil)

	first, created, err := svc.GetOrCreateRoom(context.Background(), user)
	require.NoError(t, err)
	require.False(t, created)

	second, created, err := svc.GetOrCreateRoom(context.Background(), user)
	require.NoError(t, err)
	require.False(t, created)

	require.Equal(t, first.ID, second.ID)
	users.AssertNotCalled(t, "ListExperts", mock.Anything)
	rooms.AssertNotCalled(t, "CreateRoom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrCreateRoomSkipsAssignmentForExpert(t *testing.T) {
	svc, rooms, users := newService()
	user := models.User{ID: 2, Name: "Dr. Bob", Role: models.RoleExpert}

	rooms.On("GetActiveRoomForUser", mock.Anything, 2).Return(nil, repositories.ErrRoomNotFound)
	rooms.On("CreateRoom", mock.Anything, 2, mock.AnythingOfType("*string"), (*int)(nil)).
		Return(models.Room{ID: 8, UserID: 2, IsActive: true}, nil)

	room, created, err := svc.GetOrCreateRoom(context.Background(), user)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, 8, room.ID)
	users.AssertNotCalled(t, "ListExperts", mock.Anything)
}

func TestGetOrCreateRoomCreatesWithoutExperts(t *testing.T) {
	svc, rooms, users := newService()
	user := models.User{ID: 1, Name: "Alice", Role: models.RoleUser}

	rooms.On("GetActiveRoomForUser", mock.Anything, 1).Return(nil, repositories.ErrRoomNotFound)
	users.On("ListExperts", mock.Anything).Return([]models.User{}, nil)
	rooms.On("CreateRoom", mock.Anything, 1, mock.AnythingOfType("*string"), (*int)(nil)).
		Return(models.Room{ID: 9, UserID: 1, IsActive: true}, nil)

	room, created, err := svc.GetOrCreateRoom(context.Background(), user)
	require.NoError(t, err)
	require.True(t, created)
	require.Nil(t, room.ExpertID)
}

func TestCanAccessRoom(t *testing.T) {
	room := models.Room{ID: 1, UserID: 1, ExpertID: intPtr(2)}

	require.True(t, CanAccessRoom(models.User{ID: 1, Role: models.RoleUser}, room))
	require.True(t, CanAccessRoom(models.User{ID: 2, Role: models.RoleExpert}, room))
	require.True(t, CanAccessRoom(models.User{ID: 99, Role: models.RoleAdmin}, room))
	require.False(t, CanAccessRoom(models.User{ID: 3, Role: models.RoleUser}, room))
	require.False(t, CanAccessRoom(models.User{ID: 3, Role: models.RoleExpert}, room))
}

func intPtr(i int) *int { return &i }
