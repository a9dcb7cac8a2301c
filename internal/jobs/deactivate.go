package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"wellness-chat/internal/repositories"
)

// ScheduleRoomCleanup registers the nightly job that deactivates rooms
// with no activity for idleFor.
func ScheduleRoomCleanup(scheduler *cron.Cron, rooms repositories.RoomRepository, idleFor time.Duration, logger *zap.SugaredLogger) error {
	_, err := scheduler.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		count, err := rooms.DeactivateIdleRooms(ctx, idleFor)
		if err != nil {
			logger.Errorw("idle room cleanup failed", "error", err)
			return
		}
		if count > 0 {
			logger.Infow("idle rooms deactivated", "count", count)
		}
	})
	return err
}
