// services/scheduler.go
package services

import (
	"log"
	"time"

	"recycle-rewards-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartHeartbeatSweeper marks online devices offline once their last
// heartbeat is older than staleAfter. Devices in maintenance are left
// alone so a unit taken down on purpose does not flap.
func (s *DeviceService) StartHeartbeatSweeper(staleAfter time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			n, err := s.SweepStaleHeartbeats(staleAfter)
			if err != nil {
				log.Printf("[Sweeper] DB error: %v", err)
				return
			}
			if n > 0 {
				log.Printf("✅ Marked %d stale device(s) offline", n)
			}
		}),
	)
}

// SweepStaleHeartbeats is the sweep itself, separated so tests can call
// it directly. Returns how many devices were flipped.
func (s *DeviceService) SweepStaleHeartbeats(staleAfter time.Duration) (int64, error) {
	cutoff := time.Now().Add(-staleAfter)
	res := s.DB.Model(&models.Device{}).
		Where("status = ?", models.DeviceStatusOnline).
		Where("last_heartbeat IS NULL OR last_heartbeat < ?", cutoff).
		Update("status", models.DeviceStatusOffline)
	return res.RowsAffected, res.Error
}
