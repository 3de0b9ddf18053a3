// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSnapshotScheduler rebuilds leaderboard snapshots every 5 minutes and
// logs the waitlist review backlog hourly.
func StartSnapshotScheduler(leaderboards *LeaderboardService, waitlist *WaitlistService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			if err := leaderboards.RefreshSnapshots(); err != nil {
				log.Printf("[Scheduler] Leaderboard refresh failed: %v", err)
			}
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			count, err := waitlist.PendingCount()
			if err != nil {
				log.Printf("[Scheduler] Waitlist count failed: %v", err)
				return
			}
			if count > 0 {
				log.Printf("📋 %d waitlist entries awaiting review", count)
			}
		}),
	)
}
