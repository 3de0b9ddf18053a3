package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAwardProgressFirstActivity(t *testing.T) {
	next, event := AwardProgress(nil, date(2025, time.March, 14), PostXP, true)

	assert.Equal(t, int64(50), next.XP)
	assert.Equal(t, 1, next.Level)
	assert.Equal(t, 1, next.Streak, "first activity always starts a streak of 1")
	assert.True(t, next.FirstPostCompleted)
	require.NotNil(t, next.LastPostDate)
	assert.Equal(t, date(2025, time.March, 14), *next.LastPostDate)
	assert.True(t, event.BadgeUnlocked, "first post is a milestone")
}

func TestAwardProgressXPAndLevel(t *testing.T) {
	tests := []struct {
		name      string
		priorXP   int64
		award     int64
		wantXP    int64
		wantLevel int
	}{
		{"zero to fifty", 0, 50, 50, 1},
		{"crosses level boundary", 50, 50, 100, 2},
		{"just below boundary", 40, 50, 90, 1},
		{"deep into levels", 930, 50, 980, 10},
		{"exact thousand", 950, 50, 1000, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := date(2025, time.June, 1)
			prev := &ProgressSnapshot{XP: tt.priorXP, Level: int(tt.priorXP/100) + 1, Streak: 1, LastPostDate: &d}
			next, event := AwardProgress(prev, d.AddDate(0, 0, 1), tt.award, false)
			assert.Equal(t, tt.wantXP, next.XP)
			assert.Equal(t, tt.wantLevel, next.Level)
			assert.Equal(t, tt.award, event.XPAwarded)
		})
	}
}

func TestAwardProgressStreakBranches(t *testing.T) {
	base := date(2025, time.May, 10)

	tests := []struct {
		name         string
		activityDate time.Time
		wantStreak   int
	}{
		{"next day increments", base.AddDate(0, 0, 1), 6},
		{"same day unchanged", base, 5},
		{"two day gap resets", base.AddDate(0, 0, 2), 1},
		{"week gap resets", base.AddDate(0, 0, 9), 1},
		{"backdated resets", base.AddDate(0, 0, -3), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := &ProgressSnapshot{XP: 0, Level: 1, Streak: 5, LastPostDate: &base}
			next, _ := AwardProgress(prev, tt.activityDate, PostXP, false)
			assert.Equal(t, tt.wantStreak, next.Streak)
		})
	}
}

func TestAwardProgressMissingLastDateStartsStreak(t *testing.T) {
	// A profile shell created by onboarding has no last_post_date yet.
	prev := &ProgressSnapshot{XP: 0, Level: 1, Streak: 0}
	next, _ := AwardProgress(prev, date(2025, time.May, 10), PostXP, false)
	assert.Equal(t, 1, next.Streak)
}

func TestAwardProgressBadgeMilestones(t *testing.T) {
	d := date(2025, time.April, 2)

	t.Run("streak hits seven", func(t *testing.T) {
		prev := &ProgressSnapshot{XP: 300, Level: 4, Streak: 6, LastPostDate: &d, FirstPostCompleted: true}
		_, event := AwardProgress(prev, d.AddDate(0, 0, 1), PostXP, false)
		assert.Equal(t, 7, event.NewStreak)
		assert.True(t, event.BadgeUnlocked)
	})

	t.Run("xp hits exactly one thousand", func(t *testing.T) {
		prev := &ProgressSnapshot{XP: 950, Level: 10, Streak: 2, LastPostDate: &d, FirstPostCompleted: true}
		_, event := AwardProgress(prev, d.AddDate(0, 0, 1), PostXP, false)
		assert.Equal(t, int64(1000), event.NewXP)
		assert.True(t, event.BadgeUnlocked)
	})

	t.Run("streak beyond seven does not refire", func(t *testing.T) {
		prev := &ProgressSnapshot{XP: 300, Level: 4, Streak: 7, LastPostDate: &d, FirstPostCompleted: true}
		_, event := AwardProgress(prev, d.AddDate(0, 0, 1), PostXP, false)
		assert.Equal(t, 8, event.NewStreak)
		assert.False(t, event.BadgeUnlocked)
	})

	t.Run("ordinary update unlocks nothing", func(t *testing.T) {
		prev := &ProgressSnapshot{XP: 200, Level: 3, Streak: 2, LastPostDate: &d, FirstPostCompleted: true}
		_, event := AwardProgress(prev, d.AddDate(0, 0, 1), PostXP, false)
		assert.Equal(t, int64(250), event.NewXP)
		assert.Equal(t, 3, event.NewStreak)
		assert.False(t, event.BadgeUnlocked)
	})
}

func TestAwardProgressFirstPostFlagLatches(t *testing.T) {
	d := date(2025, time.April, 2)
	prev := &ProgressSnapshot{XP: 100, Level: 2, Streak: 1, LastPostDate: &d, FirstPostCompleted: true}
	next, _ := AwardProgress(prev, d.AddDate(0, 0, 1), PostXP, false)
	assert.True(t, next.FirstPostCompleted, "flag stays true once set")
}

func TestAwardProgressDeterministic(t *testing.T) {
	d := date(2025, time.July, 7)
	prev := &ProgressSnapshot{XP: 420, Level: 5, Streak: 3, LastPostDate: &d, FirstPostCompleted: true}

	nextA, eventA := AwardProgress(prev, d.AddDate(0, 0, 1), PostXP, false)
	nextB, eventB := AwardProgress(prev, d.AddDate(0, 0, 1), PostXP, false)

	assert.Equal(t, nextA, nextB)
	assert.Equal(t, eventA, eventB)
	// input snapshot untouched
	assert.Equal(t, int64(420), prev.XP)
	assert.Equal(t, 3, prev.Streak)
}

func TestAwardProgressEndToEndScenario(t *testing.T) {
	// Day 1: first post ever.
	next, event := AwardProgress(nil, date(2025, time.January, 1), PostXP, true)
	assert.Equal(t, int64(50), next.XP)
	assert.Equal(t, 1, next.Level)
	assert.Equal(t, 1, next.Streak)
	assert.True(t, next.FirstPostCompleted)
	assert.True(t, event.BadgeUnlocked)

	// Day 2: consecutive.
	next, event = AwardProgress(&next, date(2025, time.January, 2), PostXP, false)
	assert.Equal(t, int64(100), next.XP)
	assert.Equal(t, 2, next.Level)
	assert.Equal(t, 2, next.Streak)
	assert.False(t, event.BadgeUnlocked)

	// Day 10: long gap resets the streak but XP keeps climbing.
	next, event = AwardProgress(&next, date(2025, time.January, 10), PostXP, false)
	assert.Equal(t, int64(150), next.XP)
	assert.Equal(t, 2, next.Level)
	assert.Equal(t, 1, next.Streak)
	assert.False(t, event.BadgeUnlocked)
	assert.Equal(t, date(2025, time.January, 10), *next.LastPostDate)
}

func TestCalendarDateNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	stamp := time.Date(2025, time.March, 1, 2, 30, 0, 0, loc) // Feb 28 21:00 UTC
	assert.Equal(t, date(2025, time.February, 28), CalendarDate(stamp))
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, time.March, 1, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(a, b))
	assert.Equal(t, -1, daysBetween(b, a))
	assert.Equal(t, 0, daysBetween(a, a))
}
