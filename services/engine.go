package services

import (
	"time"
)

// PostXP is the flat award per progress update.
const PostXP int64 = 50

// XP needed per level; level is always XP/BaseXPPerLevel + 1.
const BaseXPPerLevel int64 = 100

// StreakBadgeDays and XPBadgeThreshold are the milestone triggers surfaced
// to the client as badge_unlocked.
const (
	StreakBadgeDays        = 7
	XPBadgeThreshold int64 = 1000
)

// ProgressSnapshot is the engine's view of a user's gamification state.
// It mirrors the progression columns of models.UserProfile without dragging
// the rest of the profile (or the DB) into the computation.
type ProgressSnapshot struct {
	XP                 int64
	Level              int
	Streak             int
	LastPostDate       *time.Time // UTC calendar date, nil if never posted
	FirstPostCompleted bool
}

// ProgressionEvent describes what one award changed. Ephemeral: built fresh
// per call and owned by the caller for the duration of one request.
type ProgressionEvent struct {
	XPAwarded     int64 `json:"xp_awarded"`
	NewXP         int64 `json:"new_xp"`
	NewLevel      int   `json:"new_level"`
	NewStreak     int   `json:"new_streak"`
	BadgeUnlocked bool  `json:"badge_unlocked"`
}

// AwardProgress computes the next gamification state for one qualifying
// activity. Pure and deterministic: no I/O, no clock reads — the caller
// supplies the activity's calendar date. prev == nil means first activity
// ever. The caller must validate baseAward > 0 and serialize updates per
// user (read-modify-write under one transaction); the engine itself never
// fails for well-formed inputs.
func AwardProgress(prev *ProgressSnapshot, activityDate time.Time, baseAward int64, firstPost bool) (ProgressSnapshot, ProgressionEvent) {
	var prior ProgressSnapshot
	if prev != nil {
		prior = *prev
	}

	day := CalendarDate(activityDate)

	newXP := prior.XP + baseAward
	newLevel := int(newXP/BaseXPPerLevel) + 1

	// Streak: +1 only when the new date is exactly the day after the stored
	// one; same-day repeats leave it untouched (posting twice in one day
	// neither inflates nor breaks a streak); anything else resets to 1.
	newStreak := 1
	if prior.LastPostDate != nil {
		switch daysBetween(*prior.LastPostDate, day) {
		case 0:
			newStreak = prior.Streak
		case 1:
			newStreak = prior.Streak + 1
		}
	}

	next := ProgressSnapshot{
		XP:                 newXP,
		Level:              newLevel,
		Streak:             newStreak,
		LastPostDate:       &day,
		FirstPostCompleted: prior.FirstPostCompleted || firstPost,
	}

	event := ProgressionEvent{
		XPAwarded:     baseAward,
		NewXP:         newXP,
		NewLevel:      newLevel,
		NewStreak:     newStreak,
		BadgeUnlocked: firstPost || newStreak == StreakBadgeDays || newXP == XPBadgeThreshold,
	}

	return next, event
}

// CalendarDate truncates a timestamp to its UTC calendar date (midnight UTC),
// the reference zone for all streak arithmetic.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole calendar days. Negative when b is
// before a (backdated submissions fall through to the streak reset branch).
func daysBetween(a, b time.Time) int {
	a = CalendarDate(a)
	b = CalendarDate(b)
	return int(b.Sub(a).Hours() / 24)
}
