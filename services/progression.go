package services

import (
	"fmt"
	"log"
	"time"

	"venturelync/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Social XP weights credited to the facet ledger (tunable via config later)
type SocialXPWeights struct {
	LikeXP    int64
	CommentXP int64
}

var DefaultSocialXPWeights = SocialXPWeights{
	LikeXP:    5,
	CommentXP: 10,
}

type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// EnsureProfileShell creates an empty UserProfile row if none exists
// (idempotent). Called by the onboarding sync worker so progression state
// always has a home before the first post arrives.
func (s *ProgressionService) EnsureProfileShell(userID, username, name string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = models.UserProfile{
			ID:       uuid.NewString(),
			UserID:   userID,
			Username: username,
			Name:     name,
			Level:    1,
		}
		if err := s.DB.Create(&profile).Error; err != nil {
			return nil, err
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// RecordPost applies one qualifying activity atomically: insert the post,
// run the progression engine against the stored state, persist the new
// state — all inside a single transaction so a request cancelled mid-flight
// leaves nothing behind. Per-user serialization is the persistence
// boundary's contract; cross-user updates proceed fully in parallel.
func (s *ProgressionService) RecordPost(userID, content string, firstPost bool, activityDate time.Time) (*models.Post, ProgressionEvent, error) {
	var post *models.Post
	var event ProgressionEvent

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("profile not found for %s", userID)
			}
			return err
		}

		prev := &ProgressSnapshot{
			XP:                 profile.XP,
			Level:              profile.Level,
			Streak:             profile.Streak,
			LastPostDate:       profile.LastPostDate,
			FirstPostCompleted: profile.FirstPostCompleted,
		}
		next, ev := AwardProgress(prev, activityDate, PostXP, firstPost)

		post = &models.Post{
			ID:       uuid.NewString(),
			UserID:   userID,
			Content:  content,
			XPEarned: ev.XPAwarded,
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		profile.XP = next.XP
		profile.Level = next.Level
		profile.Streak = next.Streak
		profile.LastPostDate = next.LastPostDate
		profile.FirstPostCompleted = next.FirstPostCompleted
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		// Durable badge grants ride the same transaction; the engine's
		// milestone predicate refires freely but inserts dedupe on prior
		// grants.
		badgeSvc := NewBadgeService(tx)
		if err := badgeSvc.AwardMilestones(userID, ev, firstPost, post.ID); err != nil {
			return err
		}

		event = ev
		log.Printf("🎮 Post recorded: %s → XP=%d, Lvl=%d, Streak=%d, badge=%t",
			userID, ev.NewXP, ev.NewLevel, ev.NewStreak, ev.BadgeUnlocked)
		return nil
	})
	if err != nil {
		return nil, ProgressionEvent{}, err
	}
	return post, event, nil
}

// AwardSocialXP credits the core ledger plus one facet column in a single
// UPDATE (likes → reputation, comments → community). Social XP never touches
// level or streak.
func (s *ProgressionService) AwardSocialXP(userID string, amount int64, facet string) error {
	updates := map[string]interface{}{
		"core_xp": gorm.Expr("core_xp + ?", amount),
	}
	switch facet {
	case "reputation":
		updates["reputation_xp"] = gorm.Expr("reputation_xp + ?", amount)
	case "community":
		updates["community_xp"] = gorm.Expr("community_xp + ?", amount)
	case "season":
		updates["season_xp"] = gorm.Expr("season_xp + ?", amount)
	default:
		return fmt.Errorf("unknown XP facet %q", facet)
	}

	res := s.DB.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile not found for %s", userID)
	}
	return nil
}

// GrantXP is the admin backdoor: adds XP and recomputes the level without
// touching streak state. Amount must already be validated positive.
func (s *ProgressionService) GrantXP(userID string, xp int64, reason string) (*models.UserProfile, error) {
	var updated *models.UserProfile
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var profile models.UserProfile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
			return fmt.Errorf("profile not found for %s", userID)
		}

		profile.XP += xp
		profile.Level = int(profile.XP/BaseXPPerLevel) + 1
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}

		updated = &models.UserProfile{}
		*updated = profile
		log.Printf("🎮 XP granted: %s → XP=%d, Lvl=%d (reason: %s)", userID, profile.XP, profile.Level, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
