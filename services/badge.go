package services

import (
	"fmt"
	"log"

	"venturelync/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// SeedCatalog upserts the predefined badge types (idempotent, run at boot)
func (s *BadgeService) SeedCatalog() error {
	for _, badge := range models.BadgeCatalog {
		var existing models.BadgeType
		err := s.DB.Where("code = ?", badge.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			badge.ID = uuid.NewString()
			if err := s.DB.Create(&badge).Error; err != nil {
				return fmt.Errorf("failed to seed badge %s: %w", badge.Code, err)
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// AwardMilestones turns the engine's milestone signal into durable grants.
// The engine recomputes its predicate from the post-update snapshot every
// call with no memory of prior unlocks, so the already-awarded check here is
// what keeps a streak re-hitting 7 from inserting a second badge row.
func (s *BadgeService) AwardMilestones(userID string, event ProgressionEvent, firstPost bool, postID string) error {
	if firstPost {
		if err := s.grantOnce(userID, models.BadgeFirstPost, fmt.Sprintf(`{"post_id":%q}`, postID)); err != nil {
			return err
		}
	}
	if event.NewStreak == StreakBadgeDays {
		if err := s.grantOnce(userID, models.BadgeStreak7, fmt.Sprintf(`{"post_id":%q,"streak":%d}`, postID, event.NewStreak)); err != nil {
			return err
		}
	}
	if event.NewXP == XPBadgeThreshold {
		if err := s.grantOnce(userID, models.BadgeXP1000, fmt.Sprintf(`{"post_id":%q,"xp":%d}`, postID, event.NewXP)); err != nil {
			return err
		}
	}
	return nil
}

// grantOnce awards a badge by code unless the user already holds it
func (s *BadgeService) grantOnce(userID, code, metadata string) error {
	var badgeType models.BadgeType
	if err := s.DB.Where("code = ?", code).First(&badgeType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("⚠️ Badge type %s not seeded, skipping grant for %s", code, userID)
			return nil
		}
		return err
	}

	var count int64
	if err := s.DB.Model(&models.UserBadge{}).
		Where("user_id = ? AND badge_type_id = ?", userID, badgeType.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // already earned
	}

	userBadge := models.UserBadge{
		ID:          uuid.NewString(),
		UserID:      userID,
		BadgeTypeID: badgeType.ID,
		Metadata:    metadata,
	}
	if err := s.DB.Create(&userBadge).Error; err != nil {
		return err
	}
	log.Printf("🎖️ Badge awarded: %s → %s", badgeType.Name, userID)
	return nil
}

// UserBadgeView is the API shape for a user's earned badges
type UserBadgeView struct {
	ID          string `json:"id"`
	BadgeTypeID string `json:"badge_type_id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      string `json:"rarity"`
	EarnedAt    string `json:"earned_at"`
	Metadata    string `json:"metadata,omitempty"`
}

// ListUserBadges returns a user's badges newest-first
func (s *BadgeService) ListUserBadges(userID string) ([]UserBadgeView, error) {
	var views []UserBadgeView
	err := s.DB.Raw(`
		SELECT ub.id, bt.id AS badge_type_id, bt.code, bt.name, bt.description,
		       bt.icon, bt.rarity, ub.earned_at, ub.metadata
		FROM user_badges ub
		INNER JOIN badge_types bt ON bt.id = ub.badge_type_id
		WHERE ub.user_id = ?
		ORDER BY ub.earned_at DESC
	`, userID).Scan(&views).Error
	return views, err
}
