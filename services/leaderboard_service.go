package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"venturelync/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

var leaderboardFacets = map[string]string{
	"core":      "core_xp",
	"season":    "season_xp",
	"community": "community_xp",
}

var countryTitle = cases.Title(language.English)

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// LeaderboardRow is one ranked entry with the fields the board renders
type LeaderboardRow struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Username     string  `json:"username"`
	ProfileImage *string `json:"profile_image,omitempty"`
	Level        int     `json:"level"`
	Country      *string `json:"country,omitempty"`
	City         *string `json:"city,omitempty"`
	CoreXP       int64   `json:"core_xp"`
	EraXP        int64   `json:"era_xp"`
	SeasonXP     int64   `json:"season_xp"`
	CommunityXP  int64   `json:"community_xp"`
}

// GetLeaderboard returns the top 20 profiles for a facet, optionally
// filtered by country (input normalized to title case before matching).
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	facet := c.Query("type", "core")
	xpColumn, ok := leaderboardFacets[facet]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("unknown leaderboard type %q", facet),
		})
	}

	db := s.DB.Model(&models.UserProfile{})
	if country := strings.TrimSpace(c.Query("country")); country != "" {
		db = db.Where("country = ?", countryTitle.String(strings.ToLower(country)))
	}

	var rows []LeaderboardRow
	if err := db.
		Select("user_id, name, username, profile_image, level, country, city, core_xp, era_xp, season_xp, community_xp").
		Order(xpColumn + " DESC").
		Limit(20).
		Scan(&rows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch leaderboard",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"leaderboard": rows})
}

// RefreshSnapshots rebuilds the denormalized ranking rows for every facet.
// Runs from the scheduler; replaces each facet wholesale in one transaction
// so readers never see a half-built board.
func (s *LeaderboardService) RefreshSnapshots() error {
	for facet, xpColumn := range leaderboardFacets {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			type ranked struct {
				UserID string
				XP     int64
			}
			var top []ranked
			if err := tx.Model(&models.UserProfile{}).
				Select(fmt.Sprintf("user_id, %s AS xp", xpColumn)).
				Order(xpColumn + " DESC").
				Limit(100).
				Scan(&top).Error; err != nil {
				return err
			}

			if err := tx.Where("facet = ?", facet).
				Delete(&models.LeaderboardSnapshot{}).Error; err != nil {
				return err
			}

			now := time.Now()
			for i, r := range top {
				snap := models.LeaderboardSnapshot{
					ID:        uuid.NewString(),
					Facet:     facet,
					UserID:    r.UserID,
					Rank:      i + 1,
					XP:        r.XP,
					UpdatedAt: now,
				}
				if err := tx.Create(&snap).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("refresh %s leaderboard: %w", facet, err)
		}
	}
	log.Println("🏆 Leaderboard snapshots refreshed")
	return nil
}
