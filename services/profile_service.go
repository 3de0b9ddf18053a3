package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"venturelync/models"
	"venturelync/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB     *gorm.DB
	Badges *BadgeService
}

func NewProfileService(db *gorm.DB, badges *BadgeService) *ProfileService {
	return &ProfileService{DB: db, Badges: badges}
}

// GetProfile returns the caller's full profile
func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var profile models.UserProfile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "profile not found, complete onboarding first",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch profile",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

// UpdateProfile applies a partial update; only fields present in the body
// are written. Progression columns are never writable here.
func (s *ProfileService) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		Name         *string `json:"name"`
		Bio          *string `json:"bio"`
		City         *string `json:"city"`
		Country      *string `json:"country"`
		WebsiteURL   *string `json:"website_url"`
		LinkedinURL  *string `json:"linkedin_url"`
		TwitterURL   *string `json:"twitter_url"`
		ProfileImage *string `json:"profile_image"`
		BannerImage  *string `json:"banner_image"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = req.Bio
	}
	if req.City != nil {
		updates["city"] = req.City
	}
	if req.Country != nil {
		updates["country"] = req.Country
	}
	if req.WebsiteURL != nil {
		updates["website_url"] = req.WebsiteURL
	}
	if req.LinkedinURL != nil {
		updates["linkedin_url"] = req.LinkedinURL
	}
	if req.TwitterURL != nil {
		updates["twitter_url"] = req.TwitterURL
	}
	if req.ProfileImage != nil {
		updates["profile_image"] = req.ProfileImage
	}
	if req.BannerImage != nil {
		updates["banner_image"] = req.BannerImage
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no fields to update"})
	}

	res := s.DB.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(updates)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update profile",
			"cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
	}

	var profile models.UserProfile
	if err := s.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to reload profile",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// SetupProfile creates or replaces the caller's profile during onboarding
func (s *ProfileService) SetupProfile(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		Username            string  `json:"username"`
		Name                string  `json:"name"`
		Bio                 *string `json:"bio"`
		ProfileImage        *string `json:"profile_image"`
		BannerImage         *string `json:"banner_image"`
		BuilderIntent       *string `json:"builder_intent"`
		LinkedinURL         *string `json:"linkedin_url"`
		TwitterURL          *string `json:"twitter_url"`
		WebsiteURL          *string `json:"website_url"`
		OnboardingCompleted bool    `json:"onboarding_completed"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}
	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
	}

	taken, err := s.usernameTaken(req.Username, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to check username",
			"cause": err.Error(),
		})
	}
	if taken {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username already taken"})
	}

	name := req.Name
	if name == "" {
		name = "Builder"
	}

	var profile models.UserProfile
	err = s.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == gorm.ErrRecordNotFound {
		profile = models.UserProfile{
			ID:     uuid.NewString(),
			UserID: userID,
			Level:  1,
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load profile",
			"cause": err.Error(),
		})
	}

	profile.Username = req.Username
	profile.Name = name
	profile.Bio = req.Bio
	profile.ProfileImage = req.ProfileImage
	profile.BannerImage = req.BannerImage
	profile.BuilderIntent = req.BuilderIntent
	profile.LinkedinURL = req.LinkedinURL
	profile.TwitterURL = req.TwitterURL
	profile.WebsiteURL = req.WebsiteURL
	profile.OnboardingCompleted = req.OnboardingCompleted

	if err := s.DB.Save(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save profile",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

// CheckUsername reports whether a username is still available
func (s *ProfileService) CheckUsername(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	username := c.Query("username")
	if username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
	}

	taken, err := s.usernameTaken(username, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to check username",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"available": !taken})
}

// SuggestedUsernames derives slug candidates from a display name and filters
// out the ones already claimed.
func (s *ProfileService) SuggestedUsernames(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	suggestions, err := s.SuggestUsernames(name, 5)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build suggestions",
			"cause": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// SuggestUsernames returns up to max available username candidates
func (s *ProfileService) SuggestUsernames(name string, max int) ([]string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "builder"
	}

	candidates := []string{base}
	for i := 1; len(candidates) < max+3; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", base, i))
	}

	var taken []string
	if err := s.DB.Model(&models.UserProfile{}).
		Where("username IN ?", candidates).
		Pluck("username", &taken).Error; err != nil {
		return nil, err
	}
	takenSet := make(map[string]bool, len(taken))
	for _, t := range taken {
		takenSet[t] = true
	}

	var out []string
	for _, cand := range candidates {
		if !takenSet[cand] {
			out = append(out, cand)
		}
		if len(out) == max {
			break
		}
	}
	return out, nil
}

// UploadImage stores an avatar or banner on R2 and saves the public URL.
// Field name selects the slot: "profile_image" or "banner_image".
func (s *ProfileService) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	slot := c.FormValue("slot", "profile_image")
	if slot != "profile_image" && slot != "banner_image" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "slot must be profile_image or banner_image"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image file is required"})
	}
	if file.Size > 10*1024*1024 { // 10MB
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image too large (max 10MB)"})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("%ss/%s%s", strings.TrimSuffix(slot, "_image"), uuid.NewString(), ext)

	var url string
	if utils.R2Enabled() {
		uploaded, err := utils.UploadFileToR2(file, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to upload image",
				"cause": err.Error(),
			})
		}
		url = uploaded
	} else {
		// Local dev fallback, served from the static /uploads route
		localPath := utils.GetUploadPath(key)
		if err := utils.SaveFile(file, localPath); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save image",
				"cause": err.Error(),
			})
		}
		url = "/uploads/" + key
	}

	res := s.DB.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Update(slot, url)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save image URL",
			"cause": res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
	}

	return c.JSON(fiber.Map{"url": url})
}

// GetBadges lists the caller's earned badges
func (s *ProfileService) GetBadges(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	badges, err := s.Badges.ListUserBadges(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get badges",
			"cause": err.Error(),
		})
	}
	if badges == nil {
		badges = []UserBadgeView{}
	}
	return c.JSON(fiber.Map{"badges": badges})
}

func (s *ProfileService) usernameTaken(username, exceptUserID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.UserProfile{}).
		Where("username = ? AND user_id != ?", username, exceptUserID).
		Count(&count).Error
	return count > 0, err
}
