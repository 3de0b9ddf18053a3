package services

import (
	"log"
	"strings"

	"venturelync/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WaitlistService struct {
	DB *gorm.DB
}

func NewWaitlistService(db *gorm.DB) *WaitlistService {
	return &WaitlistService{DB: db}
}

// Submit records an invite request. Duplicate emails are rejected so one
// person can't flood the review queue.
func (s *WaitlistService) Submit(c *fiber.Ctx) error {
	type Req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Whatsapp string `json:"whatsapp"`
		Project  string `json:"project"`
		Linkedin string `json:"linkedin"`
		Twitter  string `json:"twitter"`
		Website  string `json:"website"`
		Role     string `json:"role"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}
	if req.Name == "" || req.Email == "" || req.Whatsapp == "" || req.Project == "" || req.Linkedin == "" || req.Role == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing required fields"})
	}

	entry := models.WaitlistEntry{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		WhatsappPhone:      req.Whatsapp,
		ProjectDescription: req.Project,
		Role:               req.Role,
		LinkedinURL:        req.Linkedin,
	}
	if req.Twitter != "" {
		entry.TwitterURL = &req.Twitter
	}
	if req.Website != "" {
		entry.WebsiteURL = &req.Website
	}

	if err := s.DB.Create(&entry).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "UNIQUE") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already on the waitlist"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to submit waitlist form",
			"cause": err.Error(),
		})
	}

	// Welcome email delivery is owned by the comms service; we only log here.
	log.Printf("📬 Waitlist signup: %s <%s> (%s)", entry.Name, entry.Email, entry.Role)

	return c.JSON(fiber.Map{"success": true})
}

// CheckInvite tells a signup page whether an email has been approved yet
func (s *WaitlistService) CheckInvite(c *fiber.Ctx) error {
	type Req struct {
		Email string `json:"email"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	var entry models.WaitlistEntry
	err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return c.JSON(fiber.Map{
			"invited": false,
			"message": "You haven't requested an invite yet.",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to check invite status",
			"cause": err.Error(),
		})
	}

	if !entry.IsApproved {
		return c.JSON(fiber.Map{
			"invited": false,
			"message": "Your invite request is still being reviewed.",
		})
	}
	return c.JSON(fiber.Map{"invited": true})
}

// AdminList returns the full review queue, newest first
func (s *WaitlistService) AdminList(c *fiber.Ctx) error {
	var entries []models.WaitlistEntry
	if err := s.DB.Order("created_at DESC").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch waitlist",
			"cause": err.Error(),
		})
	}
	return c.JSON(entries)
}

// AdminReview approves or un-approves an entry
func (s *WaitlistService) AdminReview(c *fiber.Ctx) error {
	type Req struct {
		ID         string `json:"id"`
		IsApproved bool   `json:"is_approved"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id is required"})
	}

	var entry models.WaitlistEntry
	if err := s.DB.Where("id = ?", req.ID).First(&entry).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "waitlist entry not found"})
	}

	entry.IsApproved = req.IsApproved
	if err := s.DB.Save(&entry).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update waitlist entry",
			"cause": err.Error(),
		})
	}

	if req.IsApproved {
		// Approval email goes out via the comms service
		log.Printf("✅ Waitlist approved: %s <%s>", entry.Name, entry.Email)
	}

	return c.JSON(fiber.Map{"success": true})
}

// PendingCount returns how many entries still await review
func (s *WaitlistService) PendingCount() (int64, error) {
	var count int64
	err := s.DB.Model(&models.WaitlistEntry{}).
		Where("is_approved = ?", false).
		Count(&count).Error
	return count, err
}
