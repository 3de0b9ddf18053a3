package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"venturelync/models"
	"venturelync/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.BadgeType{},
		&models.UserBadge{},
		&models.WaitlistEntry{},
		&models.LeaderboardSnapshot{},
	))

	badgeService := services.NewBadgeService(db)
	require.NoError(t, badgeService.SeedCatalog())
	progressionService := services.NewProgressionService(db)
	postService := services.NewPostService(db, progressionService)
	profileService := services.NewProfileService(db, badgeService)
	leaderboardService := services.NewLeaderboardService(db)
	waitlistService := services.NewWaitlistService(db)

	app := fiber.New()
	SetupPostRoutes(app, postService)
	SetupProfileRoutes(app, profileService)
	SetupLeaderboardRoutes(app, leaderboardService)
	SetupWaitlistRoutes(app, waitlistService, progressionService)
	return app, db
}

func seedTestProfile(t *testing.T, db *gorm.DB, userID, username string) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserProfile{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: username,
		Name:     "Builder",
		Level:    1,
	}).Error)
}

func doJSON(t *testing.T, app *fiber.App, method, path, userID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestCreatePostRequiresUserContext(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := doJSON(t, app, "POST", "/posts", "", map[string]interface{}{"content": "hi"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body["error"], "X-User-ID")
}

func TestCreatePostFlow(t *testing.T) {
	app, db := newTestApp(t)
	seedTestProfile(t, db, "u1", "alpha")

	status, body := doJSON(t, app, "POST", "/posts", "u1", map[string]interface{}{
		"content":       "shipped onboarding",
		"is_first_post": true,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(50), body["xp_earned"])
	assert.Equal(t, float64(1), body["new_streak"])
	assert.Equal(t, true, body["badge_unlocked"])

	status, body = doJSON(t, app, "POST", "/posts", "u1", map[string]interface{}{"content": "   "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "content is required", body["error"])
}

func TestLikeToggleAndCommentFlow(t *testing.T) {
	app, db := newTestApp(t)
	seedTestProfile(t, db, "author", "alpha")
	seedTestProfile(t, db, "fan", "bravo")

	status, body := doJSON(t, app, "POST", "/posts", "author", map[string]interface{}{
		"content": "day 12: api is up", "is_first_post": true,
	})
	require.Equal(t, fiber.StatusOK, status)
	postID := body["post_id"].(string)

	// like, then unlike
	status, body = doJSON(t, app, "POST", "/posts/"+postID+"/like", "fan", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["liked"])

	var fan models.UserProfile
	require.NoError(t, db.Where("user_id = ?", "fan").First(&fan).Error)
	assert.Equal(t, int64(5), fan.CoreXP)
	assert.Equal(t, int64(5), fan.ReputationXP)

	status, body = doJSON(t, app, "POST", "/posts/"+postID+"/like", "fan", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["liked"])

	// comment credits community XP
	status, _ = doJSON(t, app, "POST", "/comments", "fan", map[string]interface{}{
		"post_id": postID, "content": "congrats!",
	})
	require.Equal(t, fiber.StatusOK, status)

	require.NoError(t, db.Where("user_id = ?", "fan").First(&fan).Error)
	assert.Equal(t, int64(15), fan.CoreXP)
	assert.Equal(t, int64(10), fan.CommunityXP)

	status, body = doJSON(t, app, "GET", "/comments?post_id="+postID, "fan", nil)
	require.Equal(t, fiber.StatusOK, status)
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 1)
}

func TestProfileSetupAndUsernameCheck(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, "POST", "/user/profile/setup", "u1", map[string]interface{}{
		"username": "maker", "name": "Maker", "onboarding_completed": true,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	// second user can't claim the same handle
	status, body = doJSON(t, app, "POST", "/user/profile/setup", "u2", map[string]interface{}{
		"username": "maker", "name": "Other",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "username already taken", body["error"])

	status, body = doJSON(t, app, "GET", "/user/profile/check-username?username=maker", "u2", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["available"])
}

func TestWaitlistSubmitAndInviteCheck(t *testing.T) {
	app, _ := newTestApp(t)

	entry := map[string]interface{}{
		"name": "Jane", "email": "jane@example.com", "whatsapp": "+123",
		"project": "fintech tool", "linkedin": "in/jane", "role": "founder",
	}
	status, body := doJSON(t, app, "POST", "/waitlist", "", entry)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, _ = doJSON(t, app, "POST", "/waitlist", "", entry)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = doJSON(t, app, "POST", "/auth/check-invite", "", map[string]interface{}{"email": "jane@example.com"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["invited"])

	status, body = doJSON(t, app, "POST", "/auth/check-invite", "", map[string]interface{}{"email": "nobody@example.com"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "You haven't requested an invite yet.", body["message"])
}

func TestAdminRoutesRequireRole(t *testing.T) {
	app, db := newTestApp(t)
	seedTestProfile(t, db, "u1", "alpha")

	req := httptest.NewRequest("GET", "/s/admin/waitlist", nil)
	req.Header.Set("X-User-ID", "u1")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/s/admin/waitlist", nil)
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-User-Roles", "admin")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminXPGrantValidation(t *testing.T) {
	app, db := newTestApp(t)
	seedTestProfile(t, db, "u1", "alpha")

	grant := func(body map[string]interface{}) (int, map[string]interface{}) {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		req := httptest.NewRequest("POST", "/s/admin/xp/grant", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "admin-1")
		req.Header.Set("X-User-Roles", "admin")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		var decoded map[string]interface{}
		rawBody, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(rawBody, &decoded)
		return resp.StatusCode, decoded
	}

	status, _ := grant(map[string]interface{}{"user_id": "u1", "xp": -10})
	assert.Equal(t, fiber.StatusBadRequest, status, "negative awards rejected at the boundary")

	status, body := grant(map[string]interface{}{"user_id": "u1", "xp": 120, "reason": "contest"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(120), body["xp"])
	assert.Equal(t, float64(2), body["level"])
}
