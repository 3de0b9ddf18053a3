// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"venturelync/models"
	"venturelync/services"
	"venturelync/utils"

	"gorm.io/gorm"
)

// ApprovedUserFromAuth matches the JSON the auth service returns for
// members whose invite was approved and who finished account creation.
type ApprovedUserFromAuth struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetApprovedUsersResponse is the top-level structure of the auth service response.
type GetApprovedUsersResponse struct {
	Users []ApprovedUserFromAuth `json:"users"`
}

// ProfileSyncWorker polls the auth service and creates empty profile shells
// for newly approved members, so gamification state exists before their
// first post arrives.
type ProfileSyncWorker struct {
	db           *gorm.DB
	progression  *services.ProgressionService
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/internal/users"
	serviceToken string
	httpClient   *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, progression *services.ProgressionService, authServiceBaseURL, endpointPath, serviceToken string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:           db,
		progression:  progression,
		interval:     1 * time.Minute,
		baseURL:      authServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (auth-service → user_profiles)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Profile sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent CreatedAt from our local profiles.
func (w *ProfileSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	w.db.Model(&models.UserProfile{}).
		Select("COALESCE(MAX(created_at), '0001-01-01')").
		Scan(&lastTime)
	return lastTime
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	endpoint, err := url.Parse(w.baseURL + w.endpointPath)
	if err != nil {
		return fmt.Errorf("invalid sync endpoint: %w", err)
	}
	q := endpoint.Query()
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	q.Set("approved", "true")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("auth service returned %d: %s", resp.StatusCode, string(body))
	}

	var payload GetApprovedUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode auth service response: %w", err)
	}

	created := 0
	for _, u := range payload.Users {
		username := u.Username
		if username == "" {
			// placeholder until onboarding picks one
			username = "builder-" + u.ID
			if len(u.ID) >= 8 {
				username = "builder-" + u.ID[:8]
			}
		}
		name := u.Name
		if name == "" {
			name = "Builder"
		}
		if _, err := w.progression.EnsureProfileShell(u.ID, username, name); err != nil {
			log.Printf("⚠️ Failed to ensure profile for %s: %v", u.ID, err)
			continue
		}
		created++
	}

	if created > 0 {
		log.Printf("👥 Profile sync: processed %d approved users", created)
	}
	return nil
}
