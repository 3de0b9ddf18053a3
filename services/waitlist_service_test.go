package services

import (
	"testing"

	"venturelync/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlistPendingCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewWaitlistService(db)

	entries := []models.WaitlistEntry{
		{ID: uuid.NewString(), Name: "A", Email: "a@example.com", WhatsappPhone: "+1", ProjectDescription: "saas", Role: "founder", LinkedinURL: "in/a"},
		{ID: uuid.NewString(), Name: "B", Email: "b@example.com", WhatsappPhone: "+2", ProjectDescription: "app", Role: "founder", LinkedinURL: "in/b", IsApproved: true},
		{ID: uuid.NewString(), Name: "C", Email: "c@example.com", WhatsappPhone: "+3", ProjectDescription: "tool", Role: "builder", LinkedinURL: "in/c"},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}

	count, err := svc.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
