package services

import (
	"testing"

	"venturelync/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshSnapshotsRanksEveryFacet(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	profiles := []models.UserProfile{
		{ID: uuid.NewString(), UserID: "u1", Username: "alpha", Name: "Alpha", Level: 1, CoreXP: 300, SeasonXP: 10, CommunityXP: 50},
		{ID: uuid.NewString(), UserID: "u2", Username: "bravo", Name: "Bravo", Level: 1, CoreXP: 100, SeasonXP: 80, CommunityXP: 20},
		{ID: uuid.NewString(), UserID: "u3", Username: "charlie", Name: "Charlie", Level: 1, CoreXP: 200, SeasonXP: 40, CommunityXP: 90},
	}
	for i := range profiles {
		require.NoError(t, db.Create(&profiles[i]).Error)
	}

	require.NoError(t, svc.RefreshSnapshots())

	var core []models.LeaderboardSnapshot
	require.NoError(t, db.Where("facet = ?", "core").Order("rank ASC").Find(&core).Error)
	require.Len(t, core, 3)
	assert.Equal(t, "u1", core[0].UserID)
	assert.Equal(t, int64(300), core[0].XP)
	assert.Equal(t, "u3", core[1].UserID)
	assert.Equal(t, "u2", core[2].UserID)

	var community []models.LeaderboardSnapshot
	require.NoError(t, db.Where("facet = ?", "community").Order("rank ASC").Find(&community).Error)
	require.Len(t, community, 3)
	assert.Equal(t, "u3", community[0].UserID)

	// Second refresh replaces rather than appends
	require.NoError(t, svc.RefreshSnapshots())
	var total int64
	require.NoError(t, db.Model(&models.LeaderboardSnapshot{}).Count(&total).Error)
	assert.Equal(t, int64(9), total) // 3 facets × 3 users
}
