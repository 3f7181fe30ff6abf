package achievements

import (
	"path/filepath"
	"testing"

	"github.com/AriyoX/baby-steps/models"
	"github.com/AriyoX/baby-steps/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testCatalog() []models.Achievement {
	return []models.Achievement{
		{ID: uuid.New(), Name: "First Steps", ActivityType: models.ActivityFirstPlay, Points: 5, TriggerValue: 1},
		{ID: uuid.New(), Name: "Number Starter", ActivityType: models.ActivityLevelComplete, Points: 10, TriggerValue: 3, GameKey: models.GameCounting},
		{ID: uuid.New(), Name: "Counting Champion", ActivityType: models.ActivityLevelComplete, Points: 25, TriggerValue: 10, GameKey: models.GameCounting},
		{ID: uuid.New(), Name: "Young Artist", ActivityType: models.ActivityLevelsCompleted, Points: 10, TriggerValue: 5, GameKey: models.GameColoring},
		{ID: uuid.New(), Name: "Point Collector", ActivityType: models.ActivityTotalScore, Points: 20, TriggerValue: 100},
		{ID: uuid.New(), Name: "Explorer", ActivityType: models.ActivityGamesPlayed, Points: 15, TriggerValue: 3},
	}
}

func TestMatchFiltersByThresholdAndGame(t *testing.T) {
	catalog := testCatalog()
	earned := map[uuid.UUID]bool{}

	facts := Facts{Played: true, HighestLevel: 3, LevelsCompleted: 3, TotalScore: 50, GamesPlayed: 1}
	matched := Match(catalog, earned, models.GameCounting, facts)

	names := matchedNames(matched)
	assert.Equal(t, []string{"Number Starter", "First Steps"}, names)
}

func TestMatchSkipsAlreadyEarned(t *testing.T) {
	catalog := testCatalog()
	earned := map[uuid.UUID]bool{
		catalog[0].ID: true, // First Steps
		catalog[1].ID: true, // Number Starter
	}

	facts := Facts{Played: true, HighestLevel: 10, LevelsCompleted: 10, TotalScore: 150, GamesPlayed: 1}
	matched := Match(catalog, earned, models.GameCounting, facts)

	names := matchedNames(matched)
	assert.Equal(t, []string{"Counting Champion", "Point Collector"}, names)
}

func TestMatchScopesGameSpecificDefinitions(t *testing.T) {
	catalog := testCatalog()

	// Счетные достижения не должны срабатывать из раскраски
	facts := Facts{Played: true, HighestLevel: 10, LevelsCompleted: 2, GamesPlayed: 1}
	matched := Match(catalog, map[uuid.UUID]bool{}, models.GameColoring, facts)

	names := matchedNames(matched)
	assert.Equal(t, []string{"First Steps"}, names)
}

func TestMatchIsDeterministicAndDuplicateFree(t *testing.T) {
	catalog := testCatalog()
	facts := Facts{Played: true, HighestLevel: 10, LevelsCompleted: 10, TotalScore: 500, GamesPlayed: 4}

	first := Match(catalog, map[uuid.UUID]bool{}, models.GameCounting, facts)
	second := Match(catalog, map[uuid.UUID]bool{}, models.GameCounting, facts)

	assert.Equal(t, matchedNames(first), matchedNames(second))

	seen := map[uuid.UUID]bool{}
	for _, def := range first {
		assert.False(t, seen[def.ID], "duplicate definition %s", def.Name)
		seen[def.ID] = true
	}

	// Sorted by points descending, then name
	for i := 1; i < len(first); i++ {
		if first[i-1].Points == first[i].Points {
			assert.Less(t, first[i-1].Name, first[i].Name)
		} else {
			assert.Greater(t, first[i-1].Points, first[i].Points)
		}
	}
}

func matchedNames(defs []models.Achievement) []string {
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	return names
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, utils.MigrateDB(db))
	return db
}

func TestEvaluatePersistsExactlyOnce(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, utils.InitLogger())

	child := models.Child{ParentID: uuid.New(), Name: "Amara"}
	require.NoError(t, db.Create(&child).Error)

	progress := models.GameProgress{
		ChildID:         child.ID,
		GameKey:         models.GameCounting,
		CurrentLevel:    4,
		CompletedLevels: "[1,2,3]",
		TotalScore:      30,
	}
	require.NoError(t, db.Create(&progress).Error)

	event := Event{
		ChildID:      child.ID,
		GameKey:      models.GameCounting,
		ActivityType: models.ActivityLevelComplete,
		Value:        3,
	}

	newly, err := engine.Evaluate(event)
	require.NoError(t, err)

	names := matchedNames(newly)
	assert.Contains(t, names, "Number Starter")
	assert.Contains(t, names, "First Steps")

	// Повторное событие не должно выдать те же достижения снова
	again, err := engine.Evaluate(event)
	require.NoError(t, err)
	assert.Empty(t, again)

	var rows int64
	db.Model(&models.ChildAchievement{}).Where("child_id = ?", child.ID).Count(&rows)
	assert.Equal(t, int64(len(newly)), rows)
}

func TestEvaluateTotalScoreThreshold(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, utils.InitLogger())

	child := models.Child{ParentID: uuid.New(), Name: "Kato"}
	require.NoError(t, db.Create(&child).Error)

	progress := models.GameProgress{
		ChildID:    child.ID,
		GameKey:    models.GameLuganda,
		TotalScore: 120,
	}
	require.NoError(t, db.Create(&progress).Error)

	newly, err := engine.Evaluate(Event{
		ChildID:      child.ID,
		GameKey:      models.GameLuganda,
		ActivityType: "stage_complete",
		Score:        20,
	})
	require.NoError(t, err)

	assert.Contains(t, matchedNames(newly), "Point Collector")
}

func TestEvaluateIgnoresLevelReplays(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, utils.InitLogger())

	child := models.Child{ParentID: uuid.New(), Name: "Kizza"}
	require.NoError(t, db.Create(&child).Error)

	// Один пройденный уровень, раскрашенный пять раз подряд
	progress := models.GameProgress{
		ChildID:         child.ID,
		GameKey:         models.GameColoring,
		CurrentLevel:    2,
		CompletedLevels: "[1]",
	}
	require.NoError(t, db.Create(&progress).Error)

	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.ActivityLog{
			ChildID:      child.ID,
			GameKey:      models.GameColoring,
			ActivityType: models.ActivityLevelComplete,
			Value:        1,
		}).Error)
	}

	newly, err := engine.Evaluate(Event{
		ChildID:      child.ID,
		GameKey:      models.GameColoring,
		ActivityType: models.ActivityLevelComplete,
		Value:        1,
	})
	require.NoError(t, err)

	// "Color five pictures" требует пять разных уровней
	assert.NotContains(t, matchedNames(newly), "Young Artist")
}

func TestEvaluateCountsDistinctLevels(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, utils.InitLogger())

	child := models.Child{ParentID: uuid.New(), Name: "Mirembe"}
	require.NoError(t, db.Create(&child).Error)

	progress := models.GameProgress{
		ChildID:         child.ID,
		GameKey:         models.GameColoring,
		CurrentLevel:    6,
		CompletedLevels: "[1,2,3,4,5]",
	}
	require.NoError(t, db.Create(&progress).Error)

	newly, err := engine.Evaluate(Event{
		ChildID:      child.ID,
		GameKey:      models.GameColoring,
		ActivityType: models.ActivityLevelComplete,
		Value:        5,
	})
	require.NoError(t, err)

	assert.Contains(t, matchedNames(newly), "Young Artist")
}

func TestEvaluateGamesPlayed(t *testing.T) {
	db := openTestDB(t)
	engine := NewEngine(db, utils.InitLogger())

	child := models.Child{ParentID: uuid.New(), Name: "Nakato"}
	require.NoError(t, db.Create(&child).Error)

	for _, key := range []string{models.GameCounting, models.GameWordBuilder, models.GameColoring} {
		require.NoError(t, db.Create(&models.GameProgress{ChildID: child.ID, GameKey: key, CurrentLevel: 2}).Error)
	}

	newly, err := engine.Evaluate(Event{
		ChildID:      child.ID,
		GameKey:      models.GameColoring,
		ActivityType: models.ActivityLevelComplete,
		Value:        1,
	})
	require.NoError(t, err)

	assert.Contains(t, matchedNames(newly), "Explorer")
}
