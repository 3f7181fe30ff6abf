package achievements

import (
	"encoding/json"
	"errors"
	"log"
	"sort"

	"github.com/AriyoX/baby-steps/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event is one gameplay fact reported by the client's "save activity" call.
type Event struct {
	ChildID      uuid.UUID
	GameKey      string
	ActivityType string
	Value        int
	Score        int
}

// Facts are the cumulative values the trigger conditions are checked against.
type Facts struct {
	Played          bool
	HighestLevel    int // в рамках игры события
	LevelsCompleted int
	TotalScore      int
	GamesPlayed     int
}

type Engine struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewEngine(db *gorm.DB, logger *log.Logger) *Engine {
	return &Engine{DB: db, Logger: logger}
}

// Evaluate decides which catalog definitions newly became satisfied for the
// child, persists each of them exactly once and returns the newly earned set
// for the client's celebration overlay. The event must already be mirrored
// into GameProgress and ActivityLog by the caller. A failed insert is logged
// and the definition dropped from the result; evaluation continues.
func (e *Engine) Evaluate(event Event) ([]models.Achievement, error) {
	var catalog []models.Achievement
	if err := e.DB.Find(&catalog).Error; err != nil {
		return nil, err
	}

	var earnedRows []models.ChildAchievement
	if err := e.DB.Where("child_id = ?", event.ChildID).Find(&earnedRows).Error; err != nil {
		return nil, err
	}
	earned := make(map[uuid.UUID]bool, len(earnedRows))
	for _, row := range earnedRows {
		earned[row.AchievementID] = true
	}

	facts := e.gatherFacts(event)
	matched := Match(catalog, earned, event.GameKey, facts)

	newlyEarned := make([]models.Achievement, 0, len(matched))
	for _, def := range matched {
		row := models.ChildAchievement{
			ChildID:       event.ChildID,
			AchievementID: def.ID,
		}
		result := e.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			e.Logger.Printf("achievement insert failed for child %s, achievement %q: %v",
				event.ChildID, def.Name, result.Error)
			continue
		}
		if result.RowsAffected == 0 {
			// Another device got there first, not newly earned here.
			continue
		}
		newlyEarned = append(newlyEarned, def)
	}

	return newlyEarned, nil
}

// Match filters the catalog for definitions satisfied by facts and not yet in
// earned. Definitions are scoped by game key only; each definition's own
// activity type selects which cumulative fact its trigger is checked against.
// Given the same inputs the result is the same, ordered by points descending
// then name, with no duplicates.
func Match(catalog []models.Achievement, earned map[uuid.UUID]bool, gameKey string, facts Facts) []models.Achievement {
	var matched []models.Achievement
	for _, def := range catalog {
		if earned[def.ID] {
			continue
		}
		if def.GameKey != "" && def.GameKey != gameKey {
			continue
		}
		if satisfied(def, facts) {
			matched = append(matched, def)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Points != matched[j].Points {
			return matched[i].Points > matched[j].Points
		}
		return matched[i].Name < matched[j].Name
	})

	return matched
}

func satisfied(def models.Achievement, facts Facts) bool {
	switch def.ActivityType {
	case models.ActivityFirstPlay:
		return facts.Played
	case models.ActivityLevelComplete:
		return facts.HighestLevel >= def.TriggerValue
	case models.ActivityLevelsCompleted:
		return facts.LevelsCompleted >= def.TriggerValue
	case models.ActivityTotalScore:
		return facts.TotalScore >= def.TriggerValue
	case models.ActivityGamesPlayed:
		return facts.GamesPlayed >= def.TriggerValue
	default:
		return false
	}
}

// gatherFacts собирает накопленные значения для ребенка и игры события.
// The caller is expected to have mirrored the event into GameProgress and
// ActivityLog already; query failures degrade to zero values.
func (e *Engine) gatherFacts(event Event) Facts {
	facts := Facts{Played: true}

	var progress models.GameProgress
	err := e.DB.Where("child_id = ? AND game_key = ?", event.ChildID, event.GameKey).
		First(&progress).Error
	if err == nil {
		facts.HighestLevel = progress.CurrentLevel - 1
		facts.TotalScore = progress.TotalScore
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		e.Logger.Printf("progress lookup failed for child %s: %v", event.ChildID, err)
	}

	// Replays must not inflate the count, so the fact is the size of the
	// deduplicated completed set in the blob, not a count of activity rows.
	completed := decodeCompletedLevels(progress.CompletedLevels)
	facts.LevelsCompleted = len(completed)

	// Safety for clients that report a completed level ahead of the blob.
	if event.ActivityType == models.ActivityLevelComplete && event.Value > 0 {
		if event.Value > facts.HighestLevel {
			facts.HighestLevel = event.Value
		}
		if !containsLevel(completed, event.Value) {
			facts.LevelsCompleted++
		}
	}

	var gamesPlayed int64
	if err := e.DB.Model(&models.GameProgress{}).
		Where("child_id = ?", event.ChildID).
		Count(&gamesPlayed).Error; err != nil {
		e.Logger.Printf("games count failed for child %s: %v", event.ChildID, err)
	}
	facts.GamesPlayed = int(gamesPlayed)
	if facts.GamesPlayed == 0 {
		facts.GamesPlayed = 1
	}

	return facts
}

// decodeCompletedLevels parses the blob's JSON array; a malformed blob
// degrades to an empty set.
func decodeCompletedLevels(blob string) []int {
	var levels []int
	if err := json.Unmarshal([]byte(blob), &levels); err != nil {
		return nil
	}
	return levels
}

func containsLevel(levels []int, level int) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
