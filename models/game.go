package models

// Game describes one of the built-in mini-games. The catalog is static; the
// client uses it to render the home screen and the server uses the keys to
// validate progress and activity calls.
type Game struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Skill       string `json:"skill"`
	Levels      int    `json:"levels"`
}

const (
	GameCounting    = "counting"
	GameWordBuilder = "word_builder"
	GameColoring    = "coloring"
	GameLuganda     = "luganda"
)

var Games = []Game{
	{Key: GameCounting, Name: "Counting Fun", Description: "Count objects and pick the right number", Skill: "numeracy", Levels: 10},
	{Key: GameWordBuilder, Name: "Word Builder", Description: "Arrange letters to build simple words", Skill: "literacy", Levels: 10},
	{Key: GameColoring, Name: "Coloring Book", Description: "Color pictures and learn about colors", Skill: "creativity", Levels: 8},
	{Key: GameLuganda, Name: "Luganda Learning", Description: "Learn Luganda words for everyday things", Skill: "language", Levels: 12},
}

// ValidGameKey reports whether key names a built-in mini-game.
func ValidGameKey(key string) bool {
	for _, g := range Games {
		if g.Key == key {
			return true
		}
	}
	return false
}
