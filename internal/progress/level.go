package progress

// XPPerLevelStep is the cost growth per level: level n costs n*XPPerLevelStep XP to finish.
const XPPerLevelStep = 50

// Level is a position on the level curve derived from cumulative XP.
type Level struct {
	Level       int `json:"level"`
	CurrentXP   int `json:"currentXP"`
	NextLevelXP int `json:"nextLevelXP"`
}

// XPForLevel returns the XP needed to complete the given level.
func XPForLevel(level int) int {
	return level * XPPerLevelStep
}

// LevelOf derives the level from cumulative XP alone. Levels start at 1.
func LevelOf(xp int) Level {
	if xp < 0 {
		xp = 0
	}
	level := 1
	remaining := xp
	for remaining >= XPForLevel(level) {
		remaining -= XPForLevel(level)
		level++
	}
	return Level{
		Level:       level,
		CurrentXP:   remaining,
		NextLevelXP: XPForLevel(level),
	}
}
