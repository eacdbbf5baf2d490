package progress

import (
	"strings"
	"time"
)

// Predicate is one of the fixed unlock conditions an achievement can use.
type Predicate int

const (
	PredicateUnknown Predicate = iota
	PredicateFirstTask
	PredicateStreak3
	PredicateStreak7
	PredicateStreak30
	PredicateDaily5
	PredicateDaily10
	PredicateTotal50
	PredicateTotal100
	PredicateNightOwl
	PredicateEarlyBird
	PredicateWeekendWarrior
)

var predicateNames = map[Predicate]string{
	PredicateFirstTask:      "complete_first_task",
	PredicateStreak3:        "streak_3",
	PredicateStreak7:        "streak_7",
	PredicateStreak30:       "streak_30",
	PredicateDaily5:         "daily_5",
	PredicateDaily10:        "daily_10",
	PredicateTotal50:        "total_50",
	PredicateTotal100:       "total_100",
	PredicateNightOwl:       "night_owl",
	PredicateEarlyBird:      "early_bird",
	PredicateWeekendWarrior: "weekend_warrior",
}

// predicateAliases accepts the achievement id as a predicate name as well.
var predicateAliases = map[string]Predicate{
	"first_task": PredicateFirstTask,
}

// ParsePredicate maps a catalog condition name onto its variant.
func ParsePredicate(name string) (Predicate, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range predicateNames {
		if n == name {
			return p, true
		}
	}
	if p, ok := predicateAliases[name]; ok {
		return p, true
	}
	return PredicateUnknown, false
}

func (p Predicate) String() string {
	if n, ok := predicateNames[p]; ok {
		return n
	}
	return "unknown"
}

// evaluation is the post-credit view a predicate is checked against.
type evaluation struct {
	total      int
	streak     int
	dailyCount int
	at         time.Time
}

func (p Predicate) satisfied(e evaluation) bool {
	switch p {
	case PredicateFirstTask:
		return e.total == 1
	case PredicateStreak3:
		return e.streak >= 3
	case PredicateStreak7:
		return e.streak >= 7
	case PredicateStreak30:
		return e.streak >= 30
	case PredicateDaily5:
		return e.dailyCount >= 5
	case PredicateDaily10:
		return e.dailyCount >= 10
	case PredicateTotal50:
		return e.total >= 50
	case PredicateTotal100:
		return e.total >= 100
	case PredicateNightOwl:
		h := e.at.Hour()
		return h >= 2 && h < 4
	case PredicateEarlyBird:
		h := e.at.Hour()
		return h >= 5 && h < 6
	case PredicateWeekendWarrior:
		wd := e.at.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	default:
		return false
	}
}
