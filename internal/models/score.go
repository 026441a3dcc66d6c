package models

// DayKey identifies a day slot in a week's completion vector, Sunday-first.
type DayKey string

const (
	DaySun DayKey = "sun"
	DayMon DayKey = "mon"
	DayTue DayKey = "tue"
	DayWed DayKey = "wed"
	DayThu DayKey = "thu"
	DayFri DayKey = "fri"
	DaySat DayKey = "sat"
)

// DayKeys is the fixed week enumeration in vector order.
var DayKeys = [7]DayKey{DaySun, DayMon, DayTue, DayWed, DayThu, DayFri, DaySat}

// DayLabels maps day keys to display labels.
var DayLabels = map[DayKey]string{
	DaySun: "Sun", DayMon: "Mon", DayTue: "Tue", DayWed: "Wed",
	DayThu: "Thu", DayFri: "Fri", DaySat: "Sat",
}

// DayIndex returns the vector slot for a day key, or -1 when the key is not
// part of the week enumeration.
func DayIndex(day DayKey) int {
	for i, d := range DayKeys {
		if d == day {
			return i
		}
	}
	return -1
}

// ParseDayKey normalizes an external day string to a DayKey.
func ParseDayKey(s string) (DayKey, bool) {
	d := DayKey(s)
	if DayIndex(d) < 0 {
		return "", false
	}
	return d, true
}

// WeeklyScore is a ledger row: the 7-day completion vector for one tactic in
// one week of a cycle. A row exists only once at least one day was toggled.
type WeeklyScore struct {
	ID         int64   `json:"id"`
	CycleID    int64   `json:"cycle_id"`
	WeekNumber int     `json:"week_number"`
	TacticID   int64   `json:"tactic_id"`
	Days       [7]bool `json:"days"` // Sunday-first, DayKeys order
}

// DaysDone counts the completed days in the vector.
func (w WeeklyScore) DaysDone() int {
	return countDays(w.Days)
}

// TacticWithScore joins a tactic, its owning goal, and its completion vector
// for a given week. Tactics without a ledger row carry a zero vector.
type TacticWithScore struct {
	TacticID     int64   `json:"tactic_id"`
	TacticTitle  string  `json:"tactic_title"`
	GoalID       int64   `json:"goal_id"`
	GoalTitle    string  `json:"goal_title"`
	WeeklyTarget int     `json:"weekly_target"`
	Days         [7]bool `json:"days"`
}

// DaysDone counts the completed days in the vector.
func (t TacticWithScore) DaysDone() int {
	return countDays(t.Days)
}

func countDays(days [7]bool) int {
	n := 0
	for _, d := range days {
		if d {
			n++
		}
	}
	return n
}

// WeekScoreSummary is the computed execution score for one cycle week.
// Not persisted.
type WeekScoreSummary struct {
	WeekNumber       int `json:"week_number"`
	TotalTactics     int `json:"total_tactics"`
	CompletedTactics int `json:"completed_tactics"`
	Score            int `json:"score"` // 0-100
}

// GoalProgress is the computed progress for one goal, either for a single
// week or aggregated across the whole cycle. Not persisted.
type GoalProgress struct {
	GoalID           int64  `json:"goal_id"`
	GoalTitle        string `json:"goal_title"`
	TotalTactics     int    `json:"total_tactics"`
	CompletedTactics int    `json:"completed_tactics"`
	Score            int    `json:"score"` // 0-100
}
