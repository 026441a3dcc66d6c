package models

// Cycle is a fixed 84-day (12-week) planning period. At most one cycle is
// active at a time; activating a cycle deactivates every other one.
type Cycle struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"` // YYYY-MM-DD format
	EndDate   string `json:"end_date"`   // YYYY-MM-DD format, start + 83 days
	Vision    string `json:"vision"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"` // RFC3339 timestamp
}

// Goal is a top-level outcome pursued within a cycle.
type Goal struct {
	ID          int64  `json:"id"`
	CycleID     int64  `json:"cycle_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	CreatedAt   string `json:"created_at"`
}

// Tactic is a recurring weekly action under a goal, with a target number of
// days per week (1-7) it should be performed.
type Tactic struct {
	ID           int64  `json:"id"`
	GoalID       int64  `json:"goal_id"`
	Title        string `json:"title"`
	WeeklyTarget int    `json:"weekly_target"`
	SortOrder    int    `json:"sort_order"`
	CreatedAt    string `json:"created_at"`
}

// WeeklyReview captures the end-of-week reflection for a cycle week.
// One review per (cycle, week); saving again replaces the text fields.
type WeeklyReview struct {
	ID           int64  `json:"id"`
	CycleID      int64  `json:"cycle_id"`
	WeekNumber   int    `json:"week_number"`
	Wins         string `json:"wins"`
	Improvements string `json:"improvements"`
	Insights     string `json:"insights"`
	CreatedAt    string `json:"created_at"`
}
