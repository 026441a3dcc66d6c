package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/models"
	_ "modernc.org/sqlite"
)

// createTablesSQL creates the full schema. Statements are idempotent so Init
// can run against an existing database.
const createTablesSQL = `
CREATE TABLE IF NOT EXISTS cycles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	vision TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cycle_id INTEGER NOT NULL REFERENCES cycles(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tactics (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	goal_id INTEGER NOT NULL REFERENCES goals(id),
	title TEXT NOT NULL,
	weekly_target INTEGER NOT NULL DEFAULT 7,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weekly_scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cycle_id INTEGER NOT NULL REFERENCES cycles(id),
	week_number INTEGER NOT NULL,
	tactic_id INTEGER NOT NULL REFERENCES tactics(id),
	sun INTEGER NOT NULL DEFAULT 0,
	mon INTEGER NOT NULL DEFAULT 0,
	tue INTEGER NOT NULL DEFAULT 0,
	wed INTEGER NOT NULL DEFAULT 0,
	thu INTEGER NOT NULL DEFAULT 0,
	fri INTEGER NOT NULL DEFAULT 0,
	sat INTEGER NOT NULL DEFAULT 0,
	UNIQUE(cycle_id, week_number, tactic_id)
);

CREATE TABLE IF NOT EXISTS weekly_reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	cycle_id INTEGER NOT NULL REFERENCES cycles(id),
	week_number INTEGER NOT NULL,
	wins TEXT NOT NULL DEFAULT '',
	improvements TEXT NOT NULL DEFAULT '',
	insights TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	UNIQUE(cycle_id, week_number)
);
`

// ExpectedTables lists the record kinds a valid database must contain.
// Used by Load and by snapshot import validation.
var ExpectedTables = []string{"cycles", "goals", "tactics", "weekly_scores", "weekly_reviews"}

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'twy init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return ValidateSchema(s.db)
}

// ValidateSchema verifies a database contains every expected table.
func ValidateSchema(db *sql.DB) error {
	for _, table := range ExpectedTables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("database is missing expected table %q", table)
		}
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ─── Cycles ──────────────────────────────────────────────

func (s *SQLiteStore) CreateCycle(title, startDate, vision string) (int64, error) {
	endDate, err := clock.EndDate(startDate)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	// A new cycle becomes the active one
	if _, err := tx.Exec("UPDATE cycles SET is_active = 0"); err != nil {
		return 0, err
	}

	res, err := tx.Exec(
		"INSERT INTO cycles (title, start_date, end_date, vision, is_active, created_at) VALUES (?, ?, ?, ?, 1, ?)",
		title, startDate, endDate, vision, nowTimestamp(),
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return id, tx.Commit()
}

func (s *SQLiteStore) GetCycles() ([]models.Cycle, error) {
	rows, err := s.db.Query(
		"SELECT id, title, start_date, end_date, vision, is_active, created_at FROM cycles ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []models.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

func (s *SQLiteStore) GetActiveCycle() (models.Cycle, error) {
	row := s.db.QueryRow(
		"SELECT id, title, start_date, end_date, vision, is_active, created_at FROM cycles WHERE is_active = 1")
	c, err := scanCycle(row)
	if err == sql.ErrNoRows {
		return models.Cycle{}, fmt.Errorf("no active cycle: %w", ErrNotFound)
	}
	return c, err
}

func (s *SQLiteStore) GetCycle(id int64) (models.Cycle, error) {
	row := s.db.QueryRow(
		"SELECT id, title, start_date, end_date, vision, is_active, created_at FROM cycles WHERE id = ?", id)
	c, err := scanCycle(row)
	if err == sql.ErrNoRows {
		return models.Cycle{}, fmt.Errorf("cycle %d: %w", id, ErrNotFound)
	}
	return c, err
}

func (s *SQLiteStore) UpdateCycle(c models.Cycle) error {
	res, err := s.db.Exec(
		"UPDATE cycles SET title = ?, start_date = ?, end_date = ?, vision = ? WHERE id = ?",
		c.Title, c.StartDate, c.EndDate, c.Vision, c.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "cycle", c.ID)
}

func (s *SQLiteStore) SetActiveCycle(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE cycles SET is_active = 0"); err != nil {
		return err
	}
	res, err := tx.Exec("UPDATE cycles SET is_active = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	if err := requireRow(res, "cycle", id); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteCycle removes a cycle and everything it owns: ledger rows, reviews,
// tactics, goals, then the cycle itself. The cascade runs in one transaction
// so a half-applied delete is never observable.
func (s *SQLiteStore) DeleteCycle(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		"DELETE FROM weekly_scores WHERE cycle_id = ?",
		"DELETE FROM weekly_reviews WHERE cycle_id = ?",
		"DELETE FROM tactics WHERE goal_id IN (SELECT id FROM goals WHERE cycle_id = ?)",
		"DELETE FROM goals WHERE cycle_id = ?",
		"DELETE FROM cycles WHERE id = ?",
	}
	for _, stmt := range steps {
		if _, err := tx.Exec(stmt, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func scanCycle(row interface{ Scan(...any) error }) (models.Cycle, error) {
	var c models.Cycle
	var active int
	err := row.Scan(&c.ID, &c.Title, &c.StartDate, &c.EndDate, &c.Vision, &active, &c.CreatedAt)
	if err != nil {
		return models.Cycle{}, err
	}
	c.Active = active != 0
	return c, nil
}

// ─── Goals ──────────────────────────────────────────────

func (s *SQLiteStore) CreateGoal(cycleID int64, title, description string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO goals (cycle_id, title, description, sort_order, created_at)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM goals WHERE cycle_id = ?), ?)`,
		cycleID, title, description, cycleID, nowTimestamp(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) GetGoalsByCycle(cycleID int64) ([]models.Goal, error) {
	rows, err := s.db.Query(
		"SELECT id, cycle_id, title, description, sort_order, created_at FROM goals WHERE cycle_id = ? ORDER BY sort_order",
		cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.CycleID, &g.Title, &g.Description, &g.SortOrder, &g.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *SQLiteStore) UpdateGoal(g models.Goal) error {
	res, err := s.db.Exec(
		"UPDATE goals SET title = ?, description = ?, sort_order = ? WHERE id = ?",
		g.Title, g.Description, g.SortOrder, g.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "goal", g.ID)
}

// DeleteGoal removes a goal, its tactics, and their ledger rows atomically.
func (s *SQLiteStore) DeleteGoal(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		"DELETE FROM weekly_scores WHERE tactic_id IN (SELECT id FROM tactics WHERE goal_id = ?)",
		"DELETE FROM tactics WHERE goal_id = ?",
		"DELETE FROM goals WHERE id = ?",
	}
	for _, stmt := range steps {
		if _, err := tx.Exec(stmt, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ─── Tactics ──────────────────────────────────────────────

func (s *SQLiteStore) CreateTactic(goalID int64, title string, weeklyTarget int) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO tactics (goal_id, title, weekly_target, sort_order, created_at)
		 VALUES (?, ?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM tactics WHERE goal_id = ?), ?)`,
		goalID, title, weeklyTarget, goalID, nowTimestamp(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) GetTactic(id int64) (models.Tactic, error) {
	row := s.db.QueryRow(
		"SELECT id, goal_id, title, weekly_target, sort_order, created_at FROM tactics WHERE id = ?", id)
	var t models.Tactic
	err := row.Scan(&t.ID, &t.GoalID, &t.Title, &t.WeeklyTarget, &t.SortOrder, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return models.Tactic{}, fmt.Errorf("tactic %d: %w", id, ErrNotFound)
	}
	return t, err
}

func (s *SQLiteStore) GetTacticsByGoal(goalID int64) ([]models.Tactic, error) {
	rows, err := s.db.Query(
		"SELECT id, goal_id, title, weekly_target, sort_order, created_at FROM tactics WHERE goal_id = ? ORDER BY sort_order",
		goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTactics(rows)
}

func (s *SQLiteStore) GetTacticsByCycle(cycleID int64) ([]models.Tactic, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.goal_id, t.title, t.weekly_target, t.sort_order, t.created_at
		 FROM tactics t
		 JOIN goals g ON t.goal_id = g.id
		 WHERE g.cycle_id = ?
		 ORDER BY g.sort_order, t.sort_order`,
		cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTactics(rows)
}

func scanTactics(rows *sql.Rows) ([]models.Tactic, error) {
	var tactics []models.Tactic
	for rows.Next() {
		var t models.Tactic
		if err := rows.Scan(&t.ID, &t.GoalID, &t.Title, &t.WeeklyTarget, &t.SortOrder, &t.CreatedAt); err != nil {
			return nil, err
		}
		tactics = append(tactics, t)
	}
	return tactics, rows.Err()
}

func (s *SQLiteStore) UpdateTactic(t models.Tactic) error {
	res, err := s.db.Exec(
		"UPDATE tactics SET title = ?, weekly_target = ?, sort_order = ? WHERE id = ?",
		t.Title, t.WeeklyTarget, t.SortOrder, t.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "tactic", t.ID)
}

// DeleteTactic removes a tactic and its ledger rows atomically.
func (s *SQLiteStore) DeleteTactic(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM weekly_scores WHERE tactic_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM tactics WHERE id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

// ─── Completion ledger ──────────────────────────────────────────────

// UpsertDayCompletion sets one day slot for a (cycle, week, tactic) key,
// creating the all-false row on first touch. The composite UNIQUE constraint
// guarantees at most one row per key.
func (s *SQLiteStore) UpsertDayCompletion(cycleID int64, week int, tacticID int64, day models.DayKey, done bool) error {
	if models.DayIndex(day) < 0 {
		return fmt.Errorf("invalid day key %q", day)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO weekly_scores (cycle_id, week_number, tactic_id)
		 VALUES (?, ?, ?)
		 ON CONFLICT(cycle_id, week_number, tactic_id) DO NOTHING`,
		cycleID, week, tacticID,
	)
	if err != nil {
		return err
	}

	val := 0
	if done {
		val = 1
	}
	// day is validated against the fixed enumeration above, so interpolating
	// the column name is safe.
	_, err = tx.Exec(
		fmt.Sprintf("UPDATE weekly_scores SET %s = ? WHERE cycle_id = ? AND week_number = ? AND tactic_id = ?", day),
		val, cycleID, week, tacticID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// GetWeekScorecard returns every tactic of the cycle's goals joined with its
// completion vector for the week. Tactics without a ledger row appear with a
// zero vector. Ordered by (goal sort order, tactic sort order).
func (s *SQLiteStore) GetWeekScorecard(cycleID int64, week int) ([]models.TacticWithScore, error) {
	rows, err := s.db.Query(
		`SELECT
			t.id, t.title, t.weekly_target, g.id, g.title,
			COALESCE(ws.sun, 0), COALESCE(ws.mon, 0), COALESCE(ws.tue, 0), COALESCE(ws.wed, 0),
			COALESCE(ws.thu, 0), COALESCE(ws.fri, 0), COALESCE(ws.sat, 0)
		 FROM tactics t
		 JOIN goals g ON t.goal_id = g.id
		 LEFT JOIN weekly_scores ws ON ws.tactic_id = t.id
			AND ws.cycle_id = ? AND ws.week_number = ?
		 WHERE g.cycle_id = ?
		 ORDER BY g.sort_order, t.sort_order`,
		cycleID, week, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scorecard []models.TacticWithScore
	for rows.Next() {
		var t models.TacticWithScore
		var days [7]int
		err := rows.Scan(
			&t.TacticID, &t.TacticTitle, &t.WeeklyTarget, &t.GoalID, &t.GoalTitle,
			&days[0], &days[1], &days[2], &days[3], &days[4], &days[5], &days[6],
		)
		if err != nil {
			return nil, err
		}
		for i, d := range days {
			t.Days[i] = d != 0
		}
		scorecard = append(scorecard, t)
	}
	return scorecard, rows.Err()
}

func (s *SQLiteStore) GetScoresForTactic(cycleID, tacticID int64) ([]models.WeeklyScore, error) {
	rows, err := s.db.Query(
		`SELECT id, cycle_id, week_number, tactic_id, sun, mon, tue, wed, thu, fri, sat
		 FROM weekly_scores WHERE cycle_id = ? AND tactic_id = ? ORDER BY week_number`,
		cycleID, tacticID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.WeeklyScore
	for rows.Next() {
		var w models.WeeklyScore
		var days [7]int
		err := rows.Scan(
			&w.ID, &w.CycleID, &w.WeekNumber, &w.TacticID,
			&days[0], &days[1], &days[2], &days[3], &days[4], &days[5], &days[6],
		)
		if err != nil {
			return nil, err
		}
		for i, d := range days {
			w.Days[i] = d != 0
		}
		scores = append(scores, w)
	}
	return scores, rows.Err()
}

// ─── Weekly reviews ──────────────────────────────────────────────

func (s *SQLiteStore) SaveWeeklyReview(cycleID int64, week int, wins, improvements, insights string) error {
	_, err := s.db.Exec(
		`INSERT INTO weekly_reviews (cycle_id, week_number, wins, improvements, insights, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cycle_id, week_number)
		 DO UPDATE SET wins = excluded.wins, improvements = excluded.improvements, insights = excluded.insights`,
		cycleID, week, wins, improvements, insights, nowTimestamp(),
	)
	return err
}

func (s *SQLiteStore) GetWeeklyReview(cycleID int64, week int) (models.WeeklyReview, error) {
	row := s.db.QueryRow(
		`SELECT id, cycle_id, week_number, wins, improvements, insights, created_at
		 FROM weekly_reviews WHERE cycle_id = ? AND week_number = ?`,
		cycleID, week)
	var r models.WeeklyReview
	err := row.Scan(&r.ID, &r.CycleID, &r.WeekNumber, &r.Wins, &r.Improvements, &r.Insights, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return models.WeeklyReview{}, fmt.Errorf("review for week %d: %w", week, ErrNotFound)
	}
	return r, err
}

func (s *SQLiteStore) GetWeeklyReviews(cycleID int64) ([]models.WeeklyReview, error) {
	rows, err := s.db.Query(
		`SELECT id, cycle_id, week_number, wins, improvements, insights, created_at
		 FROM weekly_reviews WHERE cycle_id = ? ORDER BY week_number`,
		cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.WeeklyReview
	for rows.Next() {
		var r models.WeeklyReview
		if err := rows.Scan(&r.ID, &r.CycleID, &r.WeekNumber, &r.Wins, &r.Improvements, &r.Insights, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

func requireRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}
