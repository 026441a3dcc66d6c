package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/models"
)

// jsonStore is the on-disk shape of the JSON backend.
type jsonStore struct {
	Version int                            `json:"version"`
	NextID  int64                          `json:"next_id"`
	Cycles  map[int64]models.Cycle         `json:"cycles"`
	Goals   map[int64]models.Goal          `json:"goals"`
	Tactics map[int64]models.Tactic        `json:"tactics"`
	Scores  map[string]models.WeeklyScore  `json:"scores"`  // keyed "cycle:week:tactic"
	Reviews map[string]models.WeeklyReview `json:"reviews"` // keyed "cycle:week"
}

// JSONStore is a file-backed Provider. Mutations rewrite the whole file, so
// every successful return is durable and atomic from the caller's view.
// Used for tests and for `--config *.json`.
type JSONStore struct {
	path  string
	store *jsonStore
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = newJSONData()
	return s.save()
}

func (s *JSONStore) Load() error {
	if s.store != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'twy init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &jsonStore{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.ensureMaps()

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func newJSONData() *jsonStore {
	d := &jsonStore{Version: 1, NextID: 1}
	d.Cycles = make(map[int64]models.Cycle)
	d.Goals = make(map[int64]models.Goal)
	d.Tactics = make(map[int64]models.Tactic)
	d.Scores = make(map[string]models.WeeklyScore)
	d.Reviews = make(map[string]models.WeeklyReview)
	return d
}

func (s *JSONStore) ensureMaps() {
	if s.store.Cycles == nil {
		s.store.Cycles = make(map[int64]models.Cycle)
	}
	if s.store.Goals == nil {
		s.store.Goals = make(map[int64]models.Goal)
	}
	if s.store.Tactics == nil {
		s.store.Tactics = make(map[int64]models.Tactic)
	}
	if s.store.Scores == nil {
		s.store.Scores = make(map[string]models.WeeklyScore)
	}
	if s.store.Reviews == nil {
		s.store.Reviews = make(map[string]models.WeeklyReview)
	}
	if s.store.NextID == 0 {
		s.store.NextID = 1
	}
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) nextID() int64 {
	id := s.store.NextID
	s.store.NextID++
	return id
}

func scoreKey(cycleID int64, week int, tacticID int64) string {
	return fmt.Sprintf("%d:%d:%d", cycleID, week, tacticID)
}

func reviewKey(cycleID int64, week int) string {
	return fmt.Sprintf("%d:%d", cycleID, week)
}

// ─── Cycles ──────────────────────────────────────────────

func (s *JSONStore) CreateCycle(title, startDate, vision string) (int64, error) {
	if err := s.loaded(); err != nil {
		return 0, err
	}

	endDate, err := clock.EndDate(startDate)
	if err != nil {
		return 0, err
	}

	for id, c := range s.store.Cycles {
		c.Active = false
		s.store.Cycles[id] = c
	}

	id := s.nextID()
	s.store.Cycles[id] = models.Cycle{
		ID:        id,
		Title:     title,
		StartDate: startDate,
		EndDate:   endDate,
		Vision:    vision,
		Active:    true,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return id, s.save()
}

func (s *JSONStore) GetCycles() ([]models.Cycle, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	cycles := make([]models.Cycle, 0, len(s.store.Cycles))
	for _, c := range s.store.Cycles {
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool {
		if cycles[i].CreatedAt != cycles[j].CreatedAt {
			return cycles[i].CreatedAt > cycles[j].CreatedAt
		}
		return cycles[i].ID > cycles[j].ID
	})
	return cycles, nil
}

func (s *JSONStore) GetActiveCycle() (models.Cycle, error) {
	if err := s.loaded(); err != nil {
		return models.Cycle{}, err
	}

	for _, c := range s.store.Cycles {
		if c.Active {
			return c, nil
		}
	}
	return models.Cycle{}, fmt.Errorf("no active cycle: %w", ErrNotFound)
}

func (s *JSONStore) GetCycle(id int64) (models.Cycle, error) {
	if err := s.loaded(); err != nil {
		return models.Cycle{}, err
	}

	c, ok := s.store.Cycles[id]
	if !ok {
		return models.Cycle{}, fmt.Errorf("cycle %d: %w", id, ErrNotFound)
	}
	return c, nil
}

func (s *JSONStore) UpdateCycle(c models.Cycle) error {
	if err := s.loaded(); err != nil {
		return err
	}

	existing, ok := s.store.Cycles[c.ID]
	if !ok {
		return fmt.Errorf("cycle %d: %w", c.ID, ErrNotFound)
	}
	existing.Title = c.Title
	existing.StartDate = c.StartDate
	existing.EndDate = c.EndDate
	existing.Vision = c.Vision
	s.store.Cycles[c.ID] = existing
	return s.save()
}

func (s *JSONStore) SetActiveCycle(id int64) error {
	if err := s.loaded(); err != nil {
		return err
	}

	if _, ok := s.store.Cycles[id]; !ok {
		return fmt.Errorf("cycle %d: %w", id, ErrNotFound)
	}
	for cid, c := range s.store.Cycles {
		c.Active = cid == id
		s.store.Cycles[cid] = c
	}
	return s.save()
}

func (s *JSONStore) DeleteCycle(id int64) error {
	if err := s.loaded(); err != nil {
		return err
	}

	for key, score := range s.store.Scores {
		if score.CycleID == id {
			delete(s.store.Scores, key)
		}
	}
	for key, review := range s.store.Reviews {
		if review.CycleID == id {
			delete(s.store.Reviews, key)
		}
	}
	for tid, t := range s.store.Tactics {
		if g, ok := s.store.Goals[t.GoalID]; ok && g.CycleID == id {
			delete(s.store.Tactics, tid)
		}
	}
	for gid, g := range s.store.Goals {
		if g.CycleID == id {
			delete(s.store.Goals, gid)
		}
	}
	delete(s.store.Cycles, id)
	// Single save at the end keeps the cascade atomic on disk.
	return s.save()
}

// ─── Goals ──────────────────────────────────────────────

func (s *JSONStore) CreateGoal(cycleID int64, title, description string) (int64, error) {
	if err := s.loaded(); err != nil {
		return 0, err
	}

	maxOrder := -1
	for _, g := range s.store.Goals {
		if g.CycleID == cycleID && g.SortOrder > maxOrder {
			maxOrder = g.SortOrder
		}
	}

	id := s.nextID()
	s.store.Goals[id] = models.Goal{
		ID:          id,
		CycleID:     cycleID,
		Title:       title,
		Description: description,
		SortOrder:   maxOrder + 1,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	return id, s.save()
}

func (s *JSONStore) GetGoalsByCycle(cycleID int64) ([]models.Goal, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var goals []models.Goal
	for _, g := range s.store.Goals {
		if g.CycleID == cycleID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].SortOrder < goals[j].SortOrder })
	return goals, nil
}

func (s *JSONStore) UpdateGoal(g models.Goal) error {
	if err := s.loaded(); err != nil {
		return err
	}

	existing, ok := s.store.Goals[g.ID]
	if !ok {
		return fmt.Errorf("goal %d: %w", g.ID, ErrNotFound)
	}
	existing.Title = g.Title
	existing.Description = g.Description
	existing.SortOrder = g.SortOrder
	s.store.Goals[g.ID] = existing
	return s.save()
}

func (s *JSONStore) DeleteGoal(id int64) error {
	if err := s.loaded(); err != nil {
		return err
	}

	for tid, t := range s.store.Tactics {
		if t.GoalID == id {
			for key, score := range s.store.Scores {
				if score.TacticID == tid {
					delete(s.store.Scores, key)
				}
			}
			delete(s.store.Tactics, tid)
		}
	}
	delete(s.store.Goals, id)
	return s.save()
}

// ─── Tactics ──────────────────────────────────────────────

func (s *JSONStore) CreateTactic(goalID int64, title string, weeklyTarget int) (int64, error) {
	if err := s.loaded(); err != nil {
		return 0, err
	}

	maxOrder := -1
	for _, t := range s.store.Tactics {
		if t.GoalID == goalID && t.SortOrder > maxOrder {
			maxOrder = t.SortOrder
		}
	}

	id := s.nextID()
	s.store.Tactics[id] = models.Tactic{
		ID:           id,
		GoalID:       goalID,
		Title:        title,
		WeeklyTarget: weeklyTarget,
		SortOrder:    maxOrder + 1,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	return id, s.save()
}

func (s *JSONStore) GetTactic(id int64) (models.Tactic, error) {
	if err := s.loaded(); err != nil {
		return models.Tactic{}, err
	}

	t, ok := s.store.Tactics[id]
	if !ok {
		return models.Tactic{}, fmt.Errorf("tactic %d: %w", id, ErrNotFound)
	}
	return t, nil
}

func (s *JSONStore) GetTacticsByGoal(goalID int64) ([]models.Tactic, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var tactics []models.Tactic
	for _, t := range s.store.Tactics {
		if t.GoalID == goalID {
			tactics = append(tactics, t)
		}
	}
	sort.Slice(tactics, func(i, j int) bool { return tactics[i].SortOrder < tactics[j].SortOrder })
	return tactics, nil
}

func (s *JSONStore) GetTacticsByCycle(cycleID int64) ([]models.Tactic, error) {
	goals, err := s.GetGoalsByCycle(cycleID)
	if err != nil {
		return nil, err
	}

	var tactics []models.Tactic
	for _, g := range goals {
		ts, err := s.GetTacticsByGoal(g.ID)
		if err != nil {
			return nil, err
		}
		tactics = append(tactics, ts...)
	}
	return tactics, nil
}

func (s *JSONStore) UpdateTactic(t models.Tactic) error {
	if err := s.loaded(); err != nil {
		return err
	}

	existing, ok := s.store.Tactics[t.ID]
	if !ok {
		return fmt.Errorf("tactic %d: %w", t.ID, ErrNotFound)
	}
	existing.Title = t.Title
	existing.WeeklyTarget = t.WeeklyTarget
	existing.SortOrder = t.SortOrder
	s.store.Tactics[t.ID] = existing
	return s.save()
}

func (s *JSONStore) DeleteTactic(id int64) error {
	if err := s.loaded(); err != nil {
		return err
	}

	for key, score := range s.store.Scores {
		if score.TacticID == id {
			delete(s.store.Scores, key)
		}
	}
	delete(s.store.Tactics, id)
	return s.save()
}

// ─── Completion ledger ──────────────────────────────────────────────

func (s *JSONStore) UpsertDayCompletion(cycleID int64, week int, tacticID int64, day models.DayKey, done bool) error {
	if err := s.loaded(); err != nil {
		return err
	}

	idx := models.DayIndex(day)
	if idx < 0 {
		return fmt.Errorf("invalid day key %q", day)
	}

	key := scoreKey(cycleID, week, tacticID)
	row, ok := s.store.Scores[key]
	if !ok {
		row = models.WeeklyScore{
			ID:         s.nextID(),
			CycleID:    cycleID,
			WeekNumber: week,
			TacticID:   tacticID,
		}
	}
	row.Days[idx] = done
	s.store.Scores[key] = row
	return s.save()
}

func (s *JSONStore) GetWeekScorecard(cycleID int64, week int) ([]models.TacticWithScore, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	goals, err := s.GetGoalsByCycle(cycleID)
	if err != nil {
		return nil, err
	}

	var scorecard []models.TacticWithScore
	for _, g := range goals {
		tactics, err := s.GetTacticsByGoal(g.ID)
		if err != nil {
			return nil, err
		}
		for _, t := range tactics {
			row := models.TacticWithScore{
				TacticID:     t.ID,
				TacticTitle:  t.Title,
				GoalID:       g.ID,
				GoalTitle:    g.Title,
				WeeklyTarget: t.WeeklyTarget,
			}
			// Left-join: tactics with no ledger row keep a zero vector
			if score, ok := s.store.Scores[scoreKey(cycleID, week, t.ID)]; ok {
				row.Days = score.Days
			}
			scorecard = append(scorecard, row)
		}
	}
	return scorecard, nil
}

func (s *JSONStore) GetScoresForTactic(cycleID, tacticID int64) ([]models.WeeklyScore, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var scores []models.WeeklyScore
	for _, score := range s.store.Scores {
		if score.CycleID == cycleID && score.TacticID == tacticID {
			scores = append(scores, score)
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].WeekNumber < scores[j].WeekNumber })
	return scores, nil
}

// ─── Weekly reviews ──────────────────────────────────────────────

func (s *JSONStore) SaveWeeklyReview(cycleID int64, week int, wins, improvements, insights string) error {
	if err := s.loaded(); err != nil {
		return err
	}

	key := reviewKey(cycleID, week)
	review, ok := s.store.Reviews[key]
	if !ok {
		review = models.WeeklyReview{
			ID:         s.nextID(),
			CycleID:    cycleID,
			WeekNumber: week,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		}
	}
	review.Wins = wins
	review.Improvements = improvements
	review.Insights = insights
	s.store.Reviews[key] = review
	return s.save()
}

func (s *JSONStore) GetWeeklyReview(cycleID int64, week int) (models.WeeklyReview, error) {
	if err := s.loaded(); err != nil {
		return models.WeeklyReview{}, err
	}

	review, ok := s.store.Reviews[reviewKey(cycleID, week)]
	if !ok {
		return models.WeeklyReview{}, fmt.Errorf("review for week %d: %w", week, ErrNotFound)
	}
	return review, nil
}

func (s *JSONStore) GetWeeklyReviews(cycleID int64) ([]models.WeeklyReview, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}

	var reviews []models.WeeklyReview
	for _, r := range s.store.Reviews {
		if r.CycleID == cycleID {
			reviews = append(reviews, r)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].WeekNumber < reviews[j].WeekNumber })
	return reviews, nil
}

// GetConfigPath returns the path to the underlying storage file.
//
// Concurrency note:
//   - JSONStore is not safe for concurrent use by multiple goroutines without
//     external synchronization.
//   - Running multiple twy processes against the same storage path is not
//     supported and may lead to data loss.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
