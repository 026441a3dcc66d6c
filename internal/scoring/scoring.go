// Package scoring computes execution scores from the completion ledger.
// All computations are pure functions over store state; they never mutate
// anything and never fail on well-formed data.
package scoring

import (
	"math"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/storage"
)

// Band classifies a score against the fixed thresholds from the methodology.
type Band string

const (
	BandOnTrack          Band = "on track"
	BandNeedsImprovement Band = "needs improvement"
	BandCritical         Band = "critical"
)

const (
	onTrackThreshold          = 85
	needsImprovementThreshold = 65
)

// BandFor classifies a 0-100 score.
func BandFor(score int) Band {
	switch {
	case score >= onTrackThreshold:
		return BandOnTrack
	case score >= needsImprovementThreshold:
		return BandNeedsImprovement
	default:
		return BandCritical
	}
}

// Engine computes derived scores from a storage provider. It holds no state
// of its own beyond the store handle.
type Engine struct {
	store storage.Provider
}

func New(store storage.Provider) *Engine {
	return &Engine{store: store}
}

// WeekScore computes the execution score for one cycle week.
func (e *Engine) WeekScore(cycleID int64, week int) (models.WeekScoreSummary, error) {
	scorecard, err := e.store.GetWeekScorecard(cycleID, week)
	if err != nil {
		return models.WeekScoreSummary{}, err
	}
	return ScoreWeek(week, scorecard), nil
}

// AllWeekScores computes WeekScore for every week 1-12, whether or not any
// data exists for the week.
func (e *Engine) AllWeekScores(cycleID int64) ([]models.WeekScoreSummary, error) {
	scores := make([]models.WeekScoreSummary, 0, clock.WeeksPerCycle)
	for week := 1; week <= clock.WeeksPerCycle; week++ {
		s, err := e.WeekScore(cycleID, week)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, nil
}

// GoalProgress computes per-goal progress for a cycle. week > 0 restricts the
// computation to that week (divisor = target); week 0 aggregates across the
// whole cycle (divisor = target * 12).
func (e *Engine) GoalProgress(cycleID int64, week int) ([]models.GoalProgress, error) {
	goals, err := e.store.GetGoalsByCycle(cycleID)
	if err != nil {
		return nil, err
	}

	progress := make([]models.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		tactics, err := e.store.GetTacticsByGoal(goal.ID)
		if err != nil {
			return nil, err
		}

		p := models.GoalProgress{GoalID: goal.ID, GoalTitle: goal.Title}
		if len(tactics) == 0 {
			progress = append(progress, p)
			continue
		}

		weeksDivisor := clock.WeeksPerCycle
		if week > 0 {
			weeksDivisor = 1
		}

		sumRatios := 0.0
		for _, tactic := range tactics {
			rows, err := e.store.GetScoresForTactic(cycleID, tactic.ID)
			if err != nil {
				return nil, err
			}

			daysDone := 0
			for _, row := range rows {
				if week > 0 && row.WeekNumber != week {
					continue
				}
				daysDone += row.DaysDone()
			}

			totalTarget := tactic.WeeklyTarget * weeksDivisor
			sumRatios += ratio(daysDone, totalTarget)
			if daysDone >= totalTarget {
				p.CompletedTactics++
			}
		}

		p.TotalTactics = len(tactics)
		p.Score = roundScore(sumRatios / float64(len(tactics)))
		progress = append(progress, p)
	}

	return progress, nil
}

// ScoreWeek computes the week summary from a scorecard:
// score = round(100 * mean(min(daysDone, target) / target)), with a tactic
// counting as completed when daysDone >= target. Overshooting the target
// earns no extra credit.
func ScoreWeek(week int, scorecard []models.TacticWithScore) models.WeekScoreSummary {
	summary := models.WeekScoreSummary{WeekNumber: week}
	if len(scorecard) == 0 {
		return summary
	}

	sumRatios := 0.0
	for _, t := range scorecard {
		done := t.DaysDone()
		sumRatios += ratio(done, t.WeeklyTarget)
		if done >= t.WeeklyTarget {
			summary.CompletedTactics++
		}
	}

	summary.TotalTactics = len(scorecard)
	summary.Score = roundScore(sumRatios / float64(len(scorecard)))
	return summary
}

// OverallScore averages the week scores of weeks with activity. Weeks with no
// tactics or a zero score are excluded rather than counted as 0, so unstarted
// weeks don't drag the cycle down. Note this also excludes weeks where every
// tactic genuinely scored zero; kept for compatibility with the scoring the
// methodology's scorecard has always shown.
func OverallScore(scores []models.WeekScoreSummary) int {
	sum, count := 0, 0
	for _, w := range scores {
		if w.TotalTactics > 0 && w.Score > 0 {
			sum += w.Score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

func ratio(done, target int) float64 {
	if target <= 0 {
		return 0
	}
	if done > target {
		done = target
	}
	return float64(done) / float64(target)
}

func roundScore(mean float64) int {
	return int(math.Round(mean * 100))
}
