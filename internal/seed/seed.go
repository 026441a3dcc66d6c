// Package seed populates a fresh store with realistic demo data.
package seed

import (
	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/storage"
)

// lcg is a deterministic pseudo-random source so the demo dataset is
// identical on every machine.
type lcg struct {
	state int64
}

func (r *lcg) next() float64 {
	r.state = (r.state * 16807) % 2147483647
	return float64(r.state-1) / 2147483646
}

type demoTactic struct {
	title  string
	target int
}

type demoGoal struct {
	title       string
	description string
	tactics     []demoTactic
}

var demoGoals = []demoGoal{
	{
		title:       "Build a Consistent Fitness Habit",
		description: "Establish a sustainable workout routine and improve overall health markers.",
		tactics: []demoTactic{
			{"Morning workout (30 min)", 5},
			{"Hit 10,000 steps", 7},
			{"Meal prep for the week", 2},
		},
	},
	{
		title:       "Ship Side Project v1",
		description: "Launch the minimum viable product of my personal app and get 10 beta users.",
		tactics: []demoTactic{
			{"Code for 1 hour", 5},
			{"Write a dev blog post", 1},
			{"Review & merge PRs", 3},
		},
	},
	{
		title:       "Develop a Daily Learning Habit",
		description: "Read every day, complete an online course, and expand my professional network.",
		tactics: []demoTactic{
			{"Read for 30 minutes", 7},
			{"Complete one course lesson", 3},
			{"Reach out to someone new", 2},
		},
	},
}

type demoReview struct {
	week                         int
	wins, improvements, insights string
}

var demoReviews = []demoReview{
	{1,
		"Got the workout habit started and completed 4 out of 5 planned sessions. Set up the project repo and wrote the first feature.",
		"Meal prep only happened once. Need to block Sunday afternoon for this.",
		"Starting is the hardest part. Once I began, momentum carried me through."},
	{2,
		"Hit 10k steps every day! First blog post drafted. Read every single day.",
		"Coding sessions were shorter than planned. Need to silence notifications during deep work.",
		"Consistency beats intensity. Small daily actions are adding up."},
	{4,
		"Best execution week so far. Side project has 3 core features working. Reached out to 2 potential beta testers.",
		"Still struggling with weekend workouts. Should switch to outdoor activities on weekends.",
		"The scorecard is really motivating. Seeing the numbers makes me want to keep the streak going."},
	{6,
		"Completed half the online course! Fitness is feeling like a genuine habit now, not a chore.",
		"Blog post cadence slipped. Need to timebox writing to Thursday evenings.",
		"Week 6 is the halfway point. Reviewing my vision statement reminded me why I started."},
	{8,
		"Side project MVP is feature-complete! Got 4 people to sign up for beta. Reading streak is at 50+ days.",
		"Networking goal has been inconsistent. Should focus on deeper conversations.",
		"The compound effect is real. 8 weeks of small daily actions has produced visible results."},
}

// Demo creates a demo cycle with goals, tactics, eight weeks of simulated
// completions, and a handful of reviews. It is a no-op when cycles already
// exist.
func Demo(store storage.Provider) error {
	cycles, err := store.GetCycles()
	if err != nil {
		return err
	}
	if len(cycles) > 0 {
		return nil
	}

	rand := &lcg{state: 42}

	cycleID, err := store.CreateCycle(
		"Q1 2026 — Growth Sprint",
		"2026-01-05",
		"By the end of these 12 weeks I will have built a consistent fitness routine, shipped v1 of my side project, and developed a daily learning habit.",
	)
	if err != nil {
		return err
	}

	type seeded struct {
		id     int64
		target int
	}
	var tactics []seeded

	for _, g := range demoGoals {
		goalID, err := store.CreateGoal(cycleID, g.title, g.description)
		if err != nil {
			return err
		}
		for _, t := range g.tactics {
			tacticID, err := store.CreateTactic(goalID, t.title, t.target)
			if err != nil {
				return err
			}
			tactics = append(tactics, seeded{id: tacticID, target: t.target})
		}
	}

	// Simulate improving execution: base day probability climbs from roughly
	// 55% in week 1 toward 85% by week 8, with weekends skipped more often.
	for week := 1; week <= 8; week++ {
		baseProb := 0.50 + float64(week)/12*0.40
		for _, tactic := range tactics {
			daysChecked := 0
			for _, day := range models.DayKeys {
				roll := rand.next()
				weekendPenalty := 0.0
				if day == models.DaySat || day == models.DaySun {
					weekendPenalty = 0.15
				}
				done := roll < baseProb-weekendPenalty && daysChecked < tactic.target+1
				if !done {
					continue
				}
				if err := store.UpsertDayCompletion(cycleID, week, tactic.id, day, true); err != nil {
					return err
				}
				daysChecked++
			}
		}
	}

	for _, r := range demoReviews {
		if err := store.SaveWeeklyReview(cycleID, r.week, r.wins, r.improvements, r.insights); err != nil {
			return err
		}
	}

	return nil
}
