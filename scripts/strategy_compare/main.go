// Command strategy_compare runs both allocation strategies against a roster
// fixture and reports the placement diff. Useful when tuning the cost weights:
// a run where costMin places fewer lessons than greedy exits non-zero.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/escola-adp/horario-api/internal/models"
	"github.com/escola-adp/horario-api/internal/scheduler"
)

type fixture struct {
	Classes   []models.SchoolClass `json:"classes"`
	Teachers  []models.Teacher     `json:"teachers"`
	Subjects  []models.Subject     `json:"subjects"`
	Loads     []models.WeeklyLoad  `json:"loads"`
	Timeslots []models.Timeslot    `json:"timeslots"`
}

type outcome struct {
	Strategy   string
	Placed     int
	Unassigned int
	Repair     int
	Fitness    float64
	Elapsed    time.Duration
	Err        error
}

func main() {
	var (
		fixturePath         string
		periodsPerShift     int
		counterShiftPeriods int
	)

	flag.StringVar(&fixturePath, "fixture", filepath.Join("scripts", "strategy_compare", "fixture.json"), "Path to roster fixture JSON")
	flag.IntVar(&periodsPerShift, "periods", 5, "Teaching periods per shift")
	flag.IntVar(&counterShiftPeriods, "counter-shift", 2, "Counter-shift periods per eligible class")
	flag.Parse()

	snap, err := loadFixture(fixturePath)
	if err != nil {
		log.Fatalf("failed to load fixture: %v", err)
	}

	engine := scheduler.New(zap.NewNop())
	strategies := []string{scheduler.StrategyGreedy, scheduler.StrategyCostMin}

	outcomes := make([]outcome, 0, len(strategies))
	for _, name := range strategies {
		outcomes = append(outcomes, runStrategy(engine, name, snap, scheduler.Config{
			Strategy:            name,
			PeriodsPerShift:     periodsPerShift,
			CounterShiftPeriods: counterShiftPeriods,
		}))
	}

	printReport(outcomes)

	greedy, costMin := outcomes[0], outcomes[1]
	if greedy.Err != nil || costMin.Err != nil {
		os.Exit(1)
	}
	if costMin.Placed < greedy.Placed {
		fmt.Printf("Regression: costMin placed %d lessons, greedy placed %d\n", costMin.Placed, greedy.Placed)
		os.Exit(1)
	}
}

func loadFixture(path string) (scheduler.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scheduler.Snapshot{}, err
	}
	var fix fixture
	if err := json.Unmarshal(data, &fix); err != nil {
		return scheduler.Snapshot{}, err
	}
	if len(fix.Classes) == 0 || len(fix.Loads) == 0 {
		return scheduler.Snapshot{}, fmt.Errorf("fixture %s has no classes or loads", path)
	}
	return scheduler.Snapshot{
		Classes:   fix.Classes,
		Teachers:  fix.Teachers,
		Subjects:  fix.Subjects,
		Loads:     fix.Loads,
		Timeslots: fix.Timeslots,
	}, nil
}

func runStrategy(engine *scheduler.Engine, name string, snap scheduler.Snapshot, cfg scheduler.Config) outcome {
	start := time.Now()
	result, err := engine.Run(cfg, snap)
	out := outcome{Strategy: name, Elapsed: time.Since(start), Err: err}
	if err != nil {
		return out
	}
	out.Placed = result.Stats.PlacedCount
	out.Unassigned = result.Stats.UnassignedCount
	out.Repair = result.Stats.RepairPlacements
	out.Fitness = result.Stats.Fitness
	return out
}

func printReport(outcomes []outcome) {
	fmt.Println("Strategy Compare Report")
	fmt.Println("=======================")
	for _, out := range outcomes {
		if out.Err != nil {
			fmt.Printf("[ERROR] %s: %v\n", out.Strategy, out.Err)
			continue
		}
		fmt.Printf("[OK] %s (%s)\n", out.Strategy, out.Elapsed)
		fmt.Printf("  Placed: %d | Unassigned: %d | Repair: %d | Fitness: %.3f\n",
			out.Placed, out.Unassigned, out.Repair, out.Fitness)
	}
}
