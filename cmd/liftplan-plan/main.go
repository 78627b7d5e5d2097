// liftplan-plan builds a single workout session from a profile file
// and prints the materialized plan as JSON. It runs entirely offline
// against the embedded catalogs: no database, no server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	liftplan "github.com/liftlab/liftplan"
	"github.com/liftlab/liftplan/internal/catalog"
	"github.com/liftlab/liftplan/internal/engine/materialize"
	assignor "github.com/liftlab/liftplan/internal/engine/protocols"
	"github.com/liftlab/liftplan/internal/engine/selector"
	"github.com/liftlab/liftplan/internal/engine/superset"
	"github.com/liftlab/liftplan/internal/memstore"
	"github.com/liftlab/liftplan/internal/models"
	"github.com/liftlab/liftplan/internal/planner"
)

// profile is the YAML input describing who trains and how.
type profile struct {
	UserID           string                   `yaml:"user_id"`
	Split            models.Split             `yaml:"split"`
	DurationMinutes  int                      `yaml:"duration_minutes"`
	Goal             models.Goal              `yaml:"goal"`
	Experience       models.ExperienceLevel   `yaml:"experience"`
	Equipment        []models.Equipment       `yaml:"equipment"`
	Excluded         []string                 `yaml:"excluded"`
	Emphasized       []models.MuscleGroup     `yaml:"emphasized"`
	PreferBodyweight bool                     `yaml:"prefer_bodyweight"`
	SupersetStyle    superset.Style           `yaml:"superset_style"`
	Library          []string                 `yaml:"library"`
	Progression      models.ProgressionConfig `yaml:"progression"`
	ProgramStart     string                   `yaml:"program_start"` // YYYY-MM-DD
	Targets          []profileTarget          `yaml:"targets"`
}

// profileTarget is a known one-rep max for one exercise.
type profileTarget struct {
	ExerciseID string  `yaml:"exercise_id"`
	Current    float64 `yaml:"current"`
}

func main() {
	profilePath := flag.String("profile", "", "path to profile YAML (required)")
	date := flag.String("date", "", "session date, YYYY-MM-DD (default today)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *profilePath == "" {
		fmt.Fprintln(os.Stderr, "usage: liftplan-plan -profile <profile.yaml> [-date YYYY-MM-DD]")
		os.Exit(2)
	}

	if err := run(*profilePath, *date, log); err != nil {
		log.Error("plan failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(profilePath, dateStr string, log *slog.Logger) error {
	data, err := os.ReadFile(profilePath)
	if err != nil {
		return fmt.Errorf("reading profile: %w", err)
	}
	var prof profile
	if err := yaml.Unmarshal(data, &prof); err != nil {
		return fmt.Errorf("parsing profile: %w", err)
	}
	if prof.Split == "" {
		return fmt.Errorf("profile: split is required")
	}
	if prof.DurationMinutes <= 0 {
		return fmt.Errorf("profile: duration_minutes must be positive")
	}

	now := time.Now()
	sessionDate := now
	if dateStr != "" {
		sessionDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fmt.Errorf("parsing -date: %w", err)
		}
	}
	var programStart time.Time
	if prof.ProgramStart != "" {
		programStart, err = time.Parse("2006-01-02", prof.ProgramStart)
		if err != nil {
			return fmt.Errorf("parsing program_start: %w", err)
		}
	}

	exercises, err := catalog.LoadExercises(liftplan.SeedFS, "seed/exercises.yaml")
	if err != nil {
		return err
	}
	protocols, err := catalog.LoadProtocols(liftplan.SeedFS, "seed/protocols.yaml")
	if err != nil {
		return err
	}

	store := memstore.New()
	userID := prof.UserID
	if userID == "" {
		userID = "local"
	}
	if len(prof.Library) > 0 {
		lib := models.UserLibrary{UserID: userID, ExerciseIDs: map[string]bool{}}
		for _, id := range prof.Library {
			lib.ExerciseIDs[id] = true
		}
		store.PutLibrary(lib)
	}
	for _, t := range prof.Targets {
		store.PutTarget(models.StrengthTarget{
			UserID:     userID,
			ExerciseID: t.ExerciseID,
			Current:    t.Current,
			UpdatedAt:  now,
		})
	}

	estimator := materialize.NewEstimator(exercises, store)
	pl := planner.New(
		exercises, protocols,
		selector.New(exercises, log),
		assignor.New(protocols, nil, log),
		superset.New(log),
		materialize.New(protocols, estimator, nil, log),
		store, nil, log,
	)

	plan, err := pl.BuildSession(context.Background(), planner.BuildRequest{
		UserID:           userID,
		Split:            prof.Split,
		Date:             sessionDate,
		DurationMinutes:  prof.DurationMinutes,
		Goal:             prof.Goal,
		Experience:       prof.Experience,
		Equipment:        prof.Equipment,
		Excluded:         prof.Excluded,
		Emphasized:       prof.Emphasized,
		PreferBodyweight: prof.PreferBodyweight,
		SupersetStyle:    prof.SupersetStyle,
		Progression:      prof.Progression,
		ProgramStart:     programStart,
	}, now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
