package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/liftlab/liftplan/internal/models"
)

// SaveSession persists a session with its instances and sets. The
// session row is upserted; instances and sets are replaced wholesale,
// since substitution recreates them with potentially different set
// counts.
//
// Called fire-and-forget after the in-memory mutation commits: a
// failure here is logged by the caller and never rolled back against
// the in-memory state.
func (db *DB) SaveSession(ctx context.Context, session models.WorkoutSession, instances []models.ExerciseInstance, sets []models.ExerciseSet) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning session save: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO sessions (id, user_id, program_id, split, scheduled_date, exercise_ids, selected_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		   split = EXCLUDED.split,
		   scheduled_date = EXCLUDED.scheduled_date,
		   exercise_ids = EXCLUDED.exercise_ids,
		   selected_at = EXCLUDED.selected_at`,
		session.ID, session.UserID, session.ProgramID, string(session.Split),
		session.Date, session.ExerciseIDs, session.SelectedAt)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM exercise_sets WHERE session_id = $1`, session.ID); err != nil {
		return fmt.Errorf("clearing sets: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM exercise_instances WHERE session_id = $1`, session.ID); err != nil {
		return fmt.Errorf("clearing instances: %w", err)
	}

	if len(instances) > 0 {
		query := `INSERT INTO exercise_instances (id, session_id, exercise_id, protocol_id, status, superset_label) VALUES `
		args := make([]any, 0, len(instances)*6)
		valueStrings := make([]string, 0, len(instances))

		for i, inst := range instances {
			base := i * 6
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6,
			))
			args = append(args, inst.ID, inst.SessionID, inst.ExerciseID, inst.ProtocolID,
				string(inst.Status), inst.SupersetLabel)
		}

		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting instances: %w", err)
		}
	}

	if len(sets) > 0 {
		query := `INSERT INTO exercise_sets (id, instance_id, session_id, set_number, target_weight, target_reps, target_rpe, target_seconds, completed, created_at) VALUES `
		args := make([]any, 0, len(sets)*10)
		valueStrings := make([]string, 0, len(sets))

		for i, set := range sets {
			base := i * 10
			valueStrings = append(valueStrings, fmt.Sprintf(
				"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
			))
			args = append(args, set.ID, set.InstanceID, session.ID, set.SetNumber,
				set.TargetWeight, set.TargetReps, set.TargetRPE, set.TargetSeconds,
				set.Completed, set.CreatedAt)
		}

		if _, err := tx.Exec(ctx, query+strings.Join(valueStrings, ","), args...); err != nil {
			return fmt.Errorf("inserting sets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing session save: %w", err)
	}
	return nil
}
