// Package tui holds the interactive live-workout screen.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/balkashynov/liftlog/internal/models"
)

// Controller is a live session the screen can drive and finally close
type Controller interface {
	LiveSession
	Finish(ctx context.Context) (*models.Workout, error)
	Cancel(ctx context.Context) error
}

// RunSessionTUI shows the live workout screen. Finishing or cancelling happens
// after the program exits; leaving with q keeps the session active.
func RunSessionTUI(ctx context.Context, sess Controller, finder ExerciseFinder) (Outcome, error) {
	model := NewSessionModel(ctx, sess, finder)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return Detached, err
	}

	m, ok := finalModel.(SessionModel)
	if !ok {
		return Detached, fmt.Errorf("unexpected model %T", finalModel)
	}

	switch m.Outcome() {
	case Finish:
		w, err := sess.Finish(ctx)
		if err != nil {
			return Detached, fmt.Errorf("failed to finish workout: %w", err)
		}
		log.WithFields(log.Fields{"workout_id": w.ID, "sets": len(w.Sets)}).Debug("finished from tui")
		fmt.Printf("🏁 Finished %q\n", w.Name)
		fmt.Printf("📊 %d exercises, %d sets in %s\n", len(w.Exercises), len(w.Sets), clockText(w.Duration().Round(time.Second)))
	case Cancel:
		if err := sess.Cancel(ctx); err != nil {
			return Detached, fmt.Errorf("failed to cancel workout: %w", err)
		}
		fmt.Println("🗑️  Workout discarded.")
	default:
		fmt.Println("\n💡 Your workout is still running.")
		fmt.Println("   Use 'liftlog session' to come back or 'liftlog session finish' to wrap it up.")
	}

	return m.Outcome(), nil
}
