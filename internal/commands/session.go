package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/session"
	"github.com/balkashynov/liftlog/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [template-ref]",
	Short: "Start a workout, blank or from a template",
	Long: `Start a workout session. Opens the live workout screen by default, use --no-ui to log from
the command line with the 'session' commands. If a workout is already running it is reopened.

Examples:
  liftlog start                    # blank workout named after today
  liftlog start "push day"         # copy exercises and sets from a template
  liftlog start --name "Hotel gym" --no-ui`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		opts := session.StartOptions{NameFormat: cfg.Session.DefaultNameFormat}
		opts.Name, _ = cmd.Flags().GetString("name")

		if len(args) > 0 {
			t, err := store.FindWorkout(ctx, args[0], db.Templates)
			if err != nil {
				printError(err)
				return
			}
			opts.TemplateID = &t.ID
		}

		sess, err := session.Start(ctx, store, opts)
		if errors.Is(err, db.ErrSessionActive) {
			fmt.Println("💡 A workout is already running, picking it up.")
			sess, err = session.Resume(ctx, store)
		}
		if err != nil {
			printError(err)
			return
		}

		noUI, _ := cmd.Flags().GetBool("no-ui")
		if noUI || !cfg.UI.Enabled {
			w, err := sess.Workout(ctx)
			if err != nil {
				printError(err)
				return
			}
			fmt.Printf("🏋️  Started %q\n", w.Name)
			fmt.Printf("Started at: %s\n", w.StartedAt.Local().Format("15:04:05"))
			if len(w.Exercises) > 0 {
				fmt.Printf("%d exercises and %d sets planned, see 'liftlog session status'\n", len(w.Exercises), len(w.Sets))
			}
			return
		}

		if _, err := tui.RunSessionTUI(ctx, sess, store); err != nil {
			printError(err)
		}
	},
}

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Log sets in the running workout",
	Long: `Log sets in the running workout from the command line.

Sets are referenced by exercise: "bench" is the last set of that exercise, "bench:2" the
second one. The short set id shown by 'session status' works too.`,
}

// withSession resumes the active session before running fn
func withSession(fn func(cmd *cobra.Command, args []string, sess *session.Session)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		sess, err := session.Resume(cmd.Context(), store)
		if err != nil {
			printError(err)
			return
		}
		fn(cmd, args, sess)
	}
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running workout",
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		w, err := sess.Workout(cmd.Context())
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("⏱️  Elapsed time: %s\n", parser.FormatDuration(int(sess.Elapsed(time.Now()).Seconds())))
		printWorkout(w)
	}),
}

var sessionUICmd = &cobra.Command{
	Use:   "ui",
	Short: "Reopen the live workout screen",
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		if _, err := tui.RunSessionTUI(cmd.Context(), sess, store); err != nil {
			printError(err)
		}
	}),
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <exercise-ref>",
	Short: "Add an exercise with its first set",
	Args:  cobra.MinimumNArgs(1),
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		ex, err := store.FindExercise(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			printError(err)
			return
		}
		set, err := sess.AddExercise(cmd.Context(), ex.ID)
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("✅ Added %s: %s\n", ex.Name, parser.Describe(set.SetValues, ex.IsDuration()))
	}),
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <exercise-ref> [spec]",
	Short: "Log another set of an exercise",
	Long: `Log another set. It starts from the values of the previous set of that exercise, with
the optional spec applied on top. A count logs several identical sets.

Examples:
  liftlog session set bench             # same as last time
  liftlog session set bench 6@85 rpe:9
  liftlog session set "assault bike" 5m #warmup
  liftlog session set squat 3x5@100`,
	Args: cobra.RangeArgs(1, 2),
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		ctx := cmd.Context()
		ex, err := store.FindExercise(ctx, args[0])
		if err != nil {
			printError(err)
			return
		}
		spec := parser.ParseSetSpec("")
		if len(args) > 1 {
			spec = parser.ParseSetSpec(args[1])
		}
		if err := spec.Err(); err != nil {
			printError(err)
			return
		}

		for n := 0; n < spec.Count; n++ {
			set, err := sess.AddSet(ctx, ex.ID)
			if err != nil {
				printError(err)
				return
			}
			if spec.HasValues() {
				if set, err = sess.UpdateSet(ctx, set.ID, spec.Apply(set.SetValues)); err != nil {
					printError(err)
					return
				}
			}
			fmt.Printf("✅ %s set %d: %s\n", ex.Name, set.Position+1, parser.Describe(set.SetValues, ex.IsDuration()))
		}
	}),
}

var sessionEditSetCmd = &cobra.Command{
	Use:   "edit-set <set-ref> <spec>",
	Short: "Change the values of a logged set",
	Args:  cobra.ExactArgs(2),
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		ctx := cmd.Context()
		set, ex, err := lookupSet(cmd, sess, args[0])
		if err != nil {
			printError(err)
			return
		}
		spec := parser.ParseSetSpec(args[1])
		if err := spec.Err(); err != nil {
			printError(err)
			return
		}
		updated, err := sess.UpdateSet(ctx, set.ID, spec.Apply(set.SetValues))
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("✅ %s: %s\n", ex.Name, parser.Describe(updated.SetValues, ex.IsDuration()))
	}),
}

var sessionRemoveSetCmd = &cobra.Command{
	Use:   "rm-set <set-ref>",
	Short: "Delete a logged set",
	Args:  cobra.ExactArgs(1),
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		set, ex, err := lookupSet(cmd, sess, args[0])
		if err != nil {
			printError(err)
			return
		}
		if err := sess.RemoveSet(cmd.Context(), set.ID); err != nil {
			printError(err)
			return
		}
		fmt.Printf("🗑️  Removed %s set: %s\n", ex.Name, parser.Describe(set.SetValues, ex.IsDuration()))
	}),
}

// lookupSet resolves a set reference against the current state of the workout
func lookupSet(cmd *cobra.Command, sess *session.Session, ref string) (*models.Set, *models.Exercise, error) {
	ctx := cmd.Context()
	w, err := sess.Workout(ctx)
	if err != nil {
		return nil, nil, err
	}
	set, err := findSet(w, func(r string) (*models.Exercise, error) {
		return store.FindExercise(ctx, r)
	}, ref)
	if err != nil {
		return nil, nil, err
	}
	return set, &set.Exercise, nil
}

var sessionRemoveExerciseCmd = &cobra.Command{
	Use:   "rm-exercise <exercise-ref>",
	Short: "Remove an exercise and its sets from the workout",
	Args:  cobra.MinimumNArgs(1),
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		ex, err := store.FindExercise(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			printError(err)
			return
		}
		if err := sess.RemoveExercise(cmd.Context(), ex.ID); err != nil {
			printError(err)
			return
		}
		fmt.Printf("🗑️  Removed %s from the workout\n", ex.Name)
	}),
}

var sessionRenameCmd = &cobra.Command{
	Use:   "rename <name>",
	Short: "Rename the running workout",
	Args:  cobra.MinimumNArgs(1),
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		name := strings.Join(args, " ")
		if err := sess.Rename(cmd.Context(), name); err != nil {
			printError(err)
			return
		}
		fmt.Printf("✅ Workout renamed to %q\n", name)
	}),
}

var sessionFinishCmd = &cobra.Command{
	Use:     "finish",
	Aliases: []string{"done", "stop"},
	Short:   "Finish the running workout",
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		w, err := sess.Finish(cmd.Context())
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("🏁 Finished %q\n", w.Name)
		fmt.Printf("📊 %d exercises, %d sets in %s\n", len(w.Exercises), len(w.Sets), parser.FormatDuration(int(w.Duration().Seconds())))
	}),
}

var sessionCancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Discard the running workout",
	Run: withSession(func(cmd *cobra.Command, args []string, sess *session.Session) {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Println("This discards the workout and every set logged in it. Run again with --yes to confirm.")
			return
		}
		if err := sess.Cancel(cmd.Context()); err != nil {
			printError(err)
			return
		}
		fmt.Println("🗑️  Workout discarded.")
	}),
}

func init() {
	startCmd.Flags().StringP("name", "n", "", "Workout name")
	startCmd.Flags().Bool("no-ui", false, "Start without the live workout screen")

	sessionCancelCmd.Flags().BoolP("yes", "y", false, "Confirm discarding the workout")

	sessionCmd.AddCommand(
		sessionStatusCmd,
		sessionUICmd,
		sessionAddCmd,
		sessionSetCmd,
		sessionEditSetCmd,
		sessionRemoveSetCmd,
		sessionRemoveExerciseCmd,
		sessionRenameCmd,
		sessionFinishCmd,
		sessionCancelCmd,
	)
}
