package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished workouts",
	Long: `List finished workouts grouped by day, newest first.

Examples:
  liftlog history
  liftlog history --since "2 weeks"
  liftlog history --limit 5 --json`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now()
		q := db.HistoryQuery{}
		q.Limit, _ = cmd.Flags().GetInt("limit")
		if since, _ := cmd.Flags().GetString("since"); since != "" {
			t, err := parser.ParseSince(since, now)
			if err != nil {
				printError(err)
				return
			}
			q.Since = t
		}

		workouts, err := store.ListHistory(cmd.Context(), q)
		if err != nil {
			printError(err)
			return
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if err := printJSON(workouts); err != nil {
				printError(err)
			}
			return
		}

		if len(workouts) == 0 {
			fmt.Println("No finished workouts yet. Use 'liftlog start' to log one.")
			return
		}
		for _, day := range groupByDay(workouts) {
			fmt.Println(headerStyle.Render(parser.FormatDay(day.Date, now)))
			for _, w := range day.Workouts {
				fmt.Printf("  %-8s %-32s %3d exercises %4d sets  %s\n",
					models.ShortID(w.ID),
					truncate(w.Name, 32),
					len(w.Exercises),
					len(w.Sets),
					parser.FormatDuration(int(w.Duration().Seconds())))
			}
		}
	},
}

type historyDay struct {
	Date     time.Time
	Workouts []models.Workout
}

// groupByDay buckets workouts by local calendar day, keeping their order
func groupByDay(workouts []models.Workout) []historyDay {
	var days []historyDay
	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		day := parser.StartOfDay(w.Date.Local())
		if n := len(days); n > 0 && days[n-1].Date.Equal(day) {
			days[n-1].Workouts = append(days[n-1].Workouts, w)
			continue
		}
		days = append(days, historyDay{Date: day, Workouts: []models.Workout{w}})
	}
	return days
}

var historyShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show a finished workout with its sets",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		w, err := store.FindWorkout(cmd.Context(), args[0], db.History)
		if err != nil {
			printError(err)
			return
		}
		printWorkout(w)
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:     "rm <ref>",
	Aliases: []string{"delete"},
	Short:   "Delete a finished workout",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		w, err := store.FindWorkout(cmd.Context(), args[0], db.History)
		if err != nil {
			printError(err)
			return
		}
		if err := store.DeleteWorkout(cmd.Context(), w.ID); err != nil {
			printError(err)
			return
		}
		fmt.Printf("🗑️  Workout %q deleted\n", w.DisplayName())
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "l", 0, "Maximum number of workouts")
	historyCmd.Flags().String("since", "", "Only workouts from this date: dd/mm/yyyy, today, 7d, 2 weeks")
	historyCmd.Flags().Bool("json", false, "JSON output")

	historyCmd.AddCommand(historyShowCmd, historyRemoveCmd)
}
