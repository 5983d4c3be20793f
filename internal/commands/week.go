package commands

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/models"
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show this week's sets per exercise and day",
	Long: `Show a weekly summary of finished workouts: the number of sets logged per exercise on
each day of the calendar week.

Example output:
  Exercise                Mon  Tue  Wed  Thu  Fri  Total
  Barbell Bench Press       4    -    3    -    -      7
  Barbell Back Squat        -    5    -    -    4      9
  Total                     4    5    3    0    4     16`,
	Run: func(cmd *cobra.Command, args []string) {
		back, _ := cmd.Flags().GetInt("weeks-ago")
		weekStart := getWeekStart(time.Now()).AddDate(0, 0, -7*back)

		workouts, err := store.GetFinishedWorkoutsInRange(cmd.Context(), weekStart, weekStart.AddDate(0, 0, 7))
		if err != nil {
			printError(err)
			return
		}
		if len(workouts) == 0 {
			fmt.Println("No workouts logged this week.")
			return
		}
		displayWeek(summarizeWeek(workouts), weekStart)
	},
}

// weekRow is the set count of one exercise per weekday
type weekRow struct {
	Exercise models.Exercise
	Days     map[time.Weekday]int
	Total    int
}

type weekSummary struct {
	Rows      []weekRow
	DayTotals map[time.Weekday]int
	Total     int
	Workouts  int
	Volume    float64
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// summarizeWeek counts sets per exercise and weekday. Rows are ordered by exercise name.
func summarizeWeek(workouts []models.Workout) weekSummary {
	rows := map[uuid.UUID]*weekRow{}
	summary := weekSummary{DayTotals: map[time.Weekday]int{}, Workouts: len(workouts)}

	for _, w := range workouts {
		if w.Date == nil {
			continue
		}
		day := w.Date.Local().Weekday()
		for _, s := range w.Sets {
			row, ok := rows[s.ExerciseID]
			if !ok {
				row = &weekRow{Exercise: s.Exercise, Days: map[time.Weekday]int{}}
				rows[s.ExerciseID] = row
			}
			row.Days[day]++
			row.Total++
			summary.DayTotals[day]++
			summary.Total++
			summary.Volume += s.Volume()
		}
	}

	for _, row := range rows {
		summary.Rows = append(summary.Rows, *row)
	}
	slices.SortFunc(summary.Rows, func(a, b weekRow) int {
		return models.CompareExercises(a.Exercise, b.Exercise)
	})
	return summary
}

// getWeekStart returns local midnight of the Monday starting t's week
func getWeekStart(t time.Time) time.Time {
	daysFromMonday := (int(t.Weekday()) + 6) % 7
	start := t.AddDate(0, 0, -daysFromMonday)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}

// visibleDays is Monday to Friday plus any weekend day that has sets
func visibleDays(s weekSummary) []time.Weekday {
	var days []time.Weekday
	for i, d := range weekdays {
		if i < 5 || s.DayTotals[d] > 0 {
			days = append(days, d)
		}
	}
	return days
}

func displayWeek(s weekSummary, weekStart time.Time) {
	nameWidth := 20
	for _, row := range s.Rows {
		nameWidth = max(nameWidth, len([]rune(row.Exercise.Name)))
	}
	nameWidth = min(nameWidth, 40)

	days := visibleDays(s)
	separator := strings.Repeat("-", nameWidth) + strings.Repeat("  ---", len(days)) + "  -----"

	header := fmt.Sprintf("%-*s", nameWidth, "Exercise")
	for _, d := range days {
		header += fmt.Sprintf("  %3s", d.String()[:3])
	}
	header += fmt.Sprintf("  %5s", "Total")
	fmt.Println(headerStyle.Render(header))
	fmt.Println(separator)

	cell := func(n int) string {
		if n == 0 {
			return fmt.Sprintf("  %3s", "-")
		}
		return fmt.Sprintf("  %3d", n)
	}

	for _, row := range s.Rows {
		line := fmt.Sprintf("%-*s", nameWidth, truncate(row.Exercise.Name, nameWidth))
		for _, d := range days {
			line += cell(row.Days[d])
		}
		fmt.Printf("%s  %5d\n", line, row.Total)
	}

	fmt.Println(separator)
	line := fmt.Sprintf("%-*s", nameWidth, "Total")
	for _, d := range days {
		line += fmt.Sprintf("  %3d", s.DayTotals[d])
	}
	fmt.Printf("%s  %5d\n", line, s.Total)

	fmt.Printf("\nWeek of %s to %s: %d workouts, %s kg volume\n",
		weekStart.Format("Jan 2"),
		weekStart.AddDate(0, 0, 6).Format("Jan 2, 2006"),
		s.Workouts,
		formatVolume(s.Volume))
}

func formatVolume(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func init() {
	weekCmd.Flags().Int("weeks-ago", 0, "Show an earlier week, 1 is last week")
}
