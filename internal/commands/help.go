package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:         "help [command]",
	Short:       "Show help for liftlog",
	Long:        `Display an overview of every liftlog command, or the help of one command.`,
	Annotations: map[string]string{skipStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				_ = target.Help()
				return
			}
		}
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
██╗     ██╗███████╗████████╗██╗      ██████╗  ██████╗
██║     ██║██╔════╝╚══██╔══╝██║     ██╔═══██╗██╔════╝
██║     ██║█████╗     ██║   ██║     ██║   ██║██║  ███╗
██║     ██║██╔══╝     ██║   ██║     ██║   ██║██║   ██║
███████╗██║██║        ██║   ███████╗╚██████╔╝╚██████╔╝
╚══════╝╚═╝╚═╝        ╚═╝   ╚══════╝ ╚═════╝  ╚═════╝

liftlog - CLI Workout Logger

EXERCISES:

  exercise ls [query]       List the catalog
    --region --movement --muscle   Filter by classification
    --custom                       Only exercises you created
    --json                         JSON output
  exercise add <name>       Create a custom exercise
    --region --movement --muscle   Required, see 'exercise options'
    --equipment --notes
  exercise edit <ref>       Change an exercise, only the flags given
  exercise rm <ref>         Delete an exercise and every set logged for it
  exercise options          Show which movements and muscles fit together

TEMPLATES:

  template ls               List templates
  template show <ref>       Show planned sets
  template new <name>       Create a template
    -x "Bench Press = 3x8@80"      Exercise with planned sets (repeatable)
  template edit <ref>       Change a template
    --name --add --remove --set
  template copy <ref> <name>
  template rm <ref>

WORKOUTS:

  start [template]          Start a workout and open the live screen
    --name                         Workout name
    --no-ui                        Log with 'session' commands instead

    Live screen keys:
      ↑/↓           Select exercise
      n             Add a set (copies the previous one)
      x             Drop the last set
      a             Add an exercise
      e             Edit the last set
      D             Remove the exercise
      f             Finish
      C             Cancel (asks first)
      q/esc         Leave, the workout keeps running

  session status            Show the running workout
  session ui                Reopen the live screen
  session add <exercise>    Add an exercise with its first set
  session set <exercise> [spec]    Log another set
  session edit-set <set> <spec>    Change a set (bench, bench:2 or set id)
  session rm-set <set>
  session rm-exercise <exercise>
  session rename <name>
  session finish
  session cancel --yes

    Set spec:
      3x10          Three sets of ten reps
      @62.5         Weight in kg, @135lb is converted
      rpe:8         Effort, 0 to 10
      5m, 90s, 1:30 Duration for cardio
      #warmup       Set type: warmup, drop, failure, superset, giant, pyramid
      anything else Notes

    Example:
      liftlog session set bench "8@80 rpe:8 felt strong"

HISTORY:

  history                   Finished workouts by day
    --since --limit --json
  history show <ref>
  history rm <ref>
  week                      Sets per exercise and day this week
    --weeks-ago N

  version                   Print the version
  help                      Show this help

Global flags: --config <file>, --log-level <level>

`)
}
