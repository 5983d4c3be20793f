package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/editor"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/parser"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"tpl"},
	Short:   "Manage workout templates",
}

var templateListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List templates",
	Run: func(cmd *cobra.Command, args []string) {
		templates, err := store.ListTemplates(cmd.Context())
		if err != nil {
			printError(err)
			return
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if err := printJSON(templates); err != nil {
				printError(err)
			}
			return
		}

		if len(templates) == 0 {
			fmt.Println("No templates yet. Use 'liftlog template new <name>' to create one.")
			return
		}
		fmt.Println(headerStyle.Render(fmt.Sprintf("%-8s %-36s %-10s %s", "ID", "NAME", "EXERCISES", "SETS")))
		fmt.Println(strings.Repeat("-", 64))
		for _, t := range templates {
			fmt.Printf("%-8s %-36s %-10d %d\n", models.ShortID(t.ID), truncate(t.Name, 36), len(t.Exercises), len(t.Sets))
		}
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show a template with its planned sets",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, err := store.FindWorkout(cmd.Context(), args[0], db.Templates)
		if err != nil {
			printError(err)
			return
		}
		printWorkout(t)
	},
}

var templateNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a template",
	Long: `Create a template. Each --exercise names an exercise and, after '=', the sets to plan for it.

Examples:
  liftlog template new "Push Day" \
    --exercise "Barbell Bench Press = 3x8@80 rpe:8" \
    --exercise "Overhead Press = 3x10@40" \
    --exercise "Triceps Pushdown"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d := editor.NewDraft()
		d.Name = strings.Join(args, " ")

		lines, _ := cmd.Flags().GetStringArray("exercise")
		for _, line := range lines {
			if err := applyTemplateLine(cmd.Context(), d, line, true); err != nil {
				printError(err)
				return
			}
		}

		saveDraft(cmd.Context(), d, "created")
	},
}

var templateEditCmd = &cobra.Command{
	Use:   "edit <ref>",
	Short: "Edit a template",
	Long: `Edit a template. --add links exercises with one default set, --remove drops them with
their sets, and --set replaces the planned sets of one exercise.

Examples:
  liftlog template edit "push day" --name "Push A"
  liftlog template edit "push day" --add "Dips" --remove "Triceps Pushdown"
  liftlog template edit "push day" --set "Barbell Bench Press = 5x5@90"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		t, err := store.FindWorkout(ctx, args[0], db.Templates)
		if err != nil {
			printError(err)
			return
		}
		d, err := store.LoadDraft(ctx, t.ID)
		if err != nil {
			printError(err)
			return
		}

		if cmd.Flags().Changed("name") {
			d.Name, _ = cmd.Flags().GetString("name")
		}

		removes, _ := cmd.Flags().GetStringArray("remove")
		for _, ref := range removes {
			ex, err := store.FindExercise(ctx, ref)
			if err != nil {
				printError(err)
				return
			}
			if !d.RemoveExercise(ex.ID) {
				printError(fmt.Errorf("%w: %s", editor.ErrExerciseNotInDraft, ex.Name))
				return
			}
		}

		adds, _ := cmd.Flags().GetStringArray("add")
		for _, ref := range adds {
			if err := applyTemplateLine(ctx, d, ref, false); err != nil {
				printError(err)
				return
			}
		}

		sets, _ := cmd.Flags().GetStringArray("set")
		for _, line := range sets {
			if err := applyTemplateLine(ctx, d, line, true); err != nil {
				printError(err)
				return
			}
		}

		saveDraft(ctx, d, "updated")
	},
}

// applyTemplateLine adds the exercise named on the line to d. With replace, a spec
// after '=' replaces its sets; otherwise an exercise new to the draft gets one
// default set.
func applyTemplateLine(ctx context.Context, d *editor.Draft, line string, replace bool) error {
	ref, spec, err := parser.ParseTemplateLine(line)
	if err != nil {
		return err
	}
	if err := spec.Err(); err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}
	ex, err := store.FindExercise(ctx, ref)
	if err != nil {
		return err
	}

	if _, err := d.Exercise(ex.ID); err != nil {
		d.ToggleExercise(*ex)
	}
	te, err := d.Exercise(ex.ID)
	if err != nil {
		return err
	}

	if !replace || !strings.Contains(line, "=") {
		if len(te.Sets) == 0 {
			_, err = d.AddSet(ex.ID)
		}
		return err
	}

	base := models.DefaultSetValues()
	if len(te.Sets) > 0 {
		base = te.Sets[len(te.Sets)-1].Values()
	}
	return d.ReplaceSets(ex.ID, templateSets(spec, base))
}

func saveDraft(ctx context.Context, d *editor.Draft, verb string) {
	for _, w := range d.Warnings() {
		fmt.Println(hintStyle.Render("warning: " + w))
	}
	t, err := store.SaveTemplate(ctx, d)
	if err != nil {
		printError(err)
		return
	}
	fmt.Printf("✅ Template %q %s - %d exercises, %d sets\n", t.Name, verb, len(t.Exercises), len(t.Sets))
}

var templateRemoveCmd = &cobra.Command{
	Use:     "rm <ref>",
	Aliases: []string{"delete"},
	Short:   "Delete a template",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, err := store.FindWorkout(cmd.Context(), args[0], db.Templates)
		if err != nil {
			printError(err)
			return
		}
		if err := store.DeleteWorkout(cmd.Context(), t.ID); err != nil {
			printError(err)
			return
		}
		fmt.Printf("🗑️  Template %q deleted\n", t.Name)
	},
}

var templateCopyCmd = &cobra.Command{
	Use:   "copy <ref> <name>",
	Short: "Duplicate a template under a new name",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		t, err := store.FindWorkout(cmd.Context(), args[0], db.Templates)
		if err != nil {
			printError(err)
			return
		}
		dup, err := store.DuplicateTemplate(cmd.Context(), t.ID, args[1])
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("✅ Copied %q to %q - ID: %s\n", t.Name, dup.Name, models.ShortID(dup.ID))
	},
}

func init() {
	templateListCmd.Flags().Bool("json", false, "JSON output")

	templateNewCmd.Flags().StringArrayP("exercise", "x", nil, `Exercise with planned sets, "Name = 3x8@80"`)

	templateEditCmd.Flags().String("name", "", "Rename the template")
	templateEditCmd.Flags().StringArray("add", nil, "Exercise to add")
	templateEditCmd.Flags().StringArray("remove", nil, "Exercise to remove with its sets")
	templateEditCmd.Flags().StringArray("set", nil, `Replace planned sets, "Name = 3x8@80"`)

	templateCmd.AddCommand(templateListCmd, templateShowCmd, templateNewCmd, templateEditCmd, templateRemoveCmd, templateCopyCmd)
}
