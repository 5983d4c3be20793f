package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/liftlog/internal/db"
	"github.com/balkashynov/liftlog/internal/models"
	"github.com/balkashynov/liftlog/internal/taxonomy"
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage the exercise catalog",
}

var exerciseListCmd = &cobra.Command{
	Use:     "ls [query]",
	Aliases: []string{"list", "search"},
	Short:   "List exercises",
	Long: `List exercises, optionally filtered by a name query and classification.

Examples:
  liftlog exercise ls
  liftlog exercise ls press --region upper
  liftlog exercise ls --muscle quads --json`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter := db.ExerciseFilter{}
		if len(args) > 0 {
			filter.Query = args[0]
		}
		var err error
		if filter.Region, err = enumFlag(cmd, "region", taxonomy.ParseBodyRegion); err != nil {
			printError(err)
			return
		}
		if filter.Movement, err = enumFlag(cmd, "movement", taxonomy.ParseMovementType); err != nil {
			printError(err)
			return
		}
		if filter.Muscle, err = enumFlag(cmd, "muscle", taxonomy.ParseMuscleGroup); err != nil {
			printError(err)
			return
		}
		filter.CustomOnly, _ = cmd.Flags().GetBool("custom")
		filter.Limit, _ = cmd.Flags().GetInt("limit")

		exercises, err := store.SearchExercises(cmd.Context(), filter)
		if err != nil {
			printError(err)
			return
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			if err := printJSON(exercises); err != nil {
				printError(err)
			}
			return
		}

		if len(exercises) == 0 {
			fmt.Println("No exercises found. Use 'liftlog exercise add <name>' to create one.")
			return
		}
		renderExerciseTable(exercises)
	},
}

func renderExerciseTable(exercises []models.Exercise) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("%-8s %-34s %-10s %-10s %-12s %-11s", "ID", "NAME", "REGION", "MOVEMENT", "MUSCLE", "EQUIPMENT")))
	fmt.Println(strings.Repeat("-", 90))
	for _, ex := range exercises {
		name := truncate(ex.Name, 34)
		if ex.IsCustom {
			name = truncate(ex.Name, 32) + " *"
		}
		fmt.Printf("%-8s %-34s %-10s %-10s %-12s %-11s\n",
			models.ShortID(ex.ID),
			name,
			dash(string(ex.BodyRegion)),
			dash(string(ex.MovementType)),
			dash(string(ex.PrimaryMuscleGroup)),
			dash(string(ex.Equipment)))
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("\n%d exercises (* = custom)", len(exercises))))
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a custom exercise",
	Long: `Create a custom exercise. Region, movement and muscle group are required and must fit
together, see 'liftlog exercise options'.

Example:
  liftlog exercise add "Landmine Press" --region upper --movement push --muscle shoulders --equipment barbell`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req := db.CreateExerciseRequest{Name: strings.Join(args, " ")}
		var err error
		if req.BodyRegion, err = enumFlag(cmd, "region", taxonomy.ParseBodyRegion); err != nil {
			printError(err)
			return
		}
		if req.MovementType, err = enumFlag(cmd, "movement", taxonomy.ParseMovementType); err != nil {
			printError(err)
			return
		}
		if req.PrimaryMuscleGroup, err = enumFlag(cmd, "muscle", taxonomy.ParseMuscleGroup); err != nil {
			printError(err)
			return
		}
		if req.Equipment, err = enumFlag(cmd, "equipment", taxonomy.ParseEquipment); err != nil {
			printError(err)
			return
		}
		req.Notes, _ = cmd.Flags().GetString("notes")

		ex, err := store.CreateExercise(cmd.Context(), req)
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("✅ New exercise %q added - ID: %s\n", ex.Name, models.ShortID(ex.ID))
	},
}

var exerciseEditCmd = &cobra.Command{
	Use:   "edit <ref>",
	Short: "Edit an exercise",
	Long: `Edit an exercise. Only the flags given are changed. Changing the region clears a movement
type that no longer fits it, and changing the movement clears a muscle group that no longer fits.

Example:
  liftlog exercise edit "landmine" --muscle chest`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ex, err := store.FindExercise(cmd.Context(), args[0])
		if err != nil {
			printError(err)
			return
		}

		req := db.UpdateExerciseRequest{}
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			req.Name = &name
		}
		if cmd.Flags().Changed("notes") {
			notes, _ := cmd.Flags().GetString("notes")
			req.Notes = &notes
		}
		if req.BodyRegion, err = enumFlagPtr(cmd, "region", taxonomy.ParseBodyRegion); err != nil {
			printError(err)
			return
		}
		if req.MovementType, err = enumFlagPtr(cmd, "movement", taxonomy.ParseMovementType); err != nil {
			printError(err)
			return
		}
		if req.PrimaryMuscleGroup, err = enumFlagPtr(cmd, "muscle", taxonomy.ParseMuscleGroup); err != nil {
			printError(err)
			return
		}
		if req.Equipment, err = enumFlagPtr(cmd, "equipment", taxonomy.ParseEquipment); err != nil {
			printError(err)
			return
		}

		updated, err := store.UpdateExercise(cmd.Context(), ex.ID, req)
		if err != nil {
			printError(err)
			return
		}
		fmt.Printf("✅ Exercise %q updated\n", updated.Name)
		fmt.Printf("   %s / %s / %s\n",
			dash(string(updated.BodyRegion)),
			dash(string(updated.MovementType)),
			dash(string(updated.PrimaryMuscleGroup)))
	},
}

var exerciseRemoveCmd = &cobra.Command{
	Use:     "rm <ref>",
	Aliases: []string{"delete"},
	Short:   "Delete an exercise with every set logged for it",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ex, err := store.FindExercise(cmd.Context(), args[0])
		if err != nil {
			printError(err)
			return
		}
		usage, err := store.ExerciseUsage(cmd.Context(), ex.ID)
		if err != nil {
			printError(err)
			return
		}
		if yes, _ := cmd.Flags().GetBool("yes"); !yes && usage.Sets > 0 {
			fmt.Printf("%q is used by %d templates and %d workouts (%d sets).\n",
				ex.Name, usage.Templates, usage.Workouts, usage.Sets)
			fmt.Println("Deleting it removes those sets too. Run again with --yes to confirm.")
			return
		}
		if err := store.DeleteExercise(cmd.Context(), ex.ID); err != nil {
			printError(err)
			return
		}
		fmt.Printf("🗑️  Exercise %q deleted\n", ex.Name)
	},
}

var exerciseOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show which movement types and muscle groups fit together",
	Long: `Show the classification choices. With --region, lists the movement types valid for
that region. With --movement, lists the muscle groups valid for that movement.`,
	Annotations: map[string]string{skipStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		region, err := enumFlag(cmd, "region", taxonomy.ParseBodyRegion)
		if err != nil {
			printError(err)
			return
		}
		movement, err := enumFlag(cmd, "movement", taxonomy.ParseMovementType)
		if err != nil {
			printError(err)
			return
		}

		switch {
		case movement != "":
			printOptions("Muscle groups for "+string(movement), taxonomy.MuscleGroupsFor(movement))
		case region != "":
			printOptions("Movement types for "+string(region), taxonomy.MovementTypesFor(region))
		default:
			printOptions("Body regions", taxonomy.AllBodyRegions())
			printOptions("Movement types", taxonomy.AvailableMovementTypes(""))
			printOptions("Muscle groups", taxonomy.AllMuscleGroups())
			printOptions("Equipment", taxonomy.AllEquipment())
			printOptions("Set types", taxonomy.AllSetTypes())
		}
	},
}

func printOptions[T ~string](title string, values []T) {
	fmt.Println(headerStyle.Render(title))
	for _, v := range values {
		fmt.Printf("  %s\n", v)
	}
}

// enumFlag parses a taxonomy flag; an unset flag gives the zero value
func enumFlag[T ~string](cmd *cobra.Command, name string, parse func(string) (T, error)) (T, error) {
	var zero T
	raw, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(raw) == "" {
		return zero, nil
	}
	return parse(raw)
}

// enumFlagPtr is enumFlag for partial updates: nil when the flag was not given,
// and a pointer to the zero value when it was given empty, which clears the field.
func enumFlagPtr[T ~string](cmd *cobra.Command, name string, parse func(string) (T, error)) (*T, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	v, err := enumFlag(cmd, name, parse)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func addClassificationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("region", "r", "", "Body region: upper|lower|full body|core|cardio|other")
	cmd.Flags().StringP("movement", "m", "", "Movement type: push|pull|legs|compound|isolation|cardio|other")
	cmd.Flags().String("muscle", "", "Primary muscle group")
}

func init() {
	addClassificationFlags(exerciseListCmd)
	exerciseListCmd.Flags().Bool("custom", false, "Only show exercises you created")
	exerciseListCmd.Flags().Int("limit", 0, "Maximum number of results")
	exerciseListCmd.Flags().Bool("json", false, "JSON output")

	addClassificationFlags(exerciseAddCmd)
	exerciseAddCmd.Flags().StringP("equipment", "e", "", "Equipment")
	exerciseAddCmd.Flags().String("notes", "", "Notes")

	addClassificationFlags(exerciseEditCmd)
	exerciseEditCmd.Flags().String("name", "", "New name")
	exerciseEditCmd.Flags().StringP("equipment", "e", "", "Equipment")
	exerciseEditCmd.Flags().String("notes", "", "Notes")

	exerciseRemoveCmd.Flags().BoolP("yes", "y", false, "Delete even when sets reference it")

	exerciseOptionsCmd.Flags().StringP("region", "r", "", "Body region")
	exerciseOptionsCmd.Flags().StringP("movement", "m", "", "Movement type")

	exerciseCmd.AddCommand(exerciseListCmd, exerciseAddCmd, exerciseEditCmd, exerciseRemoveCmd, exerciseOptionsCmd)
}
