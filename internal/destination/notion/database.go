package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/openfit-labs/fitsync-cli/internal/core/domain"
)

// exerciseDatabaseTitle names the auto-created progress database.
const exerciseDatabaseTitle = "Exercise Progress"

// CreateExerciseDatabase creates an exercise progress database next to the
// workouts database and returns its ID. The new database becomes a sibling:
// it is created under the workout database's parent page, so it only works
// when that parent is a page. Callers persist the returned ID and reuse it
// on later runs.
func CreateExerciseDatabase(ctx context.Context, client *notionapi.Client, workoutsDB string) (string, error) {
	parent, err := client.Database.Get(ctx, notionapi.DatabaseID(workoutsDB))
	if err != nil {
		return "", fmt.Errorf("%w: retrieve database %s: %v", domain.ErrUpstream, workoutsDB, err)
	}
	if parent.Parent.Type != notionapi.ParentTypePageID {
		return "", fmt.Errorf("%w: database %s is not inside a page, create the exercise database manually",
			domain.ErrNotConfigured, workoutsDB)
	}

	created, err := client.Database.Create(ctx, &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: parent.Parent.PageID,
		},
		Title: richText(exerciseDatabaseTitle, false),
		Properties: notionapi.PropertyConfigs{
			"Exercise": notionapi.TitlePropertyConfig{
				Type: notionapi.PropertyConfigTypeTitle,
			},
			"Date": notionapi.DatePropertyConfig{
				Type: notionapi.PropertyConfigTypeDate,
			},
			"Max Weight (kg)": notionapi.NumberPropertyConfig{
				Type:   notionapi.PropertyConfigTypeNumber,
				Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
			},
			"Total Volume (kg)": notionapi.NumberPropertyConfig{
				Type:   notionapi.PropertyConfigTypeNumber,
				Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
			},
			"Sets": notionapi.NumberPropertyConfig{
				Type:   notionapi.PropertyConfigTypeNumber,
				Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
			},
			"Total Reps": notionapi.NumberPropertyConfig{
				Type:   notionapi.PropertyConfigTypeNumber,
				Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
			},
			"Workout": notionapi.RichTextPropertyConfig{
				Type: notionapi.PropertyConfigTypeRichText,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: create exercise database: %v", domain.ErrUpstream, err)
	}
	return string(created.ID), nil
}
