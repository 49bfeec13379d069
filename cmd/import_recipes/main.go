package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/store"
	"recipebox/models"
)

// recipeRecord is one document entry of the import file:
//
//	- title: Pancakes
//	  image: pancakes.jpg
//	  meal_type: Breakfast
//	  ingredients:
//	    - {name: Flour, quantity: 200 g}
//	  steps:
//	    - Whisk everything
type recipeRecord struct {
	Title       string             `yaml:"title"`
	Image       string             `yaml:"image"`
	MealType    string             `yaml:"meal_type"`
	Ingredients []ingredientRecord `yaml:"ingredients"`
	Steps       []string           `yaml:"steps"`
}

type ingredientRecord struct {
	Name     string `yaml:"name"`
	Quantity string `yaml:"quantity"`
}

type importSummary struct {
	Created int
	Updated int
}

func main() {
	path := "recipes.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(context.Background(), path); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("recipe file path must not be empty")
	}

	records, err := readRecipes(path)
	if err != nil {
		return fmt.Errorf("read recipes: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	summary, err := importRecipes(ctx, database, records)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d recipes (%d created, %d updated) from %s\n",
		summary.Created+summary.Updated, summary.Created, summary.Updated, filepath.Base(path))
	return nil
}

func readRecipes(path string) ([]recipeRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var records []recipeRecord
	if err := decoder.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("recipe file is empty")
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("recipe file is empty")
	}
	return records, nil
}

func (r recipeRecord) input() store.RecipeInput {
	input := store.RecipeInput{
		Title:    r.Title,
		Image:    r.Image,
		MealType: r.MealType,
		Steps:    r.Steps,
	}
	for _, ing := range r.Ingredients {
		input.Ingredients = append(input.Ingredients, store.IngredientInput{Name: ing.Name, Quantity: ing.Quantity})
	}
	return input
}

// importRecipes creates each record, or rewrites the active recipe that
// already carries its title. The first failing record stops the import.
func importRecipes(ctx context.Context, database *gorm.DB, records []recipeRecord) (importSummary, error) {
	recipes := store.NewRecipeStore(database)
	summary := importSummary{}

	for idx, record := range records {
		title := strings.TrimSpace(record.Title)

		var existing []uint
		err := database.WithContext(ctx).Model(&models.Recipe{}).
			Where("title = ? AND active = ?", title, true).
			Order("id").
			Limit(1).
			Pluck("id", &existing).Error
		if err != nil {
			return summary, fmt.Errorf("record %d (%s): find recipe: %w", idx+1, title, err)
		}

		if len(existing) > 0 {
			if err := recipes.Update(ctx, existing[0], record.input(), store.RoleAdmin); err != nil {
				return summary, fmt.Errorf("record %d (%s): %w", idx+1, title, err)
			}
			summary.Updated++
			continue
		}

		if _, err := recipes.Create(ctx, record.input()); err != nil {
			return summary, fmt.Errorf("record %d (%s): %w", idx+1, title, err)
		}
		summary.Created++
	}

	return summary, nil
}
