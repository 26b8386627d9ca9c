package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
	"github.com/todoapp/todo-api/internal/infrastructure/db/postgres"
	"github.com/todoapp/todo-api/pkg/logger"
)

// seedFile is the YAML layout accepted by "seed categories".
//
//	categories:
//	  - name: Work
//	    color: "#1f6feb"
type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
}

type seedCategory struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Icon  string `yaml:"icon"`
}

func seedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
	}
	cmd.AddCommand(seedCategoriesCommand())
	return cmd
}

func seedCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories FILE",
		Short: "Create categories listed in a YAML file",
		Long:  "Creates every category of FILE that does not exist yet. Running it twice is harmless.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (runErr error) {
			seed, err := loadSeedFile(args[0])
			if err != nil {
				return err
			}

			_, db, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := postgres.Close(db); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			created, err := seedCategories(cmd.Context(), postgres.NewCategoryRepository(db), seed.Categories)
			if err != nil {
				return err
			}
			log := logger.Get()
			log.Info().Int("created", created).Int("total", len(seed.Categories)).Msg("categories seeded")
			return nil
		},
	}
}

func loadSeedFile(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, c := range seed.Categories {
		if c.Name == "" {
			return nil, fmt.Errorf("%s: category #%d has no name", path, i+1)
		}
	}
	return &seed, nil
}

// seedCategories inserts the categories whose names are not taken and
// reports how many were created.
func seedCategories(ctx context.Context, repo ports.CategoryRepository, categories []seedCategory) (int, error) {
	created := 0
	for _, c := range categories {
		exists, err := repo.ExistsByName(ctx, c.Name)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		_, err = repo.Create(ctx, &domain.Category{Name: c.Name, Color: c.Color, Icon: c.Icon})
		if errors.Is(err, domain.ErrCategoryExists) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
