package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/daffadev/pamer-backend/database"
	"github.com/daffadev/pamer-backend/models"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema and seed the default categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		db, err := database.Open(c)
		if err != nil {
			return err
		}

		if err := database.New(db).Migrate(cmd.Context()); err != nil {
			return err
		}

		color.Green("Schema is up to date (%d default categories seeded when empty)", len(models.DefaultCategories))
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Migrate and write typed query helpers",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		db, err := database.Open(c)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if err := models.GenerateModels(db, outPath); err != nil {
			return err
		}

		color.Green("Query helpers written to %s", outPath)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List database columns that no model field maps to",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}

		db, err := database.Open(c)
		if err != nil {
			return err
		}

		return models.GenerateColumnReport(db, cmd.OutOrStdout())
	},
}

func init() {
	generateCmd.Flags().String("out", "./query", "directory for the generated query package")
}
