package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/color"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column report usage:

	pamer report

Lists, per table, the database columns that no field of the matching Go model maps to.
Columns are matched through the `db` struct tag.

Example output:

	--- Table: projects ---
	Found 1 columns not accounted for in model:
	  - updated_at

	--- Table: categories ---
	All columns are accounted for in the model.
*/

// tableModels maps every managed table to its model.
var tableModels = map[string]interface{}{
	"projects":   Project{},
	"categories": Category{},
}

// AllModels returns pointers to every model, in migration order.
func AllModels() []interface{} {
	return []interface{}{&Category{}, &Project{}}
}

// GenerateModels migrates the schema and writes typed query helpers to outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Project{}, Category{})

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}

	if err := GenerateColumnReport(db, os.Stdout); err != nil {
		return err
	}

	g.Execute()
	return nil
}

// GenerateColumnReport writes the column mismatch report for every managed table to w.
func GenerateColumnReport(db *gorm.DB, w io.Writer) error {
	header := color.New(color.Bold)
	header.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	tables := make([]string, 0, len(tableModels))
	for name := range tableModels {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	total := 0
	for _, tableName := range tables {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", tableName)

		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				color.New(color.FgYellow).Fprintln(w, "Table does not exist yet (run `pamer migrate`)")
				continue
			}
			return err
		}

		mismatches := findColumnMismatches(dbColumns, modelColumns(tableModels[tableName]))
		if len(mismatches) == 0 {
			color.New(color.FgGreen).Fprintln(w, "All columns are accounted for in the model.")
			continue
		}

		fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			color.New(color.FgRed).Fprintf(w, "  - %s\n", col)
		}
		total += len(mismatches)
	}

	header.Fprintln(w, "\n=== SUMMARY ===")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", total)
	return nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	if len(columns) == 0 {
		var tableExists bool
		tableQuery := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = CURRENT_SCHEMA()
				AND table_name = ?
			)
		`
		if err := db.Raw(tableQuery, tableName).Scan(&tableExists).Error; err != nil {
			return nil, fmt.Errorf("error checking if table %s exists: %w", tableName, err)
		}
		if !tableExists {
			return nil, fmt.Errorf("table %s does not exist", tableName)
		}
	}

	return columns, nil
}

// modelColumns extracts column names from the `db` tags of a model struct.
func modelColumns(model interface{}) []string {
	var columns []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		if name, _, _ := strings.Cut(field.Tag.Get("db"), ","); name != "" && name != "-" {
			columns = append(columns, name)
		}
	}
	return columns
}

func findColumnMismatches(dbColumns, modelFields []string) []string {
	known := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		known[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !known[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
