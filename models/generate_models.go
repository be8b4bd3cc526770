package models

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Model generation and column report usage:

	GENERATE_MODELS=true        migrate, print the column report, then write
	                            typed query helpers to ./generated
	GENERATE_COLUMN_REPORT=true only print the column report

The report lists, per table, the columns present in the database that no
field of the Go model maps to. Leftover columns usually come from edits made
in the Supabase dashboard.

	=== COLUMN MISMATCH REPORT ===
	--- Table: posts ---
	Found 1 columns not accounted for in model:
	  - legacy_views
*/

// All returns one zero value per persisted model, in migration order.
func All() []any {
	return []any{
		&Post{},
		&Service{},
		&Project{},
		&Testimonial{},
		&Banner{},
		&User{},
		&Session{},
		&Inquiry{},
	}
}

// Migrate creates or alters every table to match the models.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{Logger: newLogger})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)

	fmt.Println("Migrating models...")
	if err := Migrate(db); err != nil {
		return err
	}
	fmt.Println("Database migration completed successfully!")

	if err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// ColumnMismatches returns, per table, the database columns no model field
// maps to. Tables that do not exist yet are skipped.
func ColumnMismatches(db *gorm.DB) (map[string][]string, error) {
	cache := &sync.Map{}
	out := make(map[string][]string)

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parse schema for %T: %w", model, err)
		}
		if !db.Migrator().HasTable(s.Table) {
			continue
		}

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("read columns of %s: %w", s.Table, err)
		}

		known := make(map[string]struct{}, len(s.DBNames))
		for _, name := range s.DBNames {
			known[name] = struct{}{}
		}

		var missing []string
		for _, ct := range columnTypes {
			if _, ok := known[ct.Name()]; !ok {
				missing = append(missing, ct.Name())
			}
		}
		sort.Strings(missing)
		out[s.Table] = missing
	}
	return out, nil
}

// GenerateColumnMismatchReport prints the result of ColumnMismatches.
func GenerateColumnMismatchReport(db *gorm.DB) error {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	report, err := ColumnMismatches(db)
	if err != nil {
		return err
	}

	tables := make([]string, 0, len(report))
	for table := range report {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	total := 0
	for _, table := range tables {
		fmt.Printf("\n--- Table: %s ---\n", table)
		cols := report[table]
		if len(cols) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}
		fmt.Printf("Found %d columns not accounted for in model:\n", len(cols))
		for _, col := range cols {
			fmt.Printf("  - %s\n", col)
		}
		total += len(cols)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
	return nil
}
