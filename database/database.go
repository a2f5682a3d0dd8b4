package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/daffadev/pamer-backend/config"
	"github.com/daffadev/pamer-backend/models"
)

type Database struct {
	db           *gorm.DB
	projectRepo  *ProjectRepo
	categoryRepo *CategoryRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:           db,
		projectRepo:  NewProjectRepo(db),
		categoryRepo: NewCategoryRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

// DSN builds the Postgres connection string for the configured backend.
func DSN(c map[string]string, host string) (string, error) {
	switch dbType := config.GetString(c, "DB_TYPE", "supa"); dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			host,
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// Open connects to Postgres, registers read replicas when SUPABASE_DB_REPLICA_HOSTS is set
// and checks the connection.
func Open(c map[string]string) (*gorm.DB, error) {
	connStr, err := DSN(c, config.GetString(c, "SUPABASE_DB_HOST", ""))
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if config.GetBool(c, "DB_LOG_QUERIES", false) {
		logLevel = logger.Info
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if replicaHosts := config.GetList(c, "SUPABASE_DB_REPLICA_HOSTS"); len(replicaHosts) > 0 {
		replicas := make([]gorm.Dialector, 0, len(replicaHosts))
		for _, host := range replicaHosts {
			dsn, err := DSN(c, host)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	return db, nil
}

// Migrate creates the schema and seeds the default categories into an empty categories table.
func (d Database) Migrate(ctx context.Context) error {
	db := d.db.WithContext(ctx)

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("enable pgcrypto extension: %w", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("migrate models: %w", err)
	}

	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	seed := make([]models.Category, 0, len(models.DefaultCategories))
	for _, name := range models.DefaultCategories {
		seed = append(seed, models.Category{Name: strings.TrimSpace(name)})
	}
	if err := db.Create(&seed).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}
