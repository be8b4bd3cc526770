package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/getwebfast/site-backend/config"
	"github.com/getwebfast/site-backend/errs"
	"github.com/glebarez/sqlite"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	DBTypeSupabase = "supa"
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

func newGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		PrepareStmt:    false,
		Logger:         newGormLogger(),
		TranslateError: true,
	}
}

// PostgresDSN builds the connection string for DB_TYPE. DATABASE_URL wins
// for plain postgres; supa assembles it from the SUPABASE_DB_* parts.
func PostgresDSN(c map[string]string) (string, error) {
	switch dbType := config.GetString(c, "DB_TYPE", DBTypeSupabase); dbType {
	case DBTypeSupabase:
		host := config.GetString(c, "SUPABASE_DB_HOST", "")
		if host == "" {
			return "", errs.NewEnvironmentVariableError("SUPABASE_DB_HOST")
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			host,
			config.GetString(c, "SUPABASE_DB_USER", "postgres"),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case DBTypePostgres:
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return "", errs.NewEnvironmentVariableError("DATABASE_URL")
		}
		return dsn, nil
	default:
		return "", errs.NewConfigInvalidError("DB_TYPE", fmt.Sprintf("unsupported database type %q", dbType))
	}
}

// Open connects to the database selected by DB_TYPE, tunes the pool,
// registers read replicas and migrates when AUTO_MIGRATE is set.
func Open(c map[string]string) (*gorm.DB, error) {
	dbType := config.GetString(c, "DB_TYPE", DBTypeSupabase)
	zlog.Info().Str("dbType", dbType).Msg("Connecting to database")

	var (
		db  *gorm.DB
		err error
	)
	if dbType == DBTypeSQLite {
		db, err = OpenSQLite(config.GetString(c, "SQLITE_PATH", "gwf.db"))
		if err != nil {
			return nil, err
		}
	} else {
		dsn, err := PostgresDSN(c)
		if err != nil {
			return nil, err
		}
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}

		if err := registerReplicas(db, config.GetStrings(c, "DATABASE_REPLICA_URLS")); err != nil {
			return nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 10))
		sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 50))
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	if config.GetBool(c, "AUTO_MIGRATE", dbType == DBTypeSQLite) {
		if err := New(db).Migrate(); err != nil {
			return nil, err
		}
		zlog.Info().Msg("Database migration completed")
	}

	return db, nil
}

// OpenSQLite opens a SQLite database at path. ":memory:" keeps a single
// connection so every query sees the same in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if strings.HasPrefix(path, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func registerReplicas(db *gorm.DB, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	replicas := make([]gorm.Dialector, 0, len(urls))
	for _, u := range urls {
		replicas = append(replicas, postgres.New(postgres.Config{DSN: u, PreferSimpleProtocol: true}))
	}
	err := db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxIdleConns(5).
		SetConnMaxLifetime(time.Hour))
	if err != nil {
		return fmt.Errorf("register read replicas: %w", err)
	}
	zlog.Info().Int("replicas", len(replicas)).Msg("Registered read replicas")
	return nil
}
