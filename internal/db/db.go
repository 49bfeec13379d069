package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipebox/internal/config"
	applog "recipebox/internal/log"
	"recipebox/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Tables lists every model owned by the application in migration order.
func Tables() []any {
	return []any{
		&models.User{},
		&models.Recipe{},
		&models.Ingredient{},
		&models.Step{},
		&models.MealType{},
		&models.RecipeMealType{},
		&models.Rating{},
		&models.ShoppingItem{},
		&models.RecentlyViewed{},
		&models.MealPlan{},
	}
}

// GormConfig returns the gorm settings shared by every data source.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 NewLogger(200 * time.Millisecond),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}
}

func dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", config.DriverPostgres:
		return postgres.Open(cfg.URL), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.URL), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Initialize opens a data source for cfg. The returned handle is meant to be
// passed to each store constructor; nothing in this package keeps it.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	applog.Debug(context.Background(), "database opened", "driver", db.Dialector.Name())

	return db, nil
}

// OpenMemory opens and migrates a named in-memory sqlite database. Handles
// opened with the same name share data while any of them is open. The pool is
// pinned to one connection so sqlite's shared-cache table locks never surface.
func OpenMemory(name string) (*gorm.DB, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("memory database name must not be empty")
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the schema and seeds the meal-type catalogue.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	if err := db.AutoMigrate(Tables()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, statement := range collationFixes(db.Dialector.Name()) {
		if err := db.Exec(statement).Error; err != nil {
			return fmt.Errorf("apply collation: %w", err)
		}
	}

	return SeedMealTypes(db)
}

// collationFixes returns the statements that make name keys compare
// case-sensitively on dialects whose default collation does not.
func collationFixes(dialect string) []string {
	if dialect != config.DriverMySQL {
		return nil
	}
	return []string{
		"ALTER TABLE shopping_lists MODIFY ingredient_name VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	}
}

// SeedMealTypes inserts the default meal types that are missing. Existing rows
// are left untouched.
func SeedMealTypes(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	types := make([]models.MealType, 0, len(models.DefaultMealTypes))
	for _, name := range models.DefaultMealTypes {
		types = append(types, models.MealType{Name: name})
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&types).Error
	if err != nil {
		return fmt.Errorf("seed meal types: %w", err)
	}
	return nil
}

// Configure opens and migrates the data source described by cfg.
func Configure(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

func MustConfigure(cfg config.DatabaseConfig) *gorm.DB {
	database, err := Configure(cfg)
	if err != nil {
		panic(err)
	}

	return database
}
