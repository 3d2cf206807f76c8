package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liftforge/backend/internal/models"
)

// openTestDB returns an isolated in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.FitnessProfile{},
		&models.Exercise{},
		&models.NutritionPlan{},
		&models.ProgramVersion{},
		&models.WorkoutSession{},
		&models.SetLog{},
		&models.ProgressPhoto{},
	))

	return db
}
