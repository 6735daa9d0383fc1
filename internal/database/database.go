package database

import (
	"fmt"

	"fatigue-go/internal/config"
	logging "fatigue-go/internal/logging"
	"fatigue-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(log *zap.Logger) {
	var err error
	dbConf := config.Conf.Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		dbConf.Host, dbConf.User, dbConf.Password, dbConf.DBName, dbConf.Port)

	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = logger.Warn

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle those separately.
	err := DB.AutoMigrate(
		&models.BehavioralEvent{},
		&models.KeyboardMetrics{},
		&models.PointerMetrics{},
		&models.FacialMetrics{},
		&models.VoiceMetrics{},
		&models.FatigueAnalysis{},
		&models.Recommendation{},
		&models.RecommendationWeight{},
		&models.ScalerFit{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	analysisIndex := `CREATE INDEX IF NOT EXISTS idx_analyses_query ON fatigue_analyses (user_id, timestamp DESC);`
	if err := DB.Exec(analysisIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on analyses table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
