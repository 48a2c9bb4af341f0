// Package repositories provides the data access layer.
// It handles all database operations and data persistence logic.
package repositories

import (
	"log"
	"os"
	"time"

	"splitbuy/internal/config"
	"splitbuy/internal/models"
	"splitbuy/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig holds database connection pool configuration
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

var defaultDBConfig = DBConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    100,
	ConnMaxLifetime: time.Hour,
	ConnMaxIdleTime: time.Minute * 30,
}

// InitDB opens the PostgreSQL connection, applies pool settings and runs
// the schema migrations. The returned handle is injected into every
// repository by the process entry point; there is no package-level client.
func InitDB() (*gorm.DB, error) {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "splitbuy") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=disable"

	// TranslateError maps driver unique violations onto gorm.ErrDuplicatedKey,
	// which the repositories match on for duplicate detection.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(defaultDBConfig.MaxIdleConns)
	sqlDB.SetMaxOpenConns(defaultDBConfig.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(defaultDBConfig.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(defaultDBConfig.ConnMaxIdleTime)

	// Ignore "record not found" noise in the query log.
	db.Logger = logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Group{},
		&models.GroupStatusLog{},
		&models.GroupMember{},
		&models.ParticipantDeliveryAddress{},
		&models.UserProfileAddress{},
		&models.UserVendor{},
		&models.Transaction{},
		&models.WalletTransaction{},
		&models.Notification{},
		&models.PayoutCard{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("✅ PostgreSQL connected & migrations applied successfully!")
	return db, nil
}

// InitCache connects Redis and wraps it in the cache service.
func InitCache() *cache.CacheService {
	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	return cache.NewCacheService(cache.NewRedisClient(redisCfg), 24*time.Hour)
}
