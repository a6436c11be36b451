package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"tutalearn_backend/internal/config"
	"tutalearn_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 需要自动迁移的全部表
var Models = []interface{}{
	&model.Subject{},
	&model.Lesson{},
	&model.ProgressRecord{},
	&model.AnalyticsEvent{},
	&model.Profile{},
	&model.WhatsAppChat{},
}

const sqliteMemory = ":memory:"

func dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		if cfg.Path == sqliteMemory {
			return sqlite.Open(sqliteMemory), nil
		}
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// 生成的课程草稿可能没有科目
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// 内存 sqlite 每个连接都是独立的库，只保留一个连接
	if cfg.Driver == "sqlite" && cfg.Path == sqliteMemory {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Printf("Database connection established (%s)", driverName(cfg.Driver))

	if migrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func driverName(driver string) string {
	if driver == "" {
		return "postgres"
	}
	return driver
}
