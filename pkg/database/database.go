package database

import (
	"astro_learn_backend/internal/config"
	"astro_learn_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一键冲突翻译为 gorm.ErrDuplicatedKey，提交/授予的幂等判断依赖它
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate 建表并补齐索引；成就目录的播种由 AchievementService 在启动时执行
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Planet{},
		&model.Level{},
		&model.Exercise{},
		&model.ExerciseAttempt{},
		&model.StudentProgress{},
		&model.Achievement{},
		&model.AchievementGrant{},
	)
}
