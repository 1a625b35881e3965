package database

import (
	"adultna_backend/internal/config"
	"adultna_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// shouldMigrate reports whether AutoMigrate runs on startup: always outside
// release mode, in release mode only when forced from the command line.
func shouldMigrate(cfg *config.Config) bool {
	return cfg.ForceMigrate || cfg.Server.Mode != "release"
}

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbc := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbc.User,
		dbc.Password,
		dbc.Host,
		dbc.Port,
		dbc.DBName,
		dbc.Charset,
		dbc.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !shouldMigrate(cfg) {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.InterviewQuestion{},
		&model.InterviewSession{},
		&model.SessionQuestion{},
		&model.GradedAnswer{},
		&model.InterviewRecording{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// Seed a starter pool of general questions so a fresh install can run an
	// interview immediately.
	var count int64
	db.Model(&model.InterviewQuestion{}).Count(&count)
	if count == 0 {
		defaultQuestions := []model.InterviewQuestion{
			{Text: "Tell me about yourself.", IsGeneral: true, Order: 1, Enabled: true},
			{Text: "What are your greatest strengths?", IsGeneral: true, Order: 2, Enabled: true},
			{Text: "Describe a challenge you faced and how you handled it.", IsGeneral: true, Order: 3, Enabled: true},
			{Text: "Why do you want this role?", IsGeneral: true, Order: 4, Enabled: true},
			{Text: "Where do you see yourself in five years?", IsGeneral: true, Order: 5, Enabled: true},
		}
		for _, q := range defaultQuestions {
			db.Create(&q)
		}
	}

	return db, nil
}
