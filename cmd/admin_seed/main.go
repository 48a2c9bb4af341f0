// Command admin_seed creates the initial admin account from environment
// variables. It is idempotent: an existing admin is left untouched.
package main

import (
	"errors"
	"log"
	"os"

	"splitbuy/internal/config"
	"splitbuy/internal/models"
	"splitbuy/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Printf("Failed to get SQL DB instance: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}()

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing admin: %v", result.Error)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Role:         models.RoleAdmin,
		TokenVersion: 1,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin account created successfully")
}
