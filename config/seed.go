package config

import (
	"errors"
	"log"

	"github.com/PvtMilo/WMS-demo/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin buat akun admin pertama kalau username belum ada.
func SeedAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		return errors.New("username/password admin kosong")
	}

	var cnt int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     username,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Admin %q dibuat", username)
	return nil
}
