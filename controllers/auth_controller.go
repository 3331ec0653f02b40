package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PvtMilo/WMS-demo/models"
	"github.com/PvtMilo/WMS-demo/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Controller) Login(c *gin.Context) {
	var in LoginInput
	if !bindJSON(c, &in) {
		return
	}

	var user models.User
	if err := h.DB.Where("username = ? AND is_active = ?", strings.TrimSpace(in.Username), true).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Username atau password salah"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Username atau password salah"})
		return
	}

	token, exp, err := utils.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "gagal membuat token", err)
		return
	}

	now := time.Now().UTC()
	if err := h.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login_at", now).Error; err != nil {
		log.Printf("⚠️  Gagal update last_login_at user %d: %v", user.ID, err)
	} else {
		user.LastLoginAt = &now
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Login sukses",
		"token":      token,
		"expires_at": exp,
		"user":       user,
	})
}

func (h *Controller) Me(c *gin.Context) {
	uid, err := currentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Unauthorized"})
		return
	}
	var user models.User
	if err := h.DB.First(&user, uid).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "User tidak ditemukan"})
		return
	}
	utils.Success(c, "Berhasil mengambil profil pengguna", user)
}

type CreateUserInput struct {
	Username string `json:"username"  binding:"required"`
	FullName string `json:"full_name"`
	Password string `json:"password"  binding:"required,min=6"`
	Role     string `json:"role"      binding:"required"`
}

// CreateUser admin membuat user pic/operator (atau admin lain).
func (h *Controller) CreateUser(c *gin.Context) {
	var in CreateUserInput
	if !bindJSON(c, &in) {
		return
	}
	role := models.Role(strings.ToLower(strings.TrimSpace(in.Role)))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "role harus admin/pic/operator"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "gagal hash password", err)
		return
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = strings.TrimSpace(in.Username)
	}
	user := models.User{
		Username:     strings.TrimSpace(in.Username),
		FullName:     fullName,
		Role:         role,
		PasswordHash: string(hash),
		AvatarURL:    utils.DefaultAvatar(fullName),
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": true, "message": "Username sudah dipakai"})
			return
		}
		utils.Error(c, http.StatusInternalServerError, "gagal membuat user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User dibuat", "data": user})
}

func (h *Controller) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, "gagal mengambil user", err)
		return
	}
	utils.Success(c, "OK", users)
}
