package controllers

import (
	"net/http"
	"strconv"

	"github.com/PvtMilo/WMS-demo/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Controller handler HTTP. DB dipakai langsung hanya untuk auth/user,
// selebihnya lewat service.
type Controller struct {
	DB  *gorm.DB
	Svc *service.Services
}

func New(db *gorm.DB, svc *service.Services) *Controller {
	return &Controller{DB: db, Svc: svc}
}

func getInt(c *gin.Context, key string, def int) int {
	v, _ := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(def)))
	if v <= 0 {
		return def
	}
	return v
}

// mustCaller tulis 401 dan return false kalau caller tidak ada.
func mustCaller(c *gin.Context) (service.Caller, bool) {
	caller, err := currentCaller(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": true, "message": "Unauthorized"})
		return service.Caller{}, false
	}
	return caller, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "payload tidak valid", "detail": err.Error()})
		return false
	}
	return true
}
