package utils

import (
	"log/slog"
	"net/http"

	"github.com/PvtMilo/WMS-demo/service"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    data,
	})
}

func Error(c *gin.Context, status int, message string, err error) {
	resp := gin.H{"message": message}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(status, resp)
}

func StatusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict, service.KindInvalidTransition:
		return http.StatusConflict
	case service.KindBusinessRule:
		return http.StatusUnprocessableEntity
	case service.KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// ServiceError kirim error dari layer service dengan status HTTP sesuai jenisnya.
// Error infrastruktur (tanpa kind) disembunyikan dari client.
func ServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	if kind == "" {
		slog.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Any("err", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Terjadi kesalahan server"})
		return
	}
	c.JSON(StatusFor(kind), gin.H{"error": true, "kind": kind, "message": err.Error()})
}
