package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv baca .env kalau ada. Di server (Render/systemd) env sudah di-set, jadi file boleh tidak ada.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("ℹ️  .env tidak ditemukan, pakai environment sistem")
	}
}

func GetEnv(key string, def ...string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if len(def) > 0 {
		return def[0]
	}
	return ""
}

func GetEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  %s=%q bukan angka, pakai default %d", key, v, def)
		return def
	}
	return n
}
