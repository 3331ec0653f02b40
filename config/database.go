package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var DB *gorm.DB

// postgresDSN ambil URL dari env (Render biasanya pakai DATABASE_URL), fallback lokal.
func postgresDSN() string {
	dbURL := GetEnv("DATABASE_URL", GetEnv("DB_URL"))

	if dbURL == "" {
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			GetEnv("DB_HOST", "localhost"),
			GetEnv("DB_USER", "postgres"),
			GetEnv("DB_PASSWORD", "12345"),
			GetEnv("DB_NAME", "wms"),
			GetEnv("DB_PORT", "5432"),
		)
	}

	// Render sering butuh sslmode=require; kalau belum ada, tambahkan
	if !strings.Contains(dbURL, "sslmode=") {
		dbURL = appendParam(dbURL, "sslmode=require")
	}
	// pastikan search_path public agar tabel dibuat di schema public
	if !strings.Contains(dbURL, "search_path=") {
		dbURL = appendParam(dbURL, "search_path=public")
	}
	return dbURL
}

func appendParam(url, kv string) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + kv
}

func logLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

// Open buka koneksi gorm untuk driver postgres / sqlite.
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	cfg := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	switch driver {
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(dsn), cfg)
		if err != nil {
			return nil, err
		}
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
		// sqlite hanya 1 writer, hindari "database is locked"
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres, "":
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return nil, fmt.Errorf("DB_DRIVER %q tidak dikenal (postgres|sqlite)", driver)
}

func ConnectDB() {
	driver := strings.ToLower(GetEnv("DB_DRIVER", DriverPostgres))
	level := logLevel(GetEnv("DB_LOG_LEVEL", "warn"))

	dsn := postgresDSN()
	if driver == DriverSQLite {
		dsn = GetEnv("SQLITE_PATH", "wms.sqlite3")
	}

	db, err := Open(driver, dsn, level)
	if err != nil {
		log.Fatalf("❌ Gagal konek ke database: %v", err)
	}

	if driver == DriverSQLite {
		log.Printf("✅ DB connected: sqlite path=%s", dsn)
		DB = db
		return
	}

	// set beberapa session (opsional tapi rapi)
	if err := db.Exec(`SET search_path TO public`).Error; err != nil {
		log.Printf("⚠️  Gagal set search_path public: %v", err)
	}
	if err := db.Exec(`SET TIME ZONE 'UTC'`).Error; err != nil {
		log.Printf("⚠️  Gagal set timezone UTC: %v", err)
	}

	var dbName, currentUser, searchPath string
	_ = db.Raw("SELECT current_database()").Scan(&dbName)
	_ = db.Raw("SELECT current_user").Scan(&currentUser)
	_ = db.Raw("SHOW search_path").Scan(&searchPath)
	log.Printf("✅ DB connected: db=%s user=%s search_path=%s", dbName, currentUser, searchPath)

	DB = db
}

// Migrate buat / update semua tabel.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ItemUnit{},
		&models.RepairHistory{},
		&models.Container{},
		&models.ContainerItem{},
		&models.DnSnapshot{},
		&models.EmoneyAccount{},
		&models.EmoneyTransaction{},
	)
}
