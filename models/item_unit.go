package models

import (
	"strings"
	"time"
)

type ItemStatus string

const (
	ItemGood   ItemStatus = "Good"
	ItemKeluar ItemStatus = "Keluar" // sedang checkout di kontainer
	ItemRusak  ItemStatus = "Rusak"
	ItemHilang ItemStatus = "Hilang"
	ItemAfkir  ItemStatus = "Afkir" // pensiun, tidak dipakai lagi
)

type DefectLevel string

const (
	DefectNone   DefectLevel = "none"
	DefectRingan DefectLevel = "ringan"
	DefectBerat  DefectLevel = "berat"
)

// ItemUnit adalah satu unit fisik barang event (1 kode = 1 unit).
type ItemUnit struct {
	IDCode      string      `gorm:"primaryKey;size:80"                        json:"id_code"`
	Name        string      `gorm:"size:200;not null;index"                   json:"name"`
	Category    string      `gorm:"size:120;not null;index"                   json:"category"`
	Model       string      `gorm:"size:120;not null;index"                   json:"model"`
	Rack        string      `gorm:"size:80;not null;index"                    json:"rack"`
	Status      ItemStatus  `gorm:"size:20;not null;default:Good;index"       json:"status"`
	DefectLevel DefectLevel `gorm:"size:10;not null;default:none"             json:"defect_level"`
	Serial      *string     `gorm:"size:120"                                  json:"serial"`
	IsUniversal bool        `gorm:"not null;default:false"                    json:"is_universal"`
	CreatedAt   time.Time   `gorm:"index"                                     json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (ItemUnit) TableName() string { return "item_units" }

// ParseItemStatus menerima variasi huruf besar/kecil, mis. "rusak" -> Rusak.
func ParseItemStatus(s string) (ItemStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good":
		return ItemGood, true
	case "keluar":
		return ItemKeluar, true
	case "rusak":
		return ItemRusak, true
	case "hilang", "lost":
		return ItemHilang, true
	case "afkir":
		return ItemAfkir, true
	}
	return "", false
}

func ParseDefectLevel(s string) (DefectLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DefectNone, true
	case "ringan":
		return DefectRingan, true
	case "berat":
		return DefectBerat, true
	}
	return "", false
}
