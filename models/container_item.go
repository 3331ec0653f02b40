package models

import (
	"strings"
	"time"
)

type LineCondition string

const (
	CondGood        LineCondition = "good"
	CondRusakRingan LineCondition = "rusak_ringan"
	CondRusakBerat  LineCondition = "rusak_berat"
	CondHilang      LineCondition = "hilang"
)

const BatchMain = "MAIN"

// ParseLineCondition satu-satunya tempat normalisasi kondisi (lost == hilang).
func ParseLineCondition(s string) (LineCondition, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, " ", "_")
	switch v {
	case "good", "baik":
		return CondGood, true
	case "rusak_ringan", "ringan":
		return CondRusakRingan, true
	case "rusak_berat", "berat":
		return CondRusakBerat, true
	case "lost", "hilang":
		return CondHilang, true
	}
	return "", false
}

// Severity: good < rusak_ringan < rusak_berat. Hilang di luar urutan.
func (c LineCondition) Severity() int {
	switch c {
	case CondGood:
		return 0
	case CondRusakRingan:
		return 1
	case CondRusakBerat:
		return 2
	}
	return -1
}

func (c LineCondition) IsDamage() bool {
	return c == CondRusakRingan || c == CondRusakBerat
}

// RegistryState status item yang sesuai dengan kondisi ini.
// Nilai yang tidak dikenal jatuh ke Good/none.
func (c LineCondition) RegistryState() (ItemStatus, DefectLevel) {
	switch c {
	case CondRusakRingan:
		return ItemRusak, DefectRingan
	case CondRusakBerat:
		return ItemRusak, DefectBerat
	case CondHilang:
		return ItemHilang, DefectNone
	}
	return ItemGood, DefectNone
}

// ContainerItem satu baris ledger: 1 item dalam 1 kontainer dari checkout sampai kembali.
// Baris tidak pernah dihapus; salah scan ditandai void.
type ContainerItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ContainerID string `gorm:"size:40;not null;index;uniqueIndex:uq_container_item_active,where:voided_at IS NULL" json:"container_id"`
	IDCode      string `gorm:"size:80;not null;index;uniqueIndex:uq_container_item_active,where:voided_at IS NULL"  json:"id_code"`

	AddedAt             time.Time     `gorm:"not null;index"  json:"added_at"`
	BatchLabel          string        `gorm:"size:40;not null" json:"batch_label"` // MAIN | AMEND-YYYYMMDD-HHMM
	ConditionAtCheckout LineCondition `gorm:"size:20;not null" json:"condition_at_checkout"`
	OverrideReason      *string       `gorm:"size:255"         json:"override_reason"` // wajib jika rusak_berat
	OverrideBy          *uint         `json:"override_by"`
	AmendReason         *string       `gorm:"size:255"         json:"amend_reason"`
	AddedBy             uint          `json:"added_by"`

	VoidedAt   *time.Time `gorm:"index"    json:"voided_at"`
	VoidReason *string    `gorm:"size:255" json:"void_reason"`
	VoidedBy   *uint      `json:"voided_by"`

	ReturnedAt      *time.Time     `gorm:"index"    json:"returned_at"`
	ReturnCondition *LineCondition `gorm:"size:20"  json:"return_condition"`
	DamageNote      *string        `gorm:"size:500" json:"damage_note"`
	CheckedInBy     *uint          `json:"checked_in_by"`
}

func (l ContainerItem) IsActive() bool   { return l.VoidedAt == nil }
func (l ContainerItem) IsReturned() bool { return l.ReturnedAt != nil }
