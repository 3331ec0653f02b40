package models

import (
	"time"

	"gorm.io/datatypes"
)

// DnSnapshot versi surat jalan (delivery note) yang sudah dibekukan.
// Tidak pernah di-update atau dihapus.
type DnSnapshot struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ContainerID string         `gorm:"size:40;not null;uniqueIndex:uq_dn_container_version" json:"container_id"`
	Version     int            `gorm:"not null;uniqueIndex:uq_dn_container_version"        json:"version"`
	Payload     datatypes.JSON `gorm:"not null"                                            json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
	CreatedBy   *uint          `json:"created_by"`
}

// DnPayload isi snapshot: header kontainer + item per batch + rekap.
type DnPayload struct {
	Container DnContainerHeader      `json:"container"`
	Batches   map[string][]DnLineRow `json:"batches"`
	Totals    DnTotals               `json:"totals"`
	Note      string                 `json:"note"`
}

type DnContainerHeader struct {
	ID         string          `json:"id"`
	EventName  string          `json:"event_name"`
	PIC        string          `json:"pic"`
	Crew       string          `json:"crew"`
	Location   string          `json:"location"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	OrderTitle string          `json:"order_title"`
	Status     ContainerStatus `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
}

type DnLineRow struct {
	IDCode          string         `json:"id_code"`
	Name            string         `json:"name"`
	Model           string         `json:"model"`
	Rack            string         `json:"rack"`
	AddedAt         time.Time      `json:"added_at"`
	Condition       LineCondition  `json:"condition"`
	Reason          string         `json:"reason"`
	AmendReason     string         `json:"amend_reason,omitempty"`
	ReturnedAt      *time.Time     `json:"returned_at"`
	ReturnCondition *LineCondition `json:"return_condition"`
	DamageNote      *string        `json:"damage_note"`
}

type DnTotals struct {
	Returned    int `json:"returned"`
	Good        int `json:"good"`
	RusakRingan int `json:"rusak_ringan"`
	RusakBerat  int `json:"rusak_berat"`
	Hilang      int `json:"hilang"`
	Out         int `json:"out"`
	All         int `json:"all"`
}
