package models

import "time"

// RepairHistory jejak perubahan kondisi item di luar kontainer
// (perbaikan, update kondisi massal, tandai hilang).
type RepairHistory struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	IDCode string `gorm:"size:80;not null;index" json:"id_code"`

	Action    string      `gorm:"size:30;not null"  json:"action"` // repair | bulk_condition | mark_lost
	OldStatus ItemStatus  `gorm:"size:20;not null"  json:"old_status"`
	OldDefect DefectLevel `gorm:"size:10;not null"  json:"old_defect"`
	NewStatus ItemStatus  `gorm:"size:20;not null"  json:"new_status"`
	NewDefect DefectLevel `gorm:"size:10;not null"  json:"new_defect"`
	Note      string      `gorm:"size:500"          json:"repair_note"`

	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `gorm:"index" json:"repaired_at"`
}
