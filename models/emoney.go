package models

import (
	"strings"
	"time"
)

type EmoneyStatus string

const (
	EmoneyOpen   EmoneyStatus = "Open"
	EmoneyClosed EmoneyStatus = "Closed"
)

func ParseEmoneyStatus(s string) (EmoneyStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return EmoneyOpen, true
	case "closed", "close":
		return EmoneyClosed, true
	}
	return "", false
}

type EmoneyTxType string

const (
	EmoneyTopup   EmoneyTxType = "topup"   // IN
	EmoneyExpense EmoneyTxType = "expense" // OUT
)

func ParseEmoneyTxType(s string) (EmoneyTxType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "topup", "top_up", "in":
		return EmoneyTopup, true
	case "expense", "out":
		return EmoneyExpense, true
	}
	return "", false
}

// EmoneyAccount kas kecil untuk event. Saldo tidak disimpan, selalu dihitung dari mutasi.
type EmoneyAccount struct {
	ID        string       `gorm:"primaryKey;size:40"           json:"id"` // EM-YYYYMMDD-XXXX
	Label     string       `gorm:"size:120;not null;uniqueIndex" json:"label"`
	Status    EmoneyStatus `gorm:"size:10;not null;default:Open" json:"status"`
	CreatedBy uint         `json:"created_by"`

	Transactions []EmoneyTransaction `gorm:"foreignKey:EmoneyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmoneyTransaction mutasi topup/expense. Amount dalam sen (integer).
type EmoneyTransaction struct {
	ID             uint         `gorm:"primaryKey"                json:"id"`
	EmoneyID       string       `gorm:"size:40;not null;index"    json:"emoney_id"`
	Type           EmoneyTxType `gorm:"size:10;not null"          json:"type"`
	AmountCents    int64        `gorm:"not null"                  json:"amount_cents"`
	Note           *string      `gorm:"size:255"                  json:"note"`
	RefContainerID *string      `gorm:"size:40;index"             json:"ref_container_id"` // lookup saja, tanpa cascade
	CreatedBy      uint         `json:"created_by"`
	CreatedAt      time.Time    `gorm:"not null;index"            json:"created_at"`
}
