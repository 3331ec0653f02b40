package models

import (
	"strings"
	"time"
)

type ContainerStatus string

const (
	ContainerOpen    ContainerStatus = "Open"
	ContainerRunning ContainerStatus = "Sedang Berjalan"
	ContainerClosed  ContainerStatus = "Closed"
)

// rank dipakai untuk menjaga status tidak mundur.
func (s ContainerStatus) rank() int {
	switch s {
	case ContainerOpen:
		return 0
	case ContainerRunning:
		return 1
	case ContainerClosed:
		return 2
	}
	return -1
}

// Before true kalau s ada di tahap lebih awal dari other.
func (s ContainerStatus) Before(other ContainerStatus) bool {
	return s.rank() < other.rank()
}

func ParseContainerStatus(s string) (ContainerStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "_", " ")
	switch v {
	case "open":
		return ContainerOpen, true
	case "sedang berjalan", "running", "berjalan":
		return ContainerRunning, true
	case "closed", "close":
		return ContainerClosed, true
	}
	return "", false
}

// Container = satu batch checkout untuk satu event.
type Container struct {
	ID         string          `gorm:"primaryKey;size:40"                      json:"id"` // CTR-YYYYMMDD-XXXX
	EventName  string          `gorm:"size:200;not null"                       json:"event_name"`
	PIC        string          `gorm:"column:pic;size:120;not null"            json:"pic"`
	Crew       string          `gorm:"size:255"                                json:"crew"`
	Location   string          `gorm:"size:255"                                json:"location"`
	StartDate  string          `gorm:"size:20"                                 json:"start_date"`
	EndDate    string          `gorm:"size:20"                                 json:"end_date"`
	OrderTitle string          `gorm:"size:200"                                json:"order_title"`
	Status     ContainerStatus `gorm:"size:20;not null;default:Open;index"     json:"status"`
	CreatedBy  uint            `json:"created_by"`

	Items []ContainerItem `gorm:"foreignKey:ContainerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
