package service

import (
	"errors"

	"github.com/PvtMilo/WMS-demo/models"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Caller user yang sedang melakukan aksi. Service hanya butuh id + role.
type Caller struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

func (c Caller) idPtr() *uint {
	if c.ID == 0 {
		return nil
	}
	id := c.ID
	return &id
}

// CallerResolver menerjemahkan token dari client menjadi Caller.
// Kembalikan ErrUnauthenticated kalau token tidak dikenal / kedaluwarsa.
type CallerResolver interface {
	ResolveCaller(token string) (Caller, error)
}
