package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/PvtMilo/WMS-demo/config"
	"github.com/PvtMilo/WMS-demo/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	testNow  = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	admin    = Caller{ID: 1, Username: "admin", Role: models.RoleAdmin}
	operator = Caller{ID: 2, Username: "ops", Role: models.RoleOperator}
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.Open(config.DriverSQLite, ":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// seqCodes kode deterministik: CTR-20250301-0001, CTR-20250301-0002, ...
func seqCodes() CodeGenerator {
	n := 0
	return func(prefix string, t time.Time) string {
		n++
		return fmt.Sprintf("%s-%s-%04d", prefix, t.Format("20060102"), n)
	}
}

type fixture struct {
	db  *gorm.DB
	svc *Services
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:  db,
		svc: New(db, WithClock(func() time.Time { return testNow }), WithCodeGenerator(seqCodes())),
		ctx: context.Background(),
	}
}

func (f *fixture) seedItem(t *testing.T, code string, status models.ItemStatus, defect models.DefectLevel) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.ItemUnit{
		IDCode:      code,
		Name:        "Item " + code,
		Category:    "Lighting",
		Model:       "PAR64",
		Rack:        "A1",
		Status:      status,
		DefectLevel: defect,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	}).Error)
}

func (f *fixture) item(t *testing.T, code string) models.ItemUnit {
	t.Helper()
	it, err := f.svc.Items.Get(f.ctx, code)
	require.NoError(t, err)
	return it
}

func (f *fixture) newContainer(t *testing.T) models.Container {
	t.Helper()
	ctr, err := f.svc.Containers.Create(f.ctx, CreateContainerRequest{EventName: "Konser", PIC: "Budi"}, admin)
	require.NoError(t, err)
	return ctr
}

func (f *fixture) activeLine(t *testing.T, containerID, code string) models.ContainerItem {
	t.Helper()
	var line models.ContainerItem
	require.NoError(t, f.db.Where("container_id = ? AND id_code = ? AND voided_at IS NULL", containerID, code).First(&line).Error)
	return line
}
