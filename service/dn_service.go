package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DnService interface {
	Submit(ctx context.Context, containerID string, caller Caller) (models.DnSnapshot, error)
	Latest(ctx context.Context, containerID string) (models.DnSnapshot, error)
	ByVersion(ctx context.Context, containerID string, version int) (models.DnSnapshot, error)
	List(ctx context.Context, containerID string) ([]DnMeta, error)
}

type dnService struct {
	db   *gorm.DB
	opts options
}

func NewDnService(db *gorm.DB, opts ...Option) DnService {
	return &dnService{db: db, opts: newOptions(opts...)}
}

// Submit bekukan kondisi live kontainer menjadi versi DN berikutnya.
// Baris kontainer dikunci supaya nomor versi tidak dobel.
func (s *dnService) Submit(ctx context.Context, containerID string, caller Caller) (models.DnSnapshot, error) {
	var snap models.DnSnapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctr, err := lockContainer(tx, containerID)
		if err != nil {
			return err
		}
		lines, err := loadActiveLines(tx, ctr.ID)
		if err != nil {
			return err
		}
		batches, totals := buildBatches(lines)

		var last int
		if err := tx.Model(&models.DnSnapshot{}).
			Select("COALESCE(MAX(version), 0)").
			Where("container_id = ?", ctr.ID).
			Scan(&last).Error; err != nil {
			return err
		}
		next := last + 1

		payload := models.DnPayload{
			Container: models.DnContainerHeader{
				ID:         ctr.ID,
				EventName:  ctr.EventName,
				PIC:        ctr.PIC,
				Crew:       ctr.Crew,
				Location:   ctr.Location,
				StartDate:  ctr.StartDate,
				EndDate:    ctr.EndDate,
				OrderTitle: ctr.OrderTitle,
				Status:     ctr.Status,
				CreatedAt:  ctr.CreatedAt,
			},
			Batches: batches,
			Totals:  totals,
			Note:    fmt.Sprintf("Snapshot DN versi %d", next),
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal dn payload: %w", err)
		}

		snap = models.DnSnapshot{
			ContainerID: ctr.ID,
			Version:     next,
			Payload:     datatypes.JSON(raw),
			CreatedAt:   s.opts.now(),
			CreatedBy:   caller.idPtr(),
		}
		if err := tx.Create(&snap).Error; err != nil {
			if isUniqueViolation(err) {
				return errConflict("DN versi %d untuk %s sudah ada, coba lagi", next, ctr.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.DnSnapshot{}, err
	}

	slog.Info("dn submitted",
		slog.String("container_id", snap.ContainerID),
		slog.Int("version", snap.Version),
		slog.String("by", caller.Username),
	)
	return snap, nil
}

func (s *dnService) ensureContainer(db *gorm.DB, containerID string) error {
	var n int64
	if err := db.Model(&models.Container{}).Where("id = ?", containerID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errNotFound("Kontainer %s tidak ditemukan", containerID)
	}
	return nil
}

func (s *dnService) Latest(ctx context.Context, containerID string) (models.DnSnapshot, error) {
	db := s.db.WithContext(ctx)
	if err := s.ensureContainer(db, containerID); err != nil {
		return models.DnSnapshot{}, err
	}
	var snap models.DnSnapshot
	if err := db.Where("container_id = ?", containerID).
		Order("version DESC").
		First(&snap).Error; err != nil {
		return models.DnSnapshot{}, notFoundOr(err, "Belum ada DN untuk %s", containerID)
	}
	return snap, nil
}

func (s *dnService) ByVersion(ctx context.Context, containerID string, version int) (models.DnSnapshot, error) {
	if version < 1 {
		return models.DnSnapshot{}, errValidation("Versi DN harus >= 1")
	}
	var snap models.DnSnapshot
	if err := s.db.WithContext(ctx).
		Where("container_id = ? AND version = ?", containerID, version).
		First(&snap).Error; err != nil {
		return models.DnSnapshot{}, notFoundOr(err, "DN versi %d untuk %s tidak ditemukan", version, containerID)
	}
	return snap, nil
}

func (s *dnService) List(ctx context.Context, containerID string) ([]DnMeta, error) {
	db := s.db.WithContext(ctx)
	if err := s.ensureContainer(db, containerID); err != nil {
		return nil, err
	}
	rows := []DnMeta{}
	if err := db.Model(&models.DnSnapshot{}).
		Select("version, created_at, created_by").
		Where("container_id = ?", containerID).
		Order("version ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
