package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/gorm"
)

const defaultVoidReason = "mis-scan"

type AddItemsRequest struct {
	IDs            []string `json:"ids" validate:"required,min=1"`
	Amend          bool     `json:"amend"`
	AmendReason    string   `json:"amend_reason"`
	OverrideHeavy  bool     `json:"override_heavy"`
	OverrideReason string   `json:"override_reason"`
}

type AddedItem struct {
	IDCode    string               `json:"id_code"`
	Condition models.LineCondition `json:"condition"`
}

type AddedCounts struct {
	Good        int `json:"good"`
	RusakRingan int `json:"rusak_ringan"`
	RusakBerat  int `json:"rusak_berat"`
}

type AddItemsResult struct {
	Added      []AddedItem   `json:"added"`
	Skipped    []SkippedItem `json:"skipped"`
	Counts     AddedCounts   `json:"counts"`
	BatchLabel string        `json:"batch_label"`
}

type VoidItemRequest struct {
	IDCode string `json:"id_code" validate:"required"`
	Reason string `json:"reason"`
}

type CheckInRequest struct {
	IDCode    string `json:"id_code"   validate:"required"`
	Condition string `json:"condition" validate:"required"`
	Note      string `json:"note"`
}

type CheckInResult struct {
	IDCode     string               `json:"id_code"`
	Condition  models.LineCondition `json:"condition"`
	ReturnedAt *time.Time           `json:"returned_at"`
	Status     models.ItemStatus    `json:"item_status"`
	Defect     models.DefectLevel   `json:"item_defect_level"`
}

type LedgerService interface {
	AddItems(ctx context.Context, containerID string, req AddItemsRequest, caller Caller) (AddItemsResult, error)
	VoidItem(ctx context.Context, containerID string, req VoidItemRequest, caller Caller) error
	CheckIn(ctx context.Context, containerID string, req CheckInRequest, caller Caller) (CheckInResult, error)
}

type ledgerService struct {
	db   *gorm.DB
	opts options
}

func NewLedgerService(db *gorm.DB, opts ...Option) LedgerService {
	return &ledgerService{db: db, opts: newOptions(opts...)}
}

// checkoutCondition kondisi item saat keluar berdasarkan status registry.
// heavy=true artinya butuh konfirmasi override.
func checkoutCondition(it models.ItemUnit) (cond models.LineCondition, heavy bool) {
	if it.Status == models.ItemRusak || it.DefectLevel == models.DefectRingan || it.DefectLevel == models.DefectBerat {
		if it.DefectLevel == models.DefectBerat {
			return models.CondRusakBerat, true
		}
		return models.CondRusakRingan, false
	}
	return models.CondGood, false
}

// AddItems checkout (batch MAIN) atau amend (batch AMEND-yyyymmdd-hhmm).
// Item yang gagal aturan dilewati dengan alasan, sisanya masuk dalam 1 transaksi.
func (s *ledgerService) AddItems(ctx context.Context, containerID string, req AddItemsRequest, caller Caller) (AddItemsResult, error) {
	req.IDs = cleanIDs(req.IDs)
	if err := validateRequest(req); err != nil {
		return AddItemsResult{}, err
	}
	overrideReason := strings.TrimSpace(req.OverrideReason)
	amendReason := strings.TrimSpace(req.AmendReason)

	now := s.opts.now()
	res := AddItemsResult{
		Added:      []AddedItem{},
		Skipped:    []SkippedItem{},
		BatchLabel: models.BatchMain,
	}
	if req.Amend {
		res.BatchLabel = "AMEND-" + now.Format("20060102-1504")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctr, err := lockContainer(tx, containerID)
		if err != nil {
			return err
		}
		if ctr.Status == models.ContainerClosed {
			return errTransition("Kontainer %s sudah Closed", ctr.ID)
		}

		for _, code := range req.IDs {
			// 1) sudah aktif di kontainer ini (termasuk duplikat dalam request yang sama)
			var exists int64
			if err := tx.Model(&models.ContainerItem{}).
				Where("container_id = ? AND id_code = ? AND voided_at IS NULL", ctr.ID, code).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists > 0 {
				res.Skipped = append(res.Skipped, SkippedItem{IDCode: code, Reason: "Sudah ada di kontainer"})
				continue
			}

			// 2) item harus ada
			it, err := lockItem(tx, code)
			if err != nil {
				if IsKind(err, KindNotFound) {
					res.Skipped = append(res.Skipped, SkippedItem{IDCode: code, Reason: "Item tidak ditemukan"})
					continue
				}
				return err
			}

			// 3) status yang tidak bisa keluar
			switch it.Status {
			case models.ItemHilang, models.ItemAfkir:
				res.Skipped = append(res.Skipped, SkippedItem{IDCode: code, Reason: "Status " + string(it.Status) + " tidak bisa checkout"})
				continue
			case models.ItemKeluar:
				res.Skipped = append(res.Skipped, SkippedItem{IDCode: code, Reason: "Item sudah Keluar"})
				continue
			}

			// 4) kondisi checkout, rusak berat butuh konfirmasi + alasan
			cond, heavy := checkoutCondition(it)
			if heavy && (!req.OverrideHeavy || overrideReason == "") {
				res.Skipped = append(res.Skipped, SkippedItem{IDCode: code, Reason: "Rusak berat butuh konfirmasi & alasan"})
				continue
			}

			line := models.ContainerItem{
				ContainerID:         ctr.ID,
				IDCode:              it.IDCode,
				AddedAt:             now,
				BatchLabel:          res.BatchLabel,
				ConditionAtCheckout: cond,
				AddedBy:             caller.ID,
			}
			if cond == models.CondRusakBerat {
				line.OverrideReason = &overrideReason
				line.OverrideBy = caller.idPtr()
			}
			if req.Amend {
				line.AmendReason = strPtr(amendReason)
			}
			if err := tx.Create(&line).Error; err != nil {
				if isUniqueViolation(err) {
					return errConflict("Item %s sudah aktif di kontainer %s", it.IDCode, ctr.ID)
				}
				return err
			}
			if err := setItemStatus(tx, it.IDCode, models.ItemKeluar, it.DefectLevel, now); err != nil {
				return err
			}

			res.Added = append(res.Added, AddedItem{IDCode: it.IDCode, Condition: cond})
			switch cond {
			case models.CondGood:
				res.Counts.Good++
			case models.CondRusakRingan:
				res.Counts.RusakRingan++
			case models.CondRusakBerat:
				res.Counts.RusakBerat++
			}
		}
		return nil
	})
	if err != nil {
		return AddItemsResult{}, err
	}

	slog.Info("container checkout",
		slog.String("container_id", containerID),
		slog.String("batch", res.BatchLabel),
		slog.Int("added", len(res.Added)),
		slog.Int("skipped", len(res.Skipped)),
		slog.String("by", caller.Username),
	)
	return res, nil
}

// findActiveLine baris ledger non-void untuk item di kontainer, dikunci.
func findActiveLine(tx *gorm.DB, containerID, code string) (models.ContainerItem, error) {
	var line models.ContainerItem
	if err := tx.Clauses(clauseUpdateLock()).
		Where("container_id = ? AND id_code = ? AND voided_at IS NULL", containerID, code).
		First(&line).Error; err != nil {
		return models.ContainerItem{}, notFoundOr(err, "Item %s tidak aktif di kontainer %s", code, containerID)
	}
	return line, nil
}

// preCheckoutState status registry sebelum item dikeluarkan.
func preCheckoutState(c models.LineCondition) (models.ItemStatus, models.DefectLevel) {
	switch c {
	case models.CondRusakRingan:
		return models.ItemRusak, models.DefectRingan
	case models.CondRusakBerat:
		return models.ItemRusak, models.DefectBerat
	}
	return models.ItemGood, models.DefectNone
}

func (s *ledgerService) VoidItem(ctx context.Context, containerID string, req VoidItemRequest, caller Caller) error {
	req.IDCode = strings.TrimSpace(req.IDCode)
	if err := validateRequest(req); err != nil {
		return err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultVoidReason
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockContainer(tx, containerID); err != nil {
			return err
		}
		line, err := findActiveLine(tx, containerID, req.IDCode)
		if err != nil {
			return err
		}

		now := s.opts.now()
		if err := tx.Model(&models.ContainerItem{}).
			Where("id = ?", line.ID).
			Updates(map[string]any{
				"voided_at":   now,
				"void_reason": reason,
				"voided_by":   caller.idPtr(),
			}).Error; err != nil {
			return err
		}

		status, defect := preCheckoutState(line.ConditionAtCheckout)
		return setItemStatus(tx, line.IDCode, status, defect, now)
	})
	if err != nil {
		return err
	}

	slog.Info("container line voided",
		slog.String("container_id", containerID),
		slog.String("id_code", req.IDCode),
		slog.String("reason", reason),
		slog.String("by", caller.Username),
	)
	return nil
}

// CheckIn catat kondisi kembali. Bisa diulang untuk koreksi:
// non-admin hanya boleh memperberat kondisi, "hilang" selalu boleh.
func (s *ledgerService) CheckIn(ctx context.Context, containerID string, req CheckInRequest, caller Caller) (CheckInResult, error) {
	req.IDCode = strings.TrimSpace(req.IDCode)
	if err := validateRequest(req); err != nil {
		return CheckInResult{}, err
	}
	cond, ok := models.ParseLineCondition(req.Condition)
	if !ok {
		return CheckInResult{}, errValidation("Kondisi %q tidak dikenal", req.Condition)
	}
	note := strings.TrimSpace(req.Note)

	var out CheckInResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctr, err := lockContainer(tx, containerID)
		if err != nil {
			return err
		}
		line, err := findActiveLine(tx, containerID, req.IDCode)
		if err != nil {
			return err
		}
		// kontainer Closed tidak boleh punya baris Out lagi
		if ctr.Status == models.ContainerClosed && cond == models.CondHilang {
			return errTransition("Container %s sudah Closed, koreksi hilang tidak bisa", ctr.ID)
		}
		it, err := lockItem(tx, line.IDCode)
		if err != nil {
			return err
		}

		if !caller.IsAdmin() {
			if it.Status == models.ItemHilang {
				return errForbidden("Item %s berstatus Hilang, hanya admin yang bisa koreksi", it.IDCode)
			}
			if line.IsReturned() && line.ReturnCondition != nil && cond != models.CondHilang &&
				cond.Severity() < line.ReturnCondition.Severity() {
				return errTransition("Kondisi tidak boleh turun dari %s ke %s", *line.ReturnCondition, cond)
			}
		}

		// catatan wajib untuk kondisi selain good,
		// kecuali rusak yang sama persis dengan kondisi saat checkout
		sameDamage := cond.IsDamage() && cond == line.ConditionAtCheckout
		if cond != models.CondGood && note == "" && !sameDamage {
			return errValidation("Catatan wajib untuk kondisi %s", cond)
		}

		now := s.opts.now()
		var returnedAt *time.Time
		if cond != models.CondHilang {
			returnedAt = &now
		}
		if err := tx.Model(&models.ContainerItem{}).
			Where("id = ?", line.ID).
			Updates(map[string]any{
				"returned_at":      returnedAt,
				"return_condition": cond,
				"damage_note":      strPtr(note),
				"checked_in_by":    caller.idPtr(),
			}).Error; err != nil {
			return err
		}

		// item sudah checkout lagi di kontainer lain: cukup koreksi ledger,
		// status registry milik baris yang masih aktif
		var elsewhere int64
		if err := tx.Model(&models.ContainerItem{}).
			Where("id_code = ? AND container_id <> ? AND voided_at IS NULL AND returned_at IS NULL", it.IDCode, containerID).
			Count(&elsewhere).Error; err != nil {
			return err
		}
		status, defect := cond.RegistryState()
		if elsewhere > 0 {
			status, defect = it.Status, it.DefectLevel
		} else if err := setItemStatus(tx, it.IDCode, status, defect, now); err != nil {
			return err
		}

		out = CheckInResult{
			IDCode:     it.IDCode,
			Condition:  cond,
			ReturnedAt: returnedAt,
			Status:     status,
			Defect:     defect,
		}
		return nil
	})
	if err != nil {
		return CheckInResult{}, err
	}

	slog.Info("container checkin",
		slog.String("container_id", containerID),
		slog.String("id_code", out.IDCode),
		slog.String("condition", string(out.Condition)),
		slog.String("by", caller.Username),
	)
	return out, nil
}
