package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/gorm"
)

type BatchCreateRequest struct {
	Prefix      string `json:"prefix"   validate:"required"`
	Name        string `json:"name"     validate:"required"`
	Category    string `json:"category" validate:"required"`
	Model       string `json:"model"    validate:"required"`
	Rack        string `json:"rack"     validate:"required"`
	Qty         int    `json:"qty"      validate:"min=1,max=500"`
	IsUniversal bool   `json:"is_universal"`
}

// ItemUpdateRequest field nil = tidak diubah. Status tidak bisa diubah dari sini.
type ItemUpdateRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Model       *string `json:"model"`
	Rack        *string `json:"rack"`
	Serial      *string `json:"serial"`
	IsUniversal *bool   `json:"is_universal"`
}

type BulkConditionRequest struct {
	IDs         []string `json:"ids"    validate:"required,min=1"`
	Status      string   `json:"status" validate:"required"`
	DefectLevel string   `json:"defect_level"`
	Note        string   `json:"note"`
}

type MarkLostRequest struct {
	IDs  []string `json:"ids" validate:"required,min=1"`
	Note string   `json:"note"`
}

type RepairRequest struct {
	IDCode string `json:"id_code" validate:"required"`
	Note   string `json:"note"    validate:"required"`
	Target string `json:"target"` // good (default) | rusak_ringan
}

type SkippedItem struct {
	IDCode string `json:"id_code"`
	Reason string `json:"reason"`
}

type BulkResult struct {
	Updated []string      `json:"updated"`
	Skipped []SkippedItem `json:"skipped"`
}

// LostContext baris ledger terakhir (non-void) sebuah item beserta kontainernya.
type LostContext struct {
	IDCode              string                `json:"id_code"`
	ContainerID         string                `json:"container_id"`
	EventName           string                `json:"event_name"`
	PIC                 string                `json:"pic"`
	ContainerStatus     string                `json:"container_status"`
	AddedAt             time.Time             `json:"added_at"`
	ConditionAtCheckout models.LineCondition  `json:"condition_at_checkout"`
	ReturnedAt          *time.Time            `json:"returned_at"`
	ReturnCondition     *models.LineCondition `json:"return_condition"`
	DamageNote          *string               `json:"damage_note"`
}

type ItemService interface {
	Get(ctx context.Context, code string) (models.ItemUnit, error)
	SetStatus(ctx context.Context, code string, status models.ItemStatus, defect models.DefectLevel) error
	BatchCreate(ctx context.Context, req BatchCreateRequest) ([]string, error)
	Update(ctx context.Context, code string, req ItemUpdateRequest) (models.ItemUnit, error)
	Delete(ctx context.Context, code string, force bool, caller Caller) error

	BulkUpdateCondition(ctx context.Context, req BulkConditionRequest, caller Caller) (BulkResult, error)
	MarkLost(ctx context.Context, req MarkLostRequest, caller Caller) (BulkResult, error)
	Repair(ctx context.Context, req RepairRequest, caller Caller) (models.ItemUnit, error)
	LostContext(ctx context.Context, code string) (LostContext, error)

	// laporan, lihat service.go
	List(ctx context.Context, f ItemFilter) ([]models.ItemUnit, int64, error)
	MaintenanceList(ctx context.Context, q string) ([]models.ItemUnit, error)
	SummaryByCategory(ctx context.Context) ([]CategorySummary, error)
	RepairHistory(ctx context.Context, code string, limit int) ([]models.RepairHistory, error)
}

type itemService struct {
	db   *gorm.DB
	opts options
}

func NewItemService(db *gorm.DB, opts ...Option) ItemService {
	return &itemService{db: db, opts: newOptions(opts...)}
}

func (s *itemService) Get(ctx context.Context, code string) (models.ItemUnit, error) {
	var it models.ItemUnit
	if err := s.db.WithContext(ctx).Where("id_code = ?", strings.TrimSpace(code)).First(&it).Error; err != nil {
		return models.ItemUnit{}, notFoundOr(err, "Item %s tidak ditemukan", code)
	}
	return it, nil
}

func (s *itemService) SetStatus(ctx context.Context, code string, status models.ItemStatus, defect models.DefectLevel) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setItemStatus(tx, code, status, defect, s.opts.now())
	})
}

var (
	reSpaces   = regexp.MustCompile(`\s+`)
	reCodeJunk = regexp.MustCompile(`[^A-Z0-9\-]`)
)

func sanitizeCode(text string) string {
	t := strings.ToUpper(strings.TrimSpace(text))
	t = reSpaces.ReplaceAllString(t, "-")
	return reCodeJunk.ReplaceAllString(t, "")
}

// nextNumberFor nomor urut berikutnya untuk PREFIX-MODEL-.
func nextNumberFor(tx *gorm.DB, base string) (int, error) {
	var codes []string
	if err := tx.Model(&models.ItemUnit{}).
		Where("id_code LIKE ?", base+"%").
		Pluck("id_code", &codes).Error; err != nil {
		return 0, err
	}
	maxN := 0
	for _, code := range codes {
		i := strings.LastIndex(code, "-")
		if i < 0 {
			continue
		}
		if n, err := strconv.Atoi(code[i+1:]); err == nil && n > maxN {
			maxN = n
		}
	}
	return maxN + 1, nil
}

func (s *itemService) BatchCreate(ctx context.Context, req BatchCreateRequest) ([]string, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	prefix, model := sanitizeCode(req.Prefix), sanitizeCode(req.Model)
	if prefix == "" || model == "" {
		return nil, errValidation("prefix/model tidak valid setelah dibersihkan")
	}
	base := prefix + "-" + model + "-"

	var codes []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		start, err := nextNumberFor(tx, base)
		if err != nil {
			return err
		}
		now := s.opts.now()
		for i := 0; i < req.Qty; i++ {
			it := models.ItemUnit{
				IDCode:      fmt.Sprintf("%s%03d", base, start+i),
				Name:        strings.TrimSpace(req.Name),
				Category:    strings.TrimSpace(req.Category),
				Model:       model,
				Rack:        strings.TrimSpace(req.Rack),
				Status:      models.ItemGood,
				DefectLevel: models.DefectNone,
				IsUniversal: req.IsUniversal,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(&it).Error; err != nil {
				if isUniqueViolation(err) {
					return errConflict("Duplikat ID %s, batalkan.", it.IDCode)
				}
				return err
			}
			codes = append(codes, it.IDCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Info("items created", slog.String("base", base), slog.Int("qty", len(codes)))
	return codes, nil
}

func (s *itemService) Update(ctx context.Context, code string, req ItemUpdateRequest) (models.ItemUnit, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Model != nil {
		updates["model"] = sanitizeCode(*req.Model)
	}
	if req.Rack != nil {
		updates["rack"] = strings.TrimSpace(*req.Rack)
	}
	if req.Serial != nil {
		updates["serial"] = strPtr(*req.Serial)
	}
	if req.IsUniversal != nil {
		updates["is_universal"] = *req.IsUniversal
	}
	if len(updates) == 0 {
		return models.ItemUnit{}, errValidation("Tidak ada perubahan")
	}
	updates["updated_at"] = s.opts.now()

	var out models.ItemUnit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockItem(tx, code); err != nil {
			return err
		}
		if err := tx.Model(&models.ItemUnit{}).Where("id_code = ?", code).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id_code = ?", code).First(&out).Error
	})
	return out, err
}

// Delete menolak item yang masih Keluar / tercatat di kontainer yang belum Closed,
// kecuali admin memakai force.
func (s *itemService) Delete(ctx context.Context, code string, force bool, caller Caller) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := lockItem(tx, code)
		if err != nil {
			return err
		}

		var active int64
		if err := tx.Table("container_items AS ci").
			Joins("JOIN containers c ON c.id = ci.container_id").
			Where("ci.id_code = ? AND ci.voided_at IS NULL AND c.status <> ?", code, models.ContainerClosed).
			Count(&active).Error; err != nil {
			return err
		}

		if it.Status == models.ItemKeluar || active > 0 {
			if !force {
				return errConflict("Item %s masih dipakai di kontainer aktif", code)
			}
			if !caller.IsAdmin() {
				return errForbidden("Hanya admin yang bisa hapus paksa item")
			}
			slog.Warn("item force deleted",
				slog.String("id_code", code),
				slog.Int64("active_lines", active),
				slog.String("by", caller.Username),
			)
		}

		return tx.Where("id_code = ?", code).Delete(&models.ItemUnit{}).Error
	})
}

func (s *itemService) BulkUpdateCondition(ctx context.Context, req BulkConditionRequest, caller Caller) (BulkResult, error) {
	req.IDs = cleanIDs(req.IDs)
	if err := validateRequest(req); err != nil {
		return BulkResult{}, err
	}
	status, ok := models.ParseItemStatus(req.Status)
	if !ok {
		return BulkResult{}, errValidation("Status %q tidak dikenal", req.Status)
	}
	if status == models.ItemKeluar {
		return BulkResult{}, errValidation("Status Keluar hanya lewat checkout kontainer")
	}

	defect := models.DefectNone
	if status == models.ItemRusak {
		d, ok := models.ParseDefectLevel(req.DefectLevel)
		if !ok || d == models.DefectNone {
			return BulkResult{}, errValidation("Status Rusak wajib defect_level ringan/berat")
		}
		defect = d
	}

	return s.applyCondition(ctx, req.IDs, status, defect, "bulk_condition", req.Note, caller)
}

func (s *itemService) MarkLost(ctx context.Context, req MarkLostRequest, caller Caller) (BulkResult, error) {
	req.IDs = cleanIDs(req.IDs)
	if err := validateRequest(req); err != nil {
		return BulkResult{}, err
	}
	return s.applyCondition(ctx, req.IDs, models.ItemHilang, models.DefectNone, "mark_lost", req.Note, caller)
}

// applyCondition set kondisi banyak item di luar kontainer. Item yang sedang Keluar dilewati.
func (s *itemService) applyCondition(
	ctx context.Context,
	ids []string,
	status models.ItemStatus,
	defect models.DefectLevel,
	action string,
	note string,
	caller Caller,
) (BulkResult, error) {
	res := BulkResult{Updated: []string{}, Skipped: []SkippedItem{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.opts.now()
		for _, code := range ids {
			it, err := lockItem(tx, code)
			if err != nil {
				if IsKind(err, KindNotFound) {
					res.Skipped = append(res.Skipped, SkippedItem{IDCode: code, Reason: "Item tidak ditemukan"})
					continue
				}
				return err
			}
			if it.Status == models.ItemKeluar {
				res.Skipped = append(res.Skipped, SkippedItem{IDCode: code, Reason: "Item sedang Keluar, gunakan check-in"})
				continue
			}
			if err := setItemStatus(tx, code, status, defect, now); err != nil {
				return err
			}
			h := models.RepairHistory{
				IDCode:      code,
				Action:      action,
				OldStatus:   it.Status,
				OldDefect:   it.DefectLevel,
				NewStatus:   status,
				NewDefect:   defect,
				Note:        strings.TrimSpace(note),
				CreatedByID: caller.ID,
				CreatedAt:   now,
			}
			if err := tx.Create(&h).Error; err != nil {
				return err
			}
			res.Updated = append(res.Updated, code)
		}
		return nil
	})
	if err != nil {
		return BulkResult{}, err
	}
	return res, nil
}

func (s *itemService) Repair(ctx context.Context, req RepairRequest, caller Caller) (models.ItemUnit, error) {
	req.IDCode = strings.TrimSpace(req.IDCode)
	req.Note = strings.TrimSpace(req.Note)
	if err := validateRequest(req); err != nil {
		return models.ItemUnit{}, err
	}

	target := models.CondGood
	if strings.TrimSpace(req.Target) != "" {
		c, ok := models.ParseLineCondition(req.Target)
		if !ok || (c != models.CondGood && c != models.CondRusakRingan) {
			return models.ItemUnit{}, errValidation("Target perbaikan hanya good atau rusak_ringan")
		}
		target = c
	}

	var out models.ItemUnit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		it, err := lockItem(tx, req.IDCode)
		if err != nil {
			return err
		}
		if it.Status != models.ItemRusak {
			return errTransition("Item %s tidak dalam status Rusak", it.IDCode)
		}
		if target == models.CondRusakRingan && it.DefectLevel != models.DefectBerat {
			return errTransition("Turun ke rusak_ringan hanya dari rusak berat")
		}

		now := s.opts.now()
		status, defect := target.RegistryState()
		if err := setItemStatus(tx, it.IDCode, status, defect, now); err != nil {
			return err
		}
		h := models.RepairHistory{
			IDCode:      it.IDCode,
			Action:      "repair",
			OldStatus:   it.Status,
			OldDefect:   it.DefectLevel,
			NewStatus:   status,
			NewDefect:   defect,
			Note:        req.Note,
			CreatedByID: caller.ID,
			CreatedAt:   now,
		}
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
		return tx.Where("id_code = ?", it.IDCode).First(&out).Error
	})
	return out, err
}

func (s *itemService) LostContext(ctx context.Context, code string) (LostContext, error) {
	var row LostContext
	err := s.db.WithContext(ctx).
		Table("container_items AS ci").
		Select(`
			ci.id_code,
			ci.container_id,
			c.event_name,
			c.pic,
			c.status AS container_status,
			ci.added_at,
			ci.condition_at_checkout,
			ci.returned_at,
			ci.return_condition,
			ci.damage_note
		`).
		Joins("JOIN containers c ON c.id = ci.container_id").
		Where("ci.id_code = ? AND ci.voided_at IS NULL", strings.TrimSpace(code)).
		Order("ci.added_at DESC, ci.id DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return LostContext{}, err
	}
	if row.ContainerID == "" {
		return LostContext{}, errNotFound("Item %s belum pernah masuk kontainer", code)
	}
	return row, nil
}
