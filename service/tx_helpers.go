package service

import (
	"strings"
	"time"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SELECT ... FOR UPDATE. Dialect sqlite mengabaikan clause ini.
func clauseUpdateLock() clause.Locking {
	return clause.Locking{Strength: "UPDATE"}
}

// lockItem baca item + kunci baris sampai transaksi selesai.
func lockItem(tx *gorm.DB, code string) (models.ItemUnit, error) {
	var it models.ItemUnit
	if err := tx.Clauses(clauseUpdateLock()).
		Where("id_code = ?", code).
		First(&it).Error; err != nil {
		return models.ItemUnit{}, notFoundOr(err, "Item %s tidak ditemukan", code)
	}
	return it, nil
}

func lockContainer(tx *gorm.DB, id string) (models.Container, error) {
	var ctr models.Container
	if err := tx.Clauses(clauseUpdateLock()).
		Where("id = ?", id).
		First(&ctr).Error; err != nil {
		return models.Container{}, notFoundOr(err, "Container %s tidak ditemukan", id)
	}
	return ctr, nil
}

// setItemStatus tulis status + defect tanpa syarat. Pemanggil yang menjaga aturan.
func setItemStatus(tx *gorm.DB, code string, status models.ItemStatus, defect models.DefectLevel, now time.Time) error {
	res := tx.Model(&models.ItemUnit{}).
		Where("id_code = ?", code).
		Updates(map[string]any{
			"status":       status,
			"defect_level": defect,
			"updated_at":   now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound("Item %s tidak ditemukan", code)
	}
	return nil
}

// cleanIDs trim + buang kosong, urutan dipertahankan.
func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func normalizePage(page, pageSize, def, max int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > max {
		pageSize = def
	}
	return page, pageSize
}

func likePattern(q string) string {
	return "%" + strings.ToUpper(strings.TrimSpace(q)) + "%"
}
