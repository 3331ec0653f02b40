package service

import (
	"context"
	"strings"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/gorm"
)

// Services kumpulan semua service domain, dibuat sekali di main / routes.
type Services struct {
	Items      ItemService
	Containers ContainerService
	Ledger     LedgerService
	DN         DnService
	Emoney     EmoneyService
}

func New(db *gorm.DB, opts ...Option) *Services {
	return &Services{
		Items:      NewItemService(db, opts...),
		Containers: NewContainerService(db, opts...),
		Ledger:     NewLedgerService(db, opts...),
		DN:         NewDnService(db, opts...),
		Emoney:     NewEmoneyService(db, opts...),
	}
}

// ===== DTO laporan item =====

type ItemFilter struct {
	Query    string // cari di id_code/name/model
	Status   string
	Category string
	Page     int    // 1-based
	PageSize int    // default 100
	SortBy   string // "name","-name","id_code","-id_code","created_at","-created_at"
}

type CategorySummary struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
	Good     int64  `json:"good"`
	Keluar   int64  `json:"keluar"`
	Rusak    int64  `json:"rusak"`
	Hilang   int64  `json:"hilang"`
	Afkir    int64  `json:"afkir"`
}

// ===== Implementations =====

// 1) Semua item
func (s *itemService) List(ctx context.Context, f ItemFilter) ([]models.ItemUnit, int64, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize, 100, 1000)

	q := s.db.WithContext(ctx).Model(&models.ItemUnit{})

	// Filters
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		q = q.Where("UPPER(id_code) LIKE ? OR UPPER(name) LIKE ? OR UPPER(model) LIKE ?", like, like, like)
	}
	if strings.TrimSpace(f.Status) != "" {
		st, ok := models.ParseItemStatus(f.Status)
		if !ok {
			return nil, 0, errValidation("Status %q tidak dikenal", f.Status)
		}
		q = q.Where("status = ?", st)
	}
	if strings.TrimSpace(f.Category) != "" {
		q = q.Where("UPPER(category) = ?", strings.ToUpper(strings.TrimSpace(f.Category)))
	}

	// Count
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	switch f.SortBy {
	case "name":
		q = q.Order("name ASC")
	case "-name":
		q = q.Order("name DESC")
	case "id_code":
		q = q.Order("id_code ASC")
	case "-id_code":
		q = q.Order("id_code DESC")
	case "created_at":
		q = q.Order("created_at ASC")
	default:
		q = q.Order("created_at DESC").Order("id_code ASC")
	}

	// Pagination
	offset := (f.Page - 1) * f.PageSize
	var rows []models.ItemUnit
	if err := q.Offset(offset).Limit(f.PageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// 2) Item yang perlu perbaikan (status Rusak)
func (s *itemService) MaintenanceList(ctx context.Context, query string) ([]models.ItemUnit, error) {
	q := s.db.WithContext(ctx).
		Model(&models.ItemUnit{}).
		Where("status = ?", models.ItemRusak)
	if strings.TrimSpace(query) != "" {
		like := likePattern(query)
		q = q.Where("UPPER(id_code) LIKE ? OR UPPER(name) LIKE ? OR UPPER(model) LIKE ?", like, like, like)
	}

	var rows []models.ItemUnit
	if err := q.Order("defect_level DESC").Order("id_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// 3) Rekap jumlah item per kategori x status
func (s *itemService) SummaryByCategory(ctx context.Context) ([]CategorySummary, error) {
	var rows []CategorySummary
	err := s.db.WithContext(ctx).
		Model(&models.ItemUnit{}).
		Select(`
			category,
			COUNT(*) AS total,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS good,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS keluar,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS rusak,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS hilang,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS afkir
		`, models.ItemGood, models.ItemKeluar, models.ItemRusak, models.ItemHilang, models.ItemAfkir).
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// 4) Riwayat perbaikan / perubahan kondisi. code kosong = semua item.
func (s *itemService) RepairHistory(ctx context.Context, code string, limit int) ([]models.RepairHistory, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	q := s.db.WithContext(ctx).Model(&models.RepairHistory{})
	if strings.TrimSpace(code) != "" {
		q = q.Where("id_code = ?", strings.TrimSpace(code))
	}

	var rows []models.RepairHistory
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
