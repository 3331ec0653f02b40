package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/gorm"
)

type CreateContainerRequest struct {
	EventName  string `json:"event_name"  validate:"required"`
	PIC        string `json:"pic"         validate:"required"`
	Crew       string `json:"crew"`
	Location   string `json:"location"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	OrderTitle string `json:"order_title"`
}

type ContainerFilter struct {
	Query  string // cari di id/event_name/pic/location
	Status string
}

type DnMeta struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy *uint     `json:"created_by"`
}

// ContainerDetail tampilan live (bukan snapshot) dari sebuah kontainer.
type ContainerDetail struct {
	Container models.Container              `json:"container"`
	Batches   map[string][]models.DnLineRow `json:"batches"`
	Totals    models.DnTotals               `json:"totals"`
	LatestDN  *DnMeta                       `json:"latest_dn"`
}

type OutstandingRow struct {
	ContainerID         string                `json:"container_id"`
	EventName           string                `json:"event_name"`
	PIC                 string                `json:"pic"`
	ContainerStatus     string                `json:"container_status"`
	IDCode              string                `json:"id_code"`
	Name                string                `json:"name"`
	Model               string                `json:"model"`
	Rack                string                `json:"rack"`
	AddedAt             time.Time             `json:"added_at"`
	BatchLabel          string                `json:"batch_label"`
	ConditionAtCheckout models.LineCondition  `json:"condition_at_checkout"`
	ReturnCondition     *models.LineCondition `json:"return_condition"`
}

type ContainerMetrics struct {
	Open             int64 `json:"open"`
	Running          int64 `json:"running"`
	Closed           int64 `json:"closed"`
	OutstandingLines int64 `json:"outstanding_lines"`
	LostLines        int64 `json:"lost_lines"`
}

type ContainerService interface {
	Create(ctx context.Context, req CreateContainerRequest, caller Caller) (models.Container, error)
	Get(ctx context.Context, id string) (models.Container, error)
	List(ctx context.Context, f ContainerFilter) ([]models.Container, error)
	Detail(ctx context.Context, id string) (ContainerDetail, error)
	SetStatus(ctx context.Context, id string, status string, caller Caller) (models.Container, error)
	OutstandingItems(ctx context.Context) ([]OutstandingRow, error)
	Metrics(ctx context.Context) (ContainerMetrics, error)
}

type containerService struct {
	db   *gorm.DB
	opts options
}

func NewContainerService(db *gorm.DB, opts ...Option) ContainerService {
	return &containerService{db: db, opts: newOptions(opts...)}
}

func (s *containerService) Create(ctx context.Context, req CreateContainerRequest, caller Caller) (models.Container, error) {
	req.EventName = strings.TrimSpace(req.EventName)
	req.PIC = strings.TrimSpace(req.PIC)
	if err := validateRequest(req); err != nil {
		return models.Container{}, err
	}

	now := s.opts.now()
	ctr := models.Container{
		EventName:  req.EventName,
		PIC:        req.PIC,
		Crew:       strings.TrimSpace(req.Crew),
		Location:   strings.TrimSpace(req.Location),
		StartDate:  strings.TrimSpace(req.StartDate),
		EndDate:    strings.TrimSpace(req.EndDate),
		OrderTitle: strings.TrimSpace(req.OrderTitle),
		Status:     models.ContainerOpen,
		CreatedBy:  caller.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// retry kalau kode acak bentrok (unique violation)
	var err error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		ctr.ID = s.opts.code(prefixContainer, now)
		err = s.db.WithContext(ctx).Create(&ctr).Error
		if err == nil {
			slog.Info("container created",
				slog.String("container_id", ctr.ID),
				slog.String("event", ctr.EventName),
				slog.String("by", caller.Username),
			)
			return ctr, nil
		}
		if !isUniqueViolation(err) {
			return models.Container{}, err
		}
	}
	return models.Container{}, errConflict("Gagal membuat kode kontainer unik")
}

func (s *containerService) Get(ctx context.Context, id string) (models.Container, error) {
	var ctr models.Container
	if err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&ctr).Error; err != nil {
		return models.Container{}, notFoundOr(err, "Kontainer %s tidak ditemukan", id)
	}
	return ctr, nil
}

func (s *containerService) List(ctx context.Context, f ContainerFilter) ([]models.Container, error) {
	q := s.db.WithContext(ctx).Model(&models.Container{})
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		q = q.Where("UPPER(id) LIKE ? OR UPPER(event_name) LIKE ? OR UPPER(pic) LIKE ? OR UPPER(location) LIKE ?",
			like, like, like, like)
	}
	if strings.TrimSpace(f.Status) != "" {
		st, ok := models.ParseContainerStatus(f.Status)
		if !ok {
			return nil, errValidation("Status %q tidak dikenal", f.Status)
		}
		q = q.Where("status = ?", st)
	}

	var rows []models.Container
	if err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ledgerLine baris ledger + info item (LEFT JOIN: item bisa saja sudah dihapus admin).
type ledgerLine struct {
	ID                  uint
	IDCode              string
	Name                string
	Model               string
	Rack                string
	AddedAt             time.Time
	BatchLabel          string
	ConditionAtCheckout models.LineCondition
	OverrideReason      *string
	AmendReason         *string
	ReturnedAt          *time.Time
	ReturnCondition     *models.LineCondition
	DamageNote          *string
}

func loadActiveLines(tx *gorm.DB, containerID string) ([]ledgerLine, error) {
	var rows []ledgerLine
	err := tx.Table("container_items AS ci").
		Select(`
			ci.id,
			ci.id_code,
			COALESCE(iu.name, '')  AS name,
			COALESCE(iu.model, '') AS model,
			COALESCE(iu.rack, '')  AS rack,
			ci.added_at,
			ci.batch_label,
			ci.condition_at_checkout,
			ci.override_reason,
			ci.amend_reason,
			ci.returned_at,
			ci.return_condition,
			ci.damage_note
		`).
		Joins("LEFT JOIN item_units iu ON iu.id_code = ci.id_code").
		Where("ci.container_id = ? AND ci.voided_at IS NULL", containerID).
		Order("ci.added_at ASC, ci.id ASC").
		Scan(&rows).Error
	return rows, err
}

// buildBatches kelompokkan baris per batch + hitung rekap.
// Setiap baris dihitung sekali di kondisi efektifnya (return_condition, kalau belum ada pakai kondisi checkout).
func buildBatches(lines []ledgerLine) (map[string][]models.DnLineRow, models.DnTotals) {
	batches := map[string][]models.DnLineRow{}
	var totals models.DnTotals

	for _, l := range lines {
		row := models.DnLineRow{
			IDCode:          l.IDCode,
			Name:            l.Name,
			Model:           l.Model,
			Rack:            l.Rack,
			AddedAt:         l.AddedAt,
			Condition:       l.ConditionAtCheckout,
			ReturnedAt:      l.ReturnedAt,
			ReturnCondition: l.ReturnCondition,
			DamageNote:      l.DamageNote,
		}
		if row.Condition == "" {
			row.Condition = models.CondGood
		}
		if l.OverrideReason != nil {
			row.Reason = *l.OverrideReason
		}
		if l.AmendReason != nil {
			row.AmendReason = *l.AmendReason
		}
		batches[l.BatchLabel] = append(batches[l.BatchLabel], row)

		if l.ReturnedAt != nil {
			totals.Returned++
		} else {
			totals.Out++
		}
		cond := row.Condition
		if l.ReturnCondition != nil {
			cond = *l.ReturnCondition
		}
		switch cond {
		case models.CondGood:
			totals.Good++
		case models.CondRusakRingan:
			totals.RusakRingan++
		case models.CondRusakBerat:
			totals.RusakBerat++
		case models.CondHilang:
			totals.Hilang++
		}
		totals.All++
	}
	return batches, totals
}

func (s *containerService) Detail(ctx context.Context, id string) (ContainerDetail, error) {
	var out ContainerDetail
	db := s.db.WithContext(ctx)

	if err := db.Where("id = ?", id).First(&out.Container).Error; err != nil {
		return ContainerDetail{}, notFoundOr(err, "Kontainer %s tidak ditemukan", id)
	}
	lines, err := loadActiveLines(db, id)
	if err != nil {
		return ContainerDetail{}, err
	}
	out.Batches, out.Totals = buildBatches(lines)

	var snaps []DnMeta
	if err := db.Model(&models.DnSnapshot{}).
		Select("version, created_at, created_by").
		Where("container_id = ?", id).
		Order("version DESC").
		Limit(1).
		Scan(&snaps).Error; err != nil {
		return ContainerDetail{}, err
	}
	if len(snaps) > 0 {
		out.LatestDN = &snaps[0]
	}
	return out, nil
}

func countOutstanding(tx *gorm.DB, containerID string) (int64, error) {
	var n int64
	err := tx.Model(&models.ContainerItem{}).
		Where("container_id = ? AND voided_at IS NULL AND returned_at IS NULL", containerID).
		Count(&n).Error
	return n, err
}

// SetStatus Open -> Sedang Berjalan -> Closed, tidak boleh mundur.
// Closed final. Status sama (selain Closed) dianggap no-op.
func (s *containerService) SetStatus(ctx context.Context, id string, status string, caller Caller) (models.Container, error) {
	target, ok := models.ParseContainerStatus(status)
	if !ok {
		return models.Container{}, errValidation("Status %q tidak dikenal", status)
	}

	var out models.Container
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctr, err := lockContainer(tx, id)
		if err != nil {
			return err
		}
		if ctr.Status == models.ContainerClosed {
			return errTransition("Kontainer %s sudah Closed", ctr.ID)
		}
		if target == ctr.Status {
			out = ctr
			return nil
		}
		if target.Before(ctr.Status) {
			return errTransition("Status tidak boleh mundur dari %s ke %s", ctr.Status, target)
		}

		switch target {
		case models.ContainerRunning:
			var snaps int64
			if err := tx.Model(&models.DnSnapshot{}).Where("container_id = ?", ctr.ID).Count(&snaps).Error; err != nil {
				return err
			}
			if snaps == 0 {
				return errTransition("Belum ada DN, submit DN dulu sebelum berjalan")
			}
		case models.ContainerClosed:
			left, err := countOutstanding(tx, ctr.ID)
			if err != nil {
				return err
			}
			if left > 0 {
				return errBusiness("Masih ada %d barang Out", left)
			}
		}

		if err := tx.Model(&models.Container{}).
			Where("id = ?", ctr.ID).
			Updates(map[string]any{"status": target, "updated_at": s.opts.now()}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", ctr.ID).First(&out).Error; err != nil {
			return err
		}

		slog.Info("container status changed",
			slog.String("container_id", ctr.ID),
			slog.String("from", string(ctr.Status)),
			slog.String("to", string(target)),
			slog.String("by", caller.Username),
		)
		return nil
	})
	return out, err
}

func (s *containerService) OutstandingItems(ctx context.Context) ([]OutstandingRow, error) {
	var rows []OutstandingRow
	err := s.db.WithContext(ctx).
		Table("container_items AS ci").
		Select(`
			ci.container_id,
			c.event_name,
			c.pic,
			c.status AS container_status,
			ci.id_code,
			COALESCE(iu.name, '')  AS name,
			COALESCE(iu.model, '') AS model,
			COALESCE(iu.rack, '')  AS rack,
			ci.added_at,
			ci.batch_label,
			ci.condition_at_checkout,
			ci.return_condition
		`).
		Joins("JOIN containers c ON c.id = ci.container_id").
		Joins("LEFT JOIN item_units iu ON iu.id_code = ci.id_code").
		Where("ci.voided_at IS NULL AND ci.returned_at IS NULL").
		Order("ci.added_at ASC, ci.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *containerService) Metrics(ctx context.Context) (ContainerMetrics, error) {
	var m ContainerMetrics
	db := s.db.WithContext(ctx)

	type statusCount struct {
		Status models.ContainerStatus
		N      int64
	}
	var counts []statusCount
	if err := db.Model(&models.Container{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&counts).Error; err != nil {
		return m, err
	}
	for _, c := range counts {
		switch c.Status {
		case models.ContainerOpen:
			m.Open = c.N
		case models.ContainerRunning:
			m.Running = c.N
		case models.ContainerClosed:
			m.Closed = c.N
		}
	}

	if err := db.Model(&models.ContainerItem{}).
		Where("voided_at IS NULL AND returned_at IS NULL").
		Count(&m.OutstandingLines).Error; err != nil {
		return m, err
	}
	if err := db.Model(&models.ContainerItem{}).
		Where("voided_at IS NULL AND return_condition = ?", models.CondHilang).
		Count(&m.LostLines).Error; err != nil {
		return m, err
	}
	return m, nil
}
