package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PvtMilo/WMS-demo/models"

	"gorm.io/gorm"
)

type CreateEmoneyRequest struct {
	Label string `json:"label" validate:"required,max=120"`
}

type AddEmoneyTxRequest struct {
	Type        string `json:"type"         validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"gt=0"`
	Note        string `json:"note"`
	ContainerID string `json:"ref_container_id"`
}

type EmoneyTotals struct {
	Topup   int64 `json:"tot_topup"`
	Expense int64 `json:"tot_expense"`
	Balance int64 `json:"balance"`
}

type EmoneySummary struct {
	models.EmoneyAccount
	EmoneyTotals
	LinkedClosed bool `json:"linked_closed"`
	FullyClosed  bool `json:"fully_closed"`
}

type EmoneyTxRow struct {
	ID             uint                `json:"id"`
	EmoneyID       string              `json:"emoney_id"`
	EmoneyLabel    string              `json:"emoney_label"`
	Type           models.EmoneyTxType `json:"type"`
	AmountCents    int64               `json:"amount_cents"`
	Note           *string             `json:"note"`
	RefContainerID *string             `json:"ref_container_id"`
	EventName      *string             `json:"event_name"`
	PIC            *string             `json:"pic"`
	CreatedBy      uint                `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
}

type EmoneyDetail struct {
	Emoney models.EmoneyAccount `json:"emoney"`
	Tx     []EmoneyTxRow        `json:"tx"`
	EmoneyTotals
	LinkedContainers []string `json:"linked_containers"`
	LinkedClosed     bool     `json:"linked_closed"`
	FullyClosed      bool     `json:"fully_closed"`
}

type ContainerTxReport struct {
	Data       []EmoneyTxRow `json:"data"`
	SumTopup   int64         `json:"sum_topup"`
	SumExpense int64         `json:"sum_expense"`
}

type EmoneyFilter struct {
	Query   string
	Page    int
	PerPage int
}

type EmoneyService interface {
	Create(ctx context.Context, req CreateEmoneyRequest, caller Caller) (models.EmoneyAccount, error)
	List(ctx context.Context, f EmoneyFilter) ([]EmoneySummary, int64, error)
	Detail(ctx context.Context, id string) (EmoneyDetail, error)
	Balance(ctx context.Context, id string) (EmoneyTotals, error)
	AddTransaction(ctx context.Context, id string, req AddEmoneyTxRequest, caller Caller) (models.EmoneyTransaction, error)
	SetStatus(ctx context.Context, id string, status string, caller Caller) (models.EmoneyAccount, error)
	TransactionsByContainer(ctx context.Context, containerID string) (ContainerTxReport, error)
	TransactionsInRange(ctx context.Context, start, end time.Time, query string) ([]EmoneyTxRow, error)
	Delete(ctx context.Context, id string, caller Caller) error
}

type emoneyService struct {
	db   *gorm.DB
	opts options
}

func NewEmoneyService(db *gorm.DB, opts ...Option) EmoneyService {
	return &emoneyService{db: db, opts: newOptions(opts...)}
}

func (s *emoneyService) Create(ctx context.Context, req CreateEmoneyRequest, caller Caller) (models.EmoneyAccount, error) {
	req.Label = strings.TrimSpace(req.Label)
	if err := validateRequest(req); err != nil {
		return models.EmoneyAccount{}, err
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(&models.EmoneyAccount{}).
		Where("label = ?", req.Label).
		Count(&taken).Error; err != nil {
		return models.EmoneyAccount{}, err
	}
	if taken > 0 {
		return models.EmoneyAccount{}, errConflict("Label %q sudah dipakai", req.Label)
	}

	now := s.opts.now()
	acc := models.EmoneyAccount{
		Label:     req.Label,
		Status:    models.EmoneyOpen,
		CreatedBy: caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for attempt := 0; attempt < codeAttempts; attempt++ {
		acc.ID = s.opts.code(prefixEmoney, now)
		err := s.db.WithContext(ctx).Create(&acc).Error
		if err == nil {
			slog.Info("emoney created", slog.String("emoney_id", acc.ID), slog.String("label", acc.Label))
			return acc, nil
		}
		if !isUniqueViolation(err) {
			return models.EmoneyAccount{}, err
		}
		// label bentrok di antara cek dan insert
		var n int64
		if cerr := s.db.WithContext(ctx).Model(&models.EmoneyAccount{}).Where("label = ?", req.Label).Count(&n).Error; cerr == nil && n > 0 {
			return models.EmoneyAccount{}, errConflict("Label %q sudah dipakai", req.Label)
		}
	}
	return models.EmoneyAccount{}, errConflict("Gagal membuat kode emoney unik")
}

func sumTotals(db *gorm.DB, column, value string) (EmoneyTotals, error) {
	var t EmoneyTotals
	err := db.Model(&models.EmoneyTransaction{}).
		Select(`
			COALESCE(SUM(CASE WHEN type = ? THEN amount_cents ELSE 0 END), 0) AS topup,
			COALESCE(SUM(CASE WHEN type = ? THEN amount_cents ELSE 0 END), 0) AS expense
		`, models.EmoneyTopup, models.EmoneyExpense).
		Where(column+" = ?", value).
		Scan(&t).Error
	t.Balance = t.Topup - t.Expense
	return t, err
}

// linkedContainers id kontainer (distinct) yang direferensikan mutasi akun,
// plus apakah semuanya sudah Closed. Tanpa kontainer terkait dianggap closed.
func linkedContainers(db *gorm.DB, emoneyID string) ([]string, bool, error) {
	ids := []string{}
	if err := db.Model(&models.EmoneyTransaction{}).
		Distinct("ref_container_id").
		Where("emoney_id = ? AND ref_container_id IS NOT NULL AND ref_container_id <> ''", emoneyID).
		Order("ref_container_id ASC").
		Pluck("ref_container_id", &ids).Error; err != nil {
		return nil, false, err
	}
	if len(ids) == 0 {
		return ids, true, nil
	}
	var notClosed int64
	if err := db.Model(&models.Container{}).
		Where("id IN ? AND status <> ?", ids, models.ContainerClosed).
		Count(&notClosed).Error; err != nil {
		return nil, false, err
	}
	return ids, notClosed == 0, nil
}

func (s *emoneyService) List(ctx context.Context, f EmoneyFilter) ([]EmoneySummary, int64, error) {
	f.Page, f.PerPage = normalizePage(f.Page, f.PerPage, 20, 100)
	db := s.db.WithContext(ctx)

	q := db.Model(&models.EmoneyAccount{})
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		q = q.Where("UPPER(id) LIKE ? OR UPPER(label) LIKE ? OR UPPER(status) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accounts []models.EmoneyAccount
	if err := q.Order("created_at DESC").Order("id DESC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&accounts).Error; err != nil {
		return nil, 0, err
	}

	out := make([]EmoneySummary, 0, len(accounts))
	for _, acc := range accounts {
		totals, err := sumTotals(db, "emoney_id", acc.ID)
		if err != nil {
			return nil, 0, err
		}
		_, closed, err := linkedContainers(db, acc.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, EmoneySummary{
			EmoneyAccount: acc,
			EmoneyTotals:  totals,
			LinkedClosed:  closed,
			FullyClosed:   totals.Expense > 0 && closed,
		})
	}
	return out, total, nil
}

func txRowsQuery(db *gorm.DB) *gorm.DB {
	return db.Table("emoney_transactions AS t").
		Select(`
			t.id,
			t.emoney_id,
			COALESCE(e.label, '') AS emoney_label,
			t.type,
			t.amount_cents,
			t.note,
			t.ref_container_id,
			c.event_name,
			c.pic,
			t.created_by,
			t.created_at
		`).
		Joins("LEFT JOIN emoney_accounts e ON e.id = t.emoney_id").
		Joins("LEFT JOIN containers c ON c.id = t.ref_container_id")
}

func (s *emoneyService) Detail(ctx context.Context, id string) (EmoneyDetail, error) {
	db := s.db.WithContext(ctx)

	var out EmoneyDetail
	if err := db.Where("id = ?", id).First(&out.Emoney).Error; err != nil {
		return EmoneyDetail{}, notFoundOr(err, "Emoney %s tidak ditemukan", id)
	}

	out.Tx = []EmoneyTxRow{}
	if err := txRowsQuery(db).
		Where("t.emoney_id = ?", id).
		Order("t.created_at DESC, t.id DESC").
		Scan(&out.Tx).Error; err != nil {
		return EmoneyDetail{}, err
	}

	totals, err := sumTotals(db, "emoney_id", id)
	if err != nil {
		return EmoneyDetail{}, err
	}
	out.EmoneyTotals = totals

	ids, closed, err := linkedContainers(db, id)
	if err != nil {
		return EmoneyDetail{}, err
	}
	out.LinkedContainers = ids
	out.LinkedClosed = closed
	out.FullyClosed = totals.Expense > 0 && closed
	return out, nil
}

func (s *emoneyService) Balance(ctx context.Context, id string) (EmoneyTotals, error) {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&models.EmoneyAccount{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return EmoneyTotals{}, err
	}
	if n == 0 {
		return EmoneyTotals{}, errNotFound("Emoney %s tidak ditemukan", id)
	}
	return sumTotals(db, "emoney_id", id)
}

func lockEmoney(tx *gorm.DB, id string) (models.EmoneyAccount, error) {
	var acc models.EmoneyAccount
	if err := tx.Clauses(clauseUpdateLock()).Where("id = ?", id).First(&acc).Error; err != nil {
		return models.EmoneyAccount{}, notFoundOr(err, "Emoney %s tidak ditemukan", id)
	}
	return acc, nil
}

// AddTransaction insert mutasi. Baris akun dikunci supaya cek saldo + insert
// tidak balapan dengan expense lain di akun yang sama.
func (s *emoneyService) AddTransaction(ctx context.Context, id string, req AddEmoneyTxRequest, caller Caller) (models.EmoneyTransaction, error) {
	typ, ok := models.ParseEmoneyTxType(req.Type)
	if !ok {
		return models.EmoneyTransaction{}, errValidation("type harus topup/expense")
	}
	if err := validateRequest(req); err != nil {
		return models.EmoneyTransaction{}, errValidation("amount harus angka > 0")
	}

	var out models.EmoneyTransaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc, err := lockEmoney(tx, id)
		if err != nil {
			return err
		}
		if acc.Status == models.EmoneyClosed {
			return errTransition("Emoney %s sudah Closed", acc.ID)
		}

		ref := strPtr(req.ContainerID)
		if ref != nil {
			var n int64
			if err := tx.Model(&models.Container{}).Where("id = ?", *ref).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errNotFound("Container %s tidak ditemukan", *ref)
			}
		}

		if typ == models.EmoneyExpense {
			totals, err := sumTotals(tx, "emoney_id", acc.ID)
			if err != nil {
				return err
			}
			// guard saldo tidak negatif
			if req.AmountCents > totals.Balance {
				return errBusiness("Saldo tidak cukup (insufficient balance): saldo=%d, butuh=%d", totals.Balance, req.AmountCents)
			}
		}

		out = models.EmoneyTransaction{
			EmoneyID:       acc.ID,
			Type:           typ,
			AmountCents:    req.AmountCents,
			Note:           strPtr(req.Note),
			RefContainerID: ref,
			CreatedBy:      caller.ID,
			CreatedAt:      s.opts.now(),
		}
		return tx.Create(&out).Error
	})
	if err != nil {
		return models.EmoneyTransaction{}, err
	}
	return out, nil
}

func (s *emoneyService) SetStatus(ctx context.Context, id string, status string, caller Caller) (models.EmoneyAccount, error) {
	target, ok := models.ParseEmoneyStatus(status)
	if !ok {
		return models.EmoneyAccount{}, errValidation("Status tidak valid")
	}

	var out models.EmoneyAccount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acc, err := lockEmoney(tx, id)
		if err != nil {
			return err
		}
		if acc.Status == models.EmoneyClosed {
			return errTransition("Sudah Closed (already closed)")
		}
		if target == acc.Status {
			out = acc
			return nil
		}

		totals, err := sumTotals(tx, "emoney_id", acc.ID)
		if err != nil {
			return err
		}
		if totals.Expense <= 0 {
			return errBusiness("Belum ada pengeluaran (expense)")
		}
		_, closed, err := linkedContainers(tx, acc.ID)
		if err != nil {
			return err
		}
		if !closed {
			return errBusiness("Masih ada container terkait belum Closed")
		}

		if err := tx.Model(&models.EmoneyAccount{}).
			Where("id = ?", acc.ID).
			Updates(map[string]any{"status": target, "updated_at": s.opts.now()}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", acc.ID).First(&out).Error; err != nil {
			return err
		}

		slog.Info("emoney closed",
			slog.String("emoney_id", acc.ID),
			slog.Int64("expense", totals.Expense),
			slog.Int64("balance", totals.Balance),
			slog.String("by", caller.Username),
		)
		return nil
	})
	return out, err
}

func (s *emoneyService) TransactionsByContainer(ctx context.Context, containerID string) (ContainerTxReport, error) {
	containerID = strings.TrimSpace(containerID)
	if containerID == "" {
		return ContainerTxReport{}, errValidation("cid wajib")
	}
	db := s.db.WithContext(ctx)

	out := ContainerTxReport{Data: []EmoneyTxRow{}}
	if err := txRowsQuery(db).
		Where("t.ref_container_id = ?", containerID).
		Order("t.created_at DESC, t.id DESC").
		Scan(&out.Data).Error; err != nil {
		return ContainerTxReport{}, err
	}
	totals, err := sumTotals(db, "ref_container_id", containerID)
	if err != nil {
		return ContainerTxReport{}, err
	}
	out.SumTopup, out.SumExpense = totals.Topup, totals.Expense
	return out, nil
}

// TransactionsInRange mutasi semua akun dengan start <= created_at < end.
func (s *emoneyService) TransactionsInRange(ctx context.Context, start, end time.Time, query string) ([]EmoneyTxRow, error) {
	if !end.After(start) {
		return nil, errValidation("Rentang tanggal tidak valid")
	}
	q := txRowsQuery(s.db.WithContext(ctx)).
		Where("t.created_at >= ? AND t.created_at < ?", start, end)
	if strings.TrimSpace(query) != "" {
		like := likePattern(query)
		q = q.Where("UPPER(e.label) LIKE ? OR UPPER(t.emoney_id) LIKE ? OR UPPER(COALESCE(t.note, '')) LIKE ?", like, like, like)
	}

	rows := []EmoneyTxRow{}
	if err := q.Order("t.created_at DESC, t.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete hapus akun + semua mutasinya. Pembatasan role ada di route (admin).
func (s *emoneyService) Delete(ctx context.Context, id string, caller Caller) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockEmoney(tx, id); err != nil {
			return err
		}
		if err := tx.Where("emoney_id = ?", id).Delete(&models.EmoneyTransaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.EmoneyAccount{}).Error; err != nil {
			return err
		}
		slog.Warn("emoney deleted", slog.String("emoney_id", id), slog.String("by", caller.Username))
		return nil
	})
}
