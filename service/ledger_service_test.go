package service

import (
	"testing"

	"github.com/PvtMilo/WMS-demo/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skippedReasons(res AddItemsResult) map[string]string {
	out := map[string]string{}
	for _, s := range res.Skipped {
		out[s.IDCode] = s.Reason
	}
	return out
}

func TestAddItemsCheckoutGoodItems(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "LT-PAR64-001", models.ItemGood, models.DefectNone)
	f.seedItem(t, "LT-PAR64-002", models.ItemGood, models.DefectNone)
	ctr := f.newContainer(t)

	res, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{"LT-PAR64-001", " LT-PAR64-002 ", ""}}, operator)
	require.NoError(t, err)

	assert.Equal(t, models.BatchMain, res.BatchLabel)
	assert.Len(t, res.Added, 2)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 2, res.Counts.Good)

	for _, code := range []string{"LT-PAR64-001", "LT-PAR64-002"} {
		it := f.item(t, code)
		assert.Equal(t, models.ItemKeluar, it.Status)

		line := f.activeLine(t, ctr.ID, code)
		assert.Equal(t, models.CondGood, line.ConditionAtCheckout)
		assert.Equal(t, operator.ID, line.AddedBy)
		assert.Nil(t, line.OverrideReason)
		assert.Nil(t, line.AmendReason)
	}
}

func TestAddItemsSkipReasons(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "A-1", models.ItemGood, models.DefectNone)
	f.seedItem(t, "A-LOST", models.ItemHilang, models.DefectNone)
	f.seedItem(t, "A-AFKIR", models.ItemAfkir, models.DefectNone)
	f.seedItem(t, "A-OUT", models.ItemGood, models.DefectNone)

	other := f.newContainer(t)
	_, err := f.svc.Ledger.AddItems(f.ctx, other.ID, AddItemsRequest{IDs: []string{"A-OUT"}}, operator)
	require.NoError(t, err)

	ctr := f.newContainer(t)
	res, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{
		IDs: []string{"A-1", "A-1", "NOPE", "A-LOST", "A-AFKIR", "A-OUT"},
	}, operator)
	require.NoError(t, err)

	require.Len(t, res.Added, 1)
	assert.Equal(t, "A-1", res.Added[0].IDCode)

	reasons := skippedReasons(res)
	assert.Equal(t, "Sudah ada di kontainer", reasons["A-1"])
	assert.Equal(t, "Item tidak ditemukan", reasons["NOPE"])
	assert.Equal(t, "Status Hilang tidak bisa checkout", reasons["A-LOST"])
	assert.Equal(t, "Status Afkir tidak bisa checkout", reasons["A-AFKIR"])
	assert.Equal(t, "Item sudah Keluar", reasons["A-OUT"])

	// item yang dilewati tidak berubah
	assert.Equal(t, models.ItemHilang, f.item(t, "A-LOST").Status)
	assert.Equal(t, models.ItemAfkir, f.item(t, "A-AFKIR").Status)
}

func TestAddItemsHeavyDamageNeedsOverride(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "X", models.ItemRusak, models.DefectBerat)
	f.seedItem(t, "Y", models.ItemRusak, models.DefectRingan)
	ctr := f.newContainer(t)

	res, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{"X"}}, operator)
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Equal(t, "Rusak berat butuh konfirmasi & alasan", skippedReasons(res)["X"])
	assert.Equal(t, models.ItemRusak, f.item(t, "X").Status)

	// konfirmasi tanpa alasan tetap ditolak
	res, err = f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{"X"}, OverrideHeavy: true}, operator)
	require.NoError(t, err)
	assert.Empty(t, res.Added)

	res, err = f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{
		IDs:            []string{"X", "Y"},
		OverrideHeavy:  true,
		OverrideReason: "client minta",
	}, operator)
	require.NoError(t, err)
	require.Len(t, res.Added, 2)
	assert.Equal(t, 1, res.Counts.RusakBerat)
	assert.Equal(t, 1, res.Counts.RusakRingan)

	x := f.activeLine(t, ctr.ID, "X")
	assert.Equal(t, models.CondRusakBerat, x.ConditionAtCheckout)
	require.NotNil(t, x.OverrideReason)
	assert.Equal(t, "client minta", *x.OverrideReason)
	require.NotNil(t, x.OverrideBy)
	assert.Equal(t, operator.ID, *x.OverrideBy)

	// alasan override hanya disimpan untuk rusak_berat
	y := f.activeLine(t, ctr.ID, "Y")
	assert.Equal(t, models.CondRusakRingan, y.ConditionAtCheckout)
	assert.Nil(t, y.OverrideReason)

	// defect tetap, status Keluar
	it := f.item(t, "X")
	assert.Equal(t, models.ItemKeluar, it.Status)
	assert.Equal(t, models.DefectBerat, it.DefectLevel)
}

func TestAddItemsAmendBatch(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "A-1", models.ItemGood, models.DefectNone)
	f.seedItem(t, "A-2", models.ItemGood, models.DefectNone)
	ctr := f.newContainer(t)

	_, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{"A-1"}}, operator)
	require.NoError(t, err)

	res, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{
		IDs:         []string{"A-2"},
		Amend:       true,
		AmendReason: "tambahan lighting",
	}, operator)
	require.NoError(t, err)
	assert.Equal(t, "AMEND-20250301-0930", res.BatchLabel)

	line := f.activeLine(t, ctr.ID, "A-2")
	assert.Equal(t, "AMEND-20250301-0930", line.BatchLabel)
	require.NotNil(t, line.AmendReason)
	assert.Equal(t, "tambahan lighting", *line.AmendReason)
}

func TestAddItemsRejectedRequests(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "A-1", models.ItemGood, models.DefectNone)
	ctr := f.newContainer(t)

	_, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{" ", ""}}, operator)
	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "IDs")

	_, err = f.svc.Ledger.AddItems(f.ctx, "CTR-NOPE", AddItemsRequest{IDs: []string{"A-1"}}, operator)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = f.svc.Containers.SetStatus(f.ctx, ctr.ID, "Closed", admin)
	require.NoError(t, err)
	_, err = f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{"A-1"}}, operator)
	assert.True(t, IsKind(err, KindInvalidTransition))
	assert.Equal(t, models.ItemGood, f.item(t, "A-1").Status)
}

func TestVoidItemRestoresPreCheckoutState(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "Y", models.ItemRusak, models.DefectRingan)
	ctr := f.newContainer(t)

	_, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{"Y"}}, operator)
	require.NoError(t, err)
	assert.Equal(t, models.ItemKeluar, f.item(t, "Y").Status)

	require.NoError(t, f.svc.Ledger.VoidItem(f.ctx, ctr.ID, VoidItemRequest{IDCode: "Y"}, operator))

	it := f.item(t, "Y")
	assert.Equal(t, models.ItemRusak, it.Status)
	assert.Equal(t, models.DefectRingan, it.DefectLevel)

	var line models.ContainerItem
	require.NoError(t, f.db.Where("container_id = ? AND id_code = ?", ctr.ID, "Y").First(&line).Error)
	require.NotNil(t, line.VoidedAt)
	require.NotNil(t, line.VoidReason)
	assert.Equal(t, "mis-scan", *line.VoidReason)
	require.NotNil(t, line.VoidedBy)
	assert.Equal(t, operator.ID, *line.VoidedBy)

	// baris void tidak menghalangi scan ulang
	res, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{"Y"}}, operator)
	require.NoError(t, err)
	assert.Len(t, res.Added, 1)

	var total int64
	require.NoError(t, f.db.Model(&models.ContainerItem{}).Where("container_id = ? AND id_code = ?", ctr.ID, "Y").Count(&total).Error)
	assert.EqualValues(t, 2, total)

	// void kedua kali pada baris yang sudah void -> tidak aktif
	require.NoError(t, f.svc.Ledger.VoidItem(f.ctx, ctr.ID, VoidItemRequest{IDCode: "Y", Reason: "salah kontainer"}, operator))
	err = f.svc.Ledger.VoidItem(f.ctx, ctr.ID, VoidItemRequest{IDCode: "Y"}, operator)
	assert.True(t, IsKind(err, KindNotFound))
}

func checkoutOne(t *testing.T, f *fixture, code string, status models.ItemStatus, defect models.DefectLevel) models.Container {
	t.Helper()
	f.seedItem(t, code, status, defect)
	ctr := f.newContainer(t)
	res, err := f.svc.Ledger.AddItems(f.ctx, ctr.ID, AddItemsRequest{IDs: []string{code}, OverrideHeavy: true, OverrideReason: "ok"}, operator)
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	return ctr
}

func TestCheckInGood(t *testing.T) {
	f := newFixture(t)
	ctr := checkoutOne(t, f, "A-1", models.ItemGood, models.DefectNone)

	res, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "GOOD"}, operator)
	require.NoError(t, err)
	assert.Equal(t, models.CondGood, res.Condition)
	require.NotNil(t, res.ReturnedAt)

	it := f.item(t, "A-1")
	assert.Equal(t, models.ItemGood, it.Status)
	assert.Equal(t, models.DefectNone, it.DefectLevel)

	line := f.activeLine(t, ctr.ID, "A-1")
	require.NotNil(t, line.ReturnedAt)
	require.NotNil(t, line.ReturnCondition)
	assert.Equal(t, models.CondGood, *line.ReturnCondition)
	require.NotNil(t, line.CheckedInBy)
	assert.Equal(t, operator.ID, *line.CheckedInBy)
}

func TestCheckInDamageRequiresNote(t *testing.T) {
	f := newFixture(t)
	ctr := checkoutOne(t, f, "A-1", models.ItemGood, models.DefectNone)

	_, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "rusak_ringan"}, operator)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, models.ItemKeluar, f.item(t, "A-1").Status)

	_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "rusak_ringan", Note: "lensa retak"}, operator)
	require.NoError(t, err)

	it := f.item(t, "A-1")
	assert.Equal(t, models.ItemRusak, it.Status)
	assert.Equal(t, models.DefectRingan, it.DefectLevel)

	line := f.activeLine(t, ctr.ID, "A-1")
	require.NotNil(t, line.DamageNote)
	assert.Equal(t, "lensa retak", *line.DamageNote)
}

func TestCheckInSameDamageAsCheckoutNeedsNoNote(t *testing.T) {
	f := newFixture(t)
	ctr := checkoutOne(t, f, "X", models.ItemRusak, models.DefectBerat)

	_, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "X", Condition: "rusak_berat"}, operator)
	require.NoError(t, err)

	it := f.item(t, "X")
	assert.Equal(t, models.ItemRusak, it.Status)
	assert.Equal(t, models.DefectBerat, it.DefectLevel)
}

func TestCheckInSeverityIsMonotonicForNonAdmin(t *testing.T) {
	f := newFixture(t)
	ctr := checkoutOne(t, f, "A-1", models.ItemGood, models.DefectNone)

	_, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "rusak_berat", Note: "jatuh"}, operator)
	require.NoError(t, err)

	_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "good"}, operator)
	assert.True(t, IsKind(err, KindInvalidTransition))
	_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "rusak_ringan", Note: "x"}, operator)
	assert.True(t, IsKind(err, KindInvalidTransition))
	assert.Equal(t, models.DefectBerat, f.item(t, "A-1").DefectLevel)

	// admin boleh koreksi turun
	_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "good"}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.ItemGood, f.item(t, "A-1").Status)
}

func TestCheckInLostClearsReturnAndLocksNonAdmin(t *testing.T) {
	f := newFixture(t)
	ctr := checkoutOne(t, f, "A-1", models.ItemGood, models.DefectNone)

	// sudah kembali, lalu ternyata hilang
	_, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "good"}, operator)
	require.NoError(t, err)

	res, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "LOST", Note: "tidak ada di truk"}, operator)
	require.NoError(t, err)
	assert.Equal(t, models.CondHilang, res.Condition)
	assert.Nil(t, res.ReturnedAt)

	line := f.activeLine(t, ctr.ID, "A-1")
	assert.Nil(t, line.ReturnedAt)
	require.NotNil(t, line.ReturnCondition)
	assert.Equal(t, models.CondHilang, *line.ReturnCondition)
	assert.Equal(t, models.ItemHilang, f.item(t, "A-1").Status)

	// non-admin tidak bisa koreksi item Hilang
	_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "good"}, operator)
	assert.True(t, IsKind(err, KindForbidden))

	// barang hilang masih menghalangi close
	_, err = f.svc.Containers.SetStatus(f.ctx, ctr.ID, "closed", admin)
	assert.True(t, IsKind(err, KindBusinessRule))

	_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "good"}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.ItemGood, f.item(t, "A-1").Status)

	_, err = f.svc.Containers.SetStatus(f.ctx, ctr.ID, "closed", admin)
	require.NoError(t, err)
}

func TestCheckInRejectsUnknownInput(t *testing.T) {
	f := newFixture(t)
	ctr := checkoutOne(t, f, "A-1", models.ItemGood, models.DefectNone)

	_, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "meh"}, operator)
	assert.True(t, IsKind(err, KindValidation))

	_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "B-9", Condition: "good"}, operator)
	assert.True(t, IsKind(err, KindNotFound))

	_, err = f.svc.Ledger.CheckIn(f.ctx, "CTR-NOPE", CheckInRequest{IDCode: "A-1", Condition: "good"}, operator)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCheckInAfterCloseCannotReopenLine(t *testing.T) {
	f := newFixture(t)
	ctr := checkoutOne(t, f, "A-1", models.ItemGood, models.DefectNone)

	_, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "good"}, operator)
	require.NoError(t, err)
	_, err = f.svc.Containers.SetStatus(f.ctx, ctr.ID, "closed", admin)
	require.NoError(t, err)

	for _, who := range []Caller{operator, admin} {
		_, err = f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "lost", Note: "ternyata hilang"}, who)
		assert.True(t, IsKind(err, KindInvalidTransition), who.Username)
	}

	line := f.activeLine(t, ctr.ID, "A-1")
	assert.NotNil(t, line.ReturnedAt)
	assert.Equal(t, models.ItemGood, f.item(t, "A-1").Status)

	// koreksi kerusakan tetap boleh, baris tetap kembali
	res, err := f.svc.Ledger.CheckIn(f.ctx, ctr.ID, CheckInRequest{IDCode: "A-1", Condition: "rusak_ringan", Note: "lecet"}, operator)
	require.NoError(t, err)
	assert.NotNil(t, res.ReturnedAt)

	m, err := f.svc.Containers.Metrics(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, int(m.OutstandingLines))
	assert.Equal(t, 1, int(m.Closed))
}

func TestCheckInCorrectionKeepsRegistryOfNewerCheckout(t *testing.T) {
	f := newFixture(t)
	first := checkoutOne(t, f, "A-1", models.ItemGood, models.DefectNone)
	_, err := f.svc.Ledger.CheckIn(f.ctx, first.ID, CheckInRequest{IDCode: "A-1", Condition: "good"}, operator)
	require.NoError(t, err)

	second := f.newContainer(t)
	res, err := f.svc.Ledger.AddItems(f.ctx, second.ID, AddItemsRequest{IDs: []string{"A-1"}}, operator)
	require.NoError(t, err)
	require.Len(t, res.Added, 1)

	// koreksi baris lama: ledger berubah, registry tetap Keluar
	ci, err := f.svc.Ledger.CheckIn(f.ctx, first.ID, CheckInRequest{IDCode: "A-1", Condition: "rusak_ringan", Note: "penyok"}, operator)
	require.NoError(t, err)
	assert.Equal(t, models.ItemKeluar, ci.Status)

	line := f.activeLine(t, first.ID, "A-1")
	require.NotNil(t, line.ReturnCondition)
	assert.Equal(t, models.CondRusakRingan, *line.ReturnCondition)
	assert.Equal(t, models.ItemKeluar, f.item(t, "A-1").Status)

	third := f.newContainer(t)
	res, err = f.svc.Ledger.AddItems(f.ctx, third.ID, AddItemsRequest{IDs: []string{"A-1"}}, operator)
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Equal(t, "Item sudah Keluar", skippedReasons(res)["A-1"])
}
