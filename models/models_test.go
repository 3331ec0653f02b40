package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLineCondition(t *testing.T) {
	cases := map[string]LineCondition{
		"good":         CondGood,
		" Baik ":       CondGood,
		"rusak ringan": CondRusakRingan,
		"RUSAK_BERAT":  CondRusakBerat,
		"berat":        CondRusakBerat,
		"lost":         CondHilang,
		"Hilang":       CondHilang,
	}
	for in, want := range cases {
		got, ok := ParseLineCondition(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseLineCondition("hancur")
	assert.False(t, ok)
}

func TestLineConditionSeverity(t *testing.T) {
	assert.Less(t, CondGood.Severity(), CondRusakRingan.Severity())
	assert.Less(t, CondRusakRingan.Severity(), CondRusakBerat.Severity())
	assert.Equal(t, -1, CondHilang.Severity())

	st, d := CondRusakBerat.RegistryState()
	assert.Equal(t, ItemRusak, st)
	assert.Equal(t, DefectBerat, d)
	st, d = CondHilang.RegistryState()
	assert.Equal(t, ItemHilang, st)
	assert.Equal(t, DefectNone, d)
	st, _ = LineCondition("aneh").RegistryState()
	assert.Equal(t, ItemGood, st)
}

func TestContainerStatusOrder(t *testing.T) {
	st, ok := ParseContainerStatus("sedang_berjalan")
	assert.True(t, ok)
	assert.Equal(t, ContainerRunning, st)
	st, ok = ParseContainerStatus(" CLOSED ")
	assert.True(t, ok)
	assert.Equal(t, ContainerClosed, st)
	_, ok = ParseContainerStatus("archived")
	assert.False(t, ok)

	assert.True(t, ContainerOpen.Before(ContainerRunning))
	assert.True(t, ContainerRunning.Before(ContainerClosed))
	assert.False(t, ContainerClosed.Before(ContainerOpen))
	assert.False(t, ContainerOpen.Before(ContainerOpen))
}

func TestParseItemStatus(t *testing.T) {
	st, ok := ParseItemStatus("lost")
	assert.True(t, ok)
	assert.Equal(t, ItemHilang, st)
	_, ok = ParseItemStatus("broken")
	assert.False(t, ok)

	d, ok := ParseDefectLevel("")
	assert.True(t, ok)
	assert.Equal(t, DefectNone, d)
}
