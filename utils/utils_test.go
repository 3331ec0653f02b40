package utils

import (
	"errors"
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/PvtMilo/WMS-demo/models"
	"github.com/PvtMilo/WMS-demo/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountCents(t *testing.T) {
	cases := map[string]int64{
		"12.50":  1250,
		"12,5":   1250,
		" 100 ":  10000,
		"0.015":  2,
		"99.994": 9999,
	}
	for in, want := range cases {
		got, err := ParseAmountCents(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "abc", "0", "-5", "0.001", "184467440737095516.17", "92233720368547758.08"} {
		_, err := ParseAmountCents(in)
		assert.Error(t, err, in)
	}
	got, err := ParseAmountCents("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got)

	assert.Equal(t, "12.50", FormatCents(1250))
	assert.Equal(t, "0.05", FormatCents(5))
}

func TestJWTResolverRoundTrip(t *testing.T) {
	ConfigureJWT("test-secret", time.Hour)

	token, exp, err := GenerateToken(7, "budi", models.RolePIC)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	caller, err := JWTResolver{}.ResolveCaller(token)
	require.NoError(t, err)
	assert.Equal(t, service.Caller{ID: 7, Username: "budi", Role: models.RolePIC}, caller)
	assert.False(t, caller.IsAdmin())

	_, err = JWTResolver{}.ResolveCaller(token + "x")
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))

	bad, _, err := GenerateToken(7, "budi", models.Role("tamu"))
	require.NoError(t, err)
	_, err = JWTResolver{}.ResolveCaller(bad)
	assert.True(t, errors.Is(err, service.ErrUnauthenticated))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(service.KindNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusFor(service.KindValidation))
	assert.Equal(t, http.StatusConflict, StatusFor(service.KindConflict))
	assert.Equal(t, http.StatusConflict, StatusFor(service.KindInvalidTransition))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(service.KindBusinessRule))
	assert.Equal(t, http.StatusForbidden, StatusFor(service.KindForbidden))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(""))
}
