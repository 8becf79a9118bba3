package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wbpanel/internal/models"
	"wbpanel/internal/query"
)

func TestTradeBalance(t *testing.T) {
	p := fixture(t)

	bal, err := query.TradeBalance(p, "X", query.DefaultNames())
	require.NoError(t, err)

	require.Len(t, bal, 3)
	assert.Equal(t, 2019, bal[1].Year)
	assert.Equal(t, models.Observed(150e9), bal[1].Value)
	assert.Equal(t, []models.Value{o(100e9), o(150e9), o(-25e9)}, bal.Values())
}

func TestTradeBalance_MissingSideIsAbsent(t *testing.T) {
	bal, err := query.TradeBalance(fixture(t), "Y", query.DefaultNames())
	require.NoError(t, err)
	assert.Equal(t, []models.Value{a, a, a}, bal.Values())
}

func TestTradeBalance_Errors(t *testing.T) {
	p := fixture(t)

	_, err := query.TradeBalance(p, "Atlantis", query.DefaultNames())
	require.ErrorIs(t, err, models.ErrUnknownCountry)

	names := query.DefaultNames()
	names.Imports = "Imports (LCU)"
	_, err = query.TradeBalance(p, "X", names)
	require.ErrorIs(t, err, models.ErrUnknownIndicator)
}

func TestTradeBalance_OnFilteredPanel(t *testing.T) {
	sub, err := query.FilterByYears(fixture(t), 2019, 2019)
	require.NoError(t, err)

	bal, err := query.TradeBalance(sub, "X", query.DefaultNames())
	require.NoError(t, err)
	assert.Equal(t, models.Observed(150e9), query.Latest(bal))
}

func TestSectorShares(t *testing.T) {
	slices, err := query.SectorShares(fixture(t), "X", 2020, query.DefaultNames())
	require.NoError(t, err)
	require.Len(t, slices, 3)

	assert.Equal(t, query.Agriculture, slices[0].Label)
	assert.Equal(t, o(12.0), slices[0].Value)
	assert.Equal(t, o(28.0), slices[1].Value)
	assert.Equal(t, o(60.0), slices[2].Value)

	sum := 0.0
	for _, s := range slices {
		sum += s.Value.Float
	}

	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestSectorShares_Errors(t *testing.T) {
	p := fixture(t)

	_, err := query.SectorShares(p, "Atlantis", 2020, query.DefaultNames())
	require.ErrorIs(t, err, models.ErrUnknownCountry)

	_, err = query.SectorShares(p, "X", 2050, query.DefaultNames())
	require.ErrorIs(t, err, models.ErrUnknownYear)

	shares, err := query.SectorShares(p, "Y", 2020, query.DefaultNames())
	require.NoError(t, err)

	for _, s := range shares {
		assert.False(t, s.Value.Valid, "%s should be absent for Y", s.Label)
	}
}

func TestOverview(t *testing.T) {
	metrics, err := query.Overview(fixture(t), "X", query.DefaultNames())
	require.NoError(t, err)
	require.Len(t, metrics, 3)

	assert.Equal(t, "Latest GDP Growth", metrics[0].Label)
	assert.Equal(t, o(-3.0), metrics[0].Value)
	assert.Equal(t, o(450.0), metrics[1].Value)
	assert.Equal(t, o(475.0), metrics[2].Value)
}

func TestOverview_EmptyAxisUsesAbsentSentinel(t *testing.T) {
	sub, err := query.FilterByYears(fixture(t), 1990, 1995)
	require.NoError(t, err)

	metrics, err := query.Overview(sub, "X", query.DefaultNames())
	require.NoError(t, err)

	for _, m := range metrics {
		assert.False(t, m.Value.Valid, "%s should be absent", m.Label)
	}
}
