package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r, err := NewRegistry(DefaultDefinitions()...)
	require.NoError(t, err)

	t.Run("lists by name", func(t *testing.T) {
		var names []string
		for _, d := range r.List() {
			names = append(names, d.Name)
		}
		assert.Equal(t, []string{"blinkit_ad_spend", "blinkit_citywise", "channel_overview", "swiggy_ad_spend"}, names)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		err := r.Register(Definition{Name: "blinkit_citywise", Sources: []string{"blinkit_sales"}})
		assert.Error(t, err)
	})

	t.Run("rejects definitions without sources", func(t *testing.T) {
		assert.Error(t, r.Register(Definition{Name: "empty"}))
		assert.Error(t, r.Register(Definition{Sources: []string{"blinkit_sales"}}))
	})

	t.Run("unknown report", func(t *testing.T) {
		_, err := r.Get("weekly_units")
		assert.True(t, errors.Is(err, ErrReportNotFound))
	})

	t.Run("get", func(t *testing.T) {
		def, err := r.Get("swiggy_ad_spend")
		require.NoError(t, err)
		assert.Equal(t, []string{"swiggy_ads", "swiggy_sales"}, def.Sources)
	})
}
