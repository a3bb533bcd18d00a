package exchange

import (
	"testing"

	allocerrors "github.com/ducminhle1904/pair-rotation-allocator/internal/errors"
	"github.com/ducminhle1904/pair-rotation-allocator/internal/exchange/bybit"
	"github.com/ducminhle1904/pair-rotation-allocator/pkg/data"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceFactory_CreateCSV(t *testing.T) {
	factory := NewSourceFactory(zerolog.Nop())

	source, err := factory.CreateSource(SourceConfig{
		Name: "CSV",
		CSV:  &CSVConfig{DataRoot: "data"},
	})
	require.NoError(t, err)

	manager, ok := source.(*data.DataManager)
	require.True(t, ok)
	assert.Contains(t, manager.GetName(), "data/bybit")
}

func TestSourceFactory_CreateBybit(t *testing.T) {
	factory := NewSourceFactory(zerolog.Nop())

	source, err := factory.CreateSource(SourceConfig{
		Name:  "bybit",
		Bybit: &BybitConfig{Testnet: true, Category: "linear", Bars: 120},
	})
	require.NoError(t, err)

	_, ok := source.(*bybit.HistoryProvider)
	assert.True(t, ok)
}

func TestSourceFactory_ValidateConfig(t *testing.T) {
	factory := NewSourceFactory(zerolog.Nop())

	tests := []struct {
		name   string
		config SourceConfig
	}{
		{"missing name", SourceConfig{}},
		{"unsupported source", SourceConfig{Name: "binance"}},
		{"csv without config", SourceConfig{Name: "csv"}},
		{"csv without root", SourceConfig{Name: "csv", CSV: &CSVConfig{}}},
		{"bybit without config", SourceConfig{Name: "bybit"}},
		{"bybit bad category", SourceConfig{Name: "bybit", Bybit: &BybitConfig{Category: "option"}}},
		{"bybit negative bars", SourceConfig{Name: "bybit", Bybit: &BybitConfig{Bars: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := factory.ValidateConfig(tt.config)
			require.Error(t, err)
			assert.True(t, allocerrors.Is(err, allocerrors.ErrorCategoryConfiguration))
		})
	}

	assert.Equal(t, []string{"csv", "bybit"}, factory.GetSupportedSources())
}
