package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_JSONAlwaysHasOneDecimal(t *testing.T) {
	tests := []struct {
		score Score
		want  string
	}{
		{100, "100.0"},
		{0, "0.0"},
		{20, "20.0"},
		{87.5, "87.5"},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.score)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))
	}
}

func TestQualityScore_JSON(t *testing.T) {
	data, err := json.MarshalIndent(QualityScore{Score: 100, Grade: "A", TotalRows: 10}, "", "  ")
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"score\": 100.0,\n  \"grade\": \"A\",\n  \"total_rows\": 10,\n  \"issue_count\": 0\n}", string(data))

	var back QualityScore
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Score(100), back.Score)
}

func TestProductMaster(t *testing.T) {
	pm := NewProductMaster([]ProductEntry{
		{StockCode: "85123A", UnitPriceRef: NullFloat{Value: 2.55, Valid: true}},
		{StockCode: "85123A ", UnitPriceRef: NullFloat{Value: 2.65, Valid: true}},
		{StockCode: "POST"},
	})

	assert.Equal(t, 3, pm.Len())
	assert.True(t, pm.Contains("85123A"))
	assert.True(t, pm.Contains("85123A "))
	assert.True(t, pm.Contains("POST"))
	assert.False(t, pm.Contains("85123a"), "lookups are case-sensitive")
	assert.False(t, pm.Contains(" POST"), "lookups are not trimmed")

	price, ok := pm.RefPrice("85123A")
	assert.True(t, ok)
	assert.Equal(t, 2.55, price)

	price, ok = pm.RefPrice("85123A ")
	assert.True(t, ok)
	assert.Equal(t, 2.65, price)

	_, ok = pm.RefPrice("POST")
	assert.False(t, ok)
}

func TestUniqueHeaders(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"a", "b"}, []string{"a", "b"}},
		{[]string{"Quantity", "Quantity"}, []string{"Quantity", "Quantity.1"}},
		{[]string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{[]string{"a", "a", "a.1"}, []string{"a", "a.2", "a.1"}},
		{[]string{"a.1", "a", "a"}, []string{"a.1", "a", "a.2"}},
		{nil, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UniqueHeaders(tt.in))
	}
}

func TestSeverity_Rank(t *testing.T) {
	assert.Less(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Less(t, SeverityLow.Rank(), Severity("OTHER").Rank())
}
