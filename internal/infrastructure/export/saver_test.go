package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries() []Series {
	oi := int64(5200)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []Series{
		{
			Symbol: "MSFT", Frequency: "1d", Source: barv1.SourceUpstream,
			Bars: []barv1.Bar{{Timestamp: base, Open: 370, High: 375, Low: 368, Close: 372, Volume: 900}},
		},
		{
			Symbol: "ES", Frequency: "1d", Source: barv1.SourceMock,
			Bars: []barv1.Bar{
				{Timestamp: base, Open: 4700, High: 4720, Low: 4690, Close: 4710, Volume: 100, OpenInterest: &oi, ContractMonth: "2024-03"},
				{Timestamp: base.AddDate(0, 0, 1), Open: 4710, High: 4730, Low: 4700, Close: 4725, Volume: 120},
			},
		},
	}
}

func TestToRecords(t *testing.T) {
	records := ToRecords(testSeries()...)
	require.Len(t, records, 3)

	assert.Equal(t, "ES", records[0].Symbol)
	assert.Equal(t, "mock", records[0].Source)
	assert.Equal(t, int64(5200), *records[0].OpenInterest)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), records[0].Time())
	assert.Equal(t, "MSFT", records[2].Symbol)
}

func TestNewSaver(t *testing.T) {
	testCases := []struct {
		format   string
		expected Saver
	}{
		{format: "parquet", expected: ParquetSaver{}},
		{format: " JSON ", expected: JSONSaver{}},
		{format: "csv", expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			assert.Equal(t, tc.expected, NewSaver(tc.format))
		})
	}
}

func TestParquetSaver_Save(t *testing.T) {
	records := ToRecords(testSeries()...)
	path := filepath.Join(t.TempDir(), "bars.parquet")

	require.NoError(t, ParquetSaver{}.Save(records, path))

	got, err := parquet.ReadFile[Record](path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, records[0].Timestamp, got[0].Timestamp)
	assert.Equal(t, "2024-03", got[0].ContractMonth)
	require.NotNil(t, got[0].OpenInterest)
	assert.Equal(t, int64(5200), *got[0].OpenInterest)
	assert.Nil(t, got[1].OpenInterest)
	assert.Equal(t, 372.0, got[2].Close)
}

func TestJSONSaver_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.json")
	require.NoError(t, JSONSaver{}.Save(ToRecords(testSeries()...), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []Record
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got, 3)
	assert.Equal(t, "ES", got[1].Symbol)

	empty := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, JSONSaver{}.Save(nil, empty))
	raw, err = os.ReadFile(empty)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}
