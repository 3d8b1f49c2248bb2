package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSliceScan(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.Scan(`["algebra","geometry"]`))
	assert.Equal(t, StringSlice{"algebra", "geometry"}, s)

	// NULL, empty and literal "null" columns all scan to an empty slice.
	require.NoError(t, s.Scan(nil))
	assert.Empty(t, s)
	require.NoError(t, s.Scan(""))
	assert.Empty(t, s)
	require.NoError(t, s.Scan([]byte("null")))
	assert.Empty(t, s)

	assert.Error(t, s.Scan(42))
}

func TestStringSliceValue(t *testing.T) {
	val, err := StringSlice(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", val)

	val, err = StringSlice{"fractions"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["fractions"]`, val)
}

func TestTopicSummaryRoundTrip(t *testing.T) {
	summary := TopicSummary{"fractions": {Correct: 1, Total: 2}}
	val, err := summary.Value()
	require.NoError(t, err)

	var scanned TopicSummary
	require.NoError(t, scanned.Scan(val))
	assert.Equal(t, 1, scanned["fractions"].Correct)
	assert.Equal(t, 2, scanned["fractions"].Total)
}

func TestInsightJSONScan(t *testing.T) {
	var i InsightJSON
	require.NoError(t, i.Scan(`{"analysis":"good","topic_performance":{},"score":80,"time_taken":30}`))
	require.NotNil(t, i.Payload)
	assert.Equal(t, "good", i.Payload.Analysis)
	assert.Equal(t, 80.0, i.Payload.Score)

	require.NoError(t, i.Scan(nil))
	assert.Nil(t, i.Payload)
}

func TestInsightJSONValue_NilPayload(t *testing.T) {
	val, err := InsightJSON{}.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestTrendPointsScan(t *testing.T) {
	var p TrendPoints
	require.NoError(t, p.Scan(`[{"date":"2026-08-01T10:00:00Z","score":75}]`))
	require.Len(t, p, 1)
	assert.Equal(t, 75.0, p[0].Score)

	val, err := TrendPoints(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", val)
}
