package collection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Quantum Computing", "quantum_computing"},
		{"Artificial Intelligence", "artificial_intelligence"},
		{"5G", "5g"},
		{"already_slugged", "already_slugged"},
		{"Two  Spaces", "two__spaces"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
			assert.Equal(t, tt.want, Slug(Slug(tt.in)), "slug must be idempotent")
		})
	}
}

func TestKey(t *testing.T) {
	date := time.Date(2022, time.July, 4, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "20220704_quantum_computing", Key(date, "Quantum Computing"))
	assert.Equal(t, "20220704_quantum_computing_prediction", PredictionKey(date, "Quantum Computing"))
	assert.Equal(t, Key(date, "Quantum Computing"), Key(date, "quantum computing"))
}

func TestParseRoundTrip(t *testing.T) {
	date := time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC)

	for _, tech := range []string{"Hypersonics", "Post-quantum cryptography", "Edge computing"} {
		n, err := Parse(Key(date, tech))
		require.NoError(t, err)
		assert.True(t, n.Date.Equal(date))
		assert.Equal(t, Slug(tech), n.Slug)
		assert.False(t, n.Prediction)
		assert.Equal(t, Key(date, tech), n.String())

		p, err := Parse(PredictionKey(date, tech))
		require.NoError(t, err)
		assert.True(t, p.Prediction)
		assert.Equal(t, Slug(tech), p.Slug)
		assert.Equal(t, PredictionKey(date, tech), p.String())
	}
}

func TestParsePredictionSuffixAmbiguous(t *testing.T) {
	date := time.Date(2023, time.January, 31, 0, 0, 0, 0, time.UTC)

	n, err := Parse(Key(date, "Crop prediction"))
	require.NoError(t, err)
	assert.Equal(t, "crop", n.Slug)
	assert.True(t, n.Prediction)
	assert.Equal(t, Key(date, "Crop prediction"), n.String())
}

func TestParseInvalid(t *testing.T) {
	for _, name := range []string{"", "quantum", "2023_quantum", "20231301_quantum", "20230101_"} {
		_, err := Parse(name)
		assert.Error(t, err, name)
	}
}

func TestParseBarePredictionSlug(t *testing.T) {
	n, err := Parse("20230101_prediction")
	require.NoError(t, err)
	assert.Equal(t, "prediction", n.Slug)
	assert.False(t, n.Prediction)
}
