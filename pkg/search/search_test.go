package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayRange(t *testing.T) {
	from, to := DayRange(time.Date(2022, 7, 4, 13, 45, 10, 0, time.UTC))

	assert.Equal(t, time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2022, 7, 4, 23, 59, 59, 0, time.UTC), to)
}
