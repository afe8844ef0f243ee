package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seva/shared/timezone"
)

func useKolkata(t *testing.T) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	previous := timezone.GetLocation()
	timezone.SetLocation(loc)
	t.Cleanup(func() { timezone.SetLocation(previous) })

	return loc
}

func TestNowUsesAppLocation(t *testing.T) {
	loc := useKolkata(t)

	assert.Equal(t, loc, timezone.Now().Location())
}

func TestFormat(t *testing.T) {
	useKolkata(t)

	utc := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-10-20 01:30", timezone.Format(utc, "2006-01-02 15:04"))
}

func TestParse(t *testing.T) {
	useKolkata(t)

	parsed, err := timezone.Parse("2006-01-02", "2026-10-20")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC), parsed.UTC())
}

func TestDayBounds(t *testing.T) {
	loc := useKolkata(t)

	at := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, loc), timezone.StartOfDay(at))
	assert.Equal(t, time.Date(2026, 10, 20, 23, 59, 59, 999999999, loc), timezone.EndOfDay(at))
}
