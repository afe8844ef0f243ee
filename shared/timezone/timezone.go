// Package timezone keeps every user facing timestamp in the configured APP_TIMEZONE.
// Storage stays in UTC; conversion happens at the edges.
package timezone

import (
	"seva/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	mu          sync.RWMutex
	appLocation *time.Location
	loadOnce    sync.Once
)

func load() {
	loadOnce.Do(func() {
		name := config.Get().App.Timezone
		if name == "" {
			log.Warn().Msg("No timezone configured, using UTC as default")

			name = "UTC"
		}

		loc, err := time.LoadLocation(name)
		if err != nil {
			log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

			loc = time.UTC
		}

		mu.Lock()
		if appLocation == nil {
			appLocation = loc
		}
		mu.Unlock()

		log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")
	})
}

// SetLocation overrides the configured zone.
func SetLocation(loc *time.Location) {
	loadOnce.Do(func() {})

	mu.Lock()
	appLocation = loc
	mu.Unlock()
}

func GetLocation() *time.Location {
	load()

	mu.RLock()
	defer mu.RUnlock()

	return appLocation
}

func Now() time.Time {
	return time.Now().In(GetLocation())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// Parse reads value as a wall clock time in the application zone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// StartOfDay is local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// EndOfDay is the last instant of the local day containing t.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
