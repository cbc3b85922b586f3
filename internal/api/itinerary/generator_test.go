package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTripDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2026, 6, 1), date(2026, 6, 1), 1},
		{"end before start clamps to one", date(2026, 6, 5), date(2026, 6, 1), 1},
		{"two midnights apart", date(2026, 6, 1), date(2026, 6, 3), 2},
		{"partial day rounds up", date(2026, 6, 1), date(2026, 6, 3).Add(6 * time.Hour), 3},
		{"week", date(2026, 6, 1), date(2026, 6, 8), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TripDays(tt.start, tt.end))
		})
	}
}

func TestGenerate_ParisThreeDays(t *testing.T) {
	// 3 days, 900 budget, 3 travelers.
	activities := Generate("Paris", date(2026, 6, 1), date(2026, 6, 4), 900, 3)

	require.Len(t, activities, 5)

	assert.Equal(t, "Arrival & Check-in", activities[0].Title)
	assert.Equal(t, 1, activities[0].Day)
	assert.Equal(t, "14:00", activities[0].Time)
	assert.Equal(t, 300.0, activities[0].Cost)

	assert.Equal(t, "Dinner", activities[1].Title)
	assert.Equal(t, 1, activities[1].Day)
	assert.Equal(t, "19:00", activities[1].Time)
	assert.Equal(t, 60.0, activities[1].Cost)

	assert.Equal(t, "Explore Paris - Day 2", activities[2].Title)
	assert.Equal(t, "09:00", activities[2].Time)
	assert.Equal(t, 300.0, activities[2].Cost)

	assert.Equal(t, "Dinner", activities[3].Title)
	assert.Equal(t, 2, activities[3].Day)

	assert.Equal(t, "Departure", activities[4].Title)
	assert.Equal(t, 3, activities[4].Day)
	assert.Equal(t, "11:00", activities[4].Time)
	assert.Equal(t, 300.0, activities[4].Cost)
}

func TestGenerate_OneDayTrip(t *testing.T) {
	activities := Generate("Agra", date(2026, 6, 1), date(2026, 6, 1), 500, 2)

	// Arrival and departure collapse into a single arrival day with no
	// dinner.
	require.Len(t, activities, 1)
	assert.Equal(t, "Arrival & Check-in", activities[0].Title)
	assert.Equal(t, 500.0, activities[0].Cost)
}

func TestGenerate_ActivityCount(t *testing.T) {
	for days := 1; days <= 10; days++ {
		activities := Generate("Rome", date(2026, 6, 1), date(2026, 6, 1+days), 1000, 2)

		want := 2*days - 1
		if days == 1 {
			want = 1
		}
		assert.Len(t, activities, want, "days=%d", days)
	}
}

func TestGenerate_ExactlyOneArrivalAndDeparture(t *testing.T) {
	activities := Generate("Cusco", date(2026, 3, 10), date(2026, 3, 15), 2500, 4)

	arrivals, departures := 0, 0
	for _, a := range activities {
		switch a.Title {
		case "Arrival & Check-in":
			arrivals++
		case "Departure":
			departures++
		}
	}
	assert.Equal(t, 1, arrivals)
	assert.Equal(t, 1, departures)
}

func TestGenerate_LastDayHasNoDinner(t *testing.T) {
	activities := Generate("Petra", date(2026, 2, 1), date(2026, 2, 5), 1200, 2)

	days := TripDays(date(2026, 2, 1), date(2026, 2, 5))
	for _, a := range activities {
		if a.Title == "Dinner" {
			assert.Less(t, a.Day, days)
		}
	}
}

func TestGenerate_CostsAreGroupMultiples(t *testing.T) {
	groupSize := 7
	activities := Generate("Kyoto", date(2026, 4, 1), date(2026, 4, 6), 3333, groupSize)

	for _, a := range activities {
		perPerson := a.Cost / float64(groupSize)
		assert.Equal(t, float64(int64(perPerson)), perPerson,
			"%s cost %v is not a whole per-person amount", a.Title, a.Cost)
	}
}

func TestGenerate_PrimaryCostsSumToBudget(t *testing.T) {
	// Arrival, explore and departure slots split the budget evenly
	// across days, so their costs sum back to the budget up to the
	// per-day whole-unit rounding (at most half a unit per traveler
	// per day).
	tests := []struct {
		name      string
		budget    float64
		days      int
		groupSize int
	}{
		{"uneven split", 1000, 3, 3},
		{"prime everything", 997, 5, 7},
		{"solo traveler", 450, 4, 1},
		{"single day", 123, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := date(2026, 6, 1)
			end := start.AddDate(0, 0, tt.days)
			if tt.days == 1 {
				end = start
			}
			activities := Generate("Lisbon", start, end, tt.budget, tt.groupSize)

			var sum float64
			for _, a := range activities {
				if a.Title != "Dinner" {
					sum += a.Cost
				}
			}
			delta := float64(tt.days*tt.groupSize) / 2
			assert.InDelta(t, tt.budget, sum, delta,
				"primary costs %v should approximate budget %v", sum, tt.budget)
		})
	}
}

func TestGenerate_ZeroGroupSizeClamped(t *testing.T) {
	activities := Generate("Lima", date(2026, 6, 1), date(2026, 6, 3), 400, 0)
	require.NotEmpty(t, activities)
	assert.Equal(t, 200.0, activities[0].Cost)
}
