package itinerary

import (
	"fmt"
	"math"
	"time"

	"github.com/ojasmehta/yatra/internal/types"
)

// Day-plan slot constants. Times are 24-hour HH:MM wall-clock slots,
// not timestamps.
const (
	arrivalTitle   = "Arrival & Check-in"
	arrivalTime    = "14:00"
	arrivalDesc    = "Arrive at destination and check into accommodation"
	departureTitle = "Departure"
	departureTime  = "11:00"
	departureDesc  = "Check out and depart"
	exploreTime    = "09:00"
	exploreDesc    = "Explore local attractions and enjoy local cuisine"
	dinnerTitle    = "Dinner"
	dinnerTime     = "19:00"
	dinnerDesc     = "Enjoy local cuisine"

	dinnerBudgetShare = 0.2
)

// TripDays converts a date range into a whole number of trip days.
// Partial days count as full days, and a trip is never shorter than
// one day even when end precedes start.
func TripDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// Generate produces the deterministic day-by-day plan for a trip.
// Costs are in the same currency as budget; each day's primary
// activity gets round(budget/days/groupSize)*groupSize and each dinner
// gets the same with a 20% budget share, so per-person costs are whole
// units. The last day has no dinner; a one-day trip is arrival only.
func Generate(destination string, start, end time.Time, budget float64, groupSize int) []types.Activity {
	days := TripDays(start, end)
	if groupSize < 1 {
		groupSize = 1
	}

	primaryCost := math.Round(budget/float64(days)/float64(groupSize)) * float64(groupSize)
	dinnerCost := math.Round(budget*dinnerBudgetShare/float64(days)/float64(groupSize)) * float64(groupSize)

	activities := make([]types.Activity, 0, 2*days)
	for day := 1; day <= days; day++ {
		var a types.Activity
		switch {
		case day == 1:
			a = types.Activity{Day: day, Title: arrivalTitle, Description: arrivalDesc, Time: arrivalTime, Cost: primaryCost}
		case day == days:
			a = types.Activity{Day: day, Title: departureTitle, Description: departureDesc, Time: departureTime, Cost: primaryCost}
		default:
			a = types.Activity{
				Day:         day,
				Title:       fmt.Sprintf("Explore %s - Day %d", destination, day),
				Description: exploreDesc,
				Time:        exploreTime,
				Cost:        primaryCost,
			}
		}
		activities = append(activities, a)

		if day < days {
			activities = append(activities, types.Activity{
				Day:         day,
				Title:       dinnerTitle,
				Description: dinnerDesc,
				Time:        dinnerTime,
				Cost:        dinnerCost,
			})
		}
	}

	return activities
}
