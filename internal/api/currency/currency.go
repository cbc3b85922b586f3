// Package currency converts itinerary costs from the planning currency
// (USD) to the display currency (INR) at a fixed rate, and renders
// amounts with Indian-system digit grouping.
package currency

import (
	"math"
	"strconv"
	"strings"
)

// USDToINRRate is the fixed conversion rate applied to all costs.
const USDToINRRate = 83.13

// ConvertUSDToINR converts a USD amount to INR, rounded to the nearest
// whole rupee. Half-rupee values round away from zero.
func ConvertUSDToINR(usd float64) float64 {
	return math.Round(usd * USDToINRRate)
}

// FormatINR renders an amount as a rupee string, e.g. 1234567 ->
// "₹12,34,567". Grouping follows the Indian system: the last three
// digits, then groups of two.
func FormatINR(amount float64) string {
	rupees := int64(math.Round(amount))

	negative := rupees < 0
	if negative {
		rupees = -rupees
	}

	digits := strconv.FormatInt(rupees, 10)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString("₹")

	if len(digits) <= 3 {
		b.WriteString(digits)
		return b.String()
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	// Left-to-right over the head in groups of two, padding the first
	// group when the head has an odd length.
	if len(head)%2 == 1 {
		b.WriteByte(head[0])
		head = head[1:]
		if len(head) > 0 {
			b.WriteByte(',')
		}
	}
	for i := 0; i < len(head); i += 2 {
		b.WriteString(head[i : i+2])
		b.WriteByte(',')
	}

	b.WriteString(tail)
	return b.String()
}
