package itinerary

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/ojasmehta/yatra/internal/api/currency"
	"github.com/ojasmehta/yatra/internal/types"
)

// RenderPDF renders an itinerary as an A4 document and returns the raw
// bytes, no filesystem involved.
func RenderPDF(it *types.Itinerary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// Header bar
	pdf.SetFillColor(21, 52, 72)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "Yatra", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, fmt.Sprintf("Trip plan for %s", it.Destination), "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	sectionHeader := func(title string) {
		pdf.SetFillColor(21, 52, 72)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	sectionHeader("Trip Overview")
	row("Destination", it.Destination)
	row("Dates", fmt.Sprintf("%s to %s",
		it.StartDate.Format("02 Jan 2006"), it.EndDate.Format("02 Jan 2006")))
	row("Travelers", fmt.Sprintf("%d", it.GroupSize))
	row("Budget", inr(it.Budget))
	pdf.Ln(4)

	sectionHeader("Day-by-Day Plan")

	var total float64
	lastDay := 0
	for _, a := range it.Activities {
		if a.Day != lastDay {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(21, 52, 72)
			pdf.CellFormat(170, 7, fmt.Sprintf("Day %d", a.Day), "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
			lastDay = a.Day
		}

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(18, 6, a.Time, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(110, 6, a.Title, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(42, 6, inr(a.Cost), "", 1, "R", false, 0, "")

		if a.Description != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(120, 120, 120)
			pdf.SetX(38)
			pdf.MultiCell(152, 5, a.Description, "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		total += a.Cost
	}
	pdf.Ln(4)

	pdf.SetFillColor(230, 238, 243)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(128, 9, "TOTAL", "", 0, "L", true, 0, "")
	pdf.CellFormat(42, 9, inr(total), "", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render itinerary PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// inr formats an amount with Indian grouping. The core PDF fonts carry
// no rupee glyph, so the symbol becomes "Rs.".
func inr(amount float64) string {
	return strings.Replace(currency.FormatINR(amount), "₹", "Rs. ", 1)
}
