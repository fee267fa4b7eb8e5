package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking receipts as PDF.
type DocsService struct {
	DB        *sql.DB
	Now       utils.Clock
	RequestID string
	Loader    func(ctx context.Context, bookingID int64, rc domain.RequestContext) (models.BookingView, error)
}

// GenerateReceipt returns the receipt bytes and a download filename.
func (s DocsService) GenerateReceipt(ctx context.Context, bookingID int64, rc domain.RequestContext) ([]byte, string, error) {
	v, err := s.load(ctx, bookingID, rc)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("booking_id=%d", bookingID))
	return s.buildReceiptPDF(v)
}

func (s DocsService) load(ctx context.Context, bookingID int64, rc domain.RequestContext) (models.BookingView, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID, rc)
	}
	return BookingService{DB: s.DB, RequestID: s.RequestID}.View(ctx, bookingID, rc)
}

func (s DocsService) buildReceiptPDF(v models.BookingView) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Horizon Travels - Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Issued: "+utils.FormatDateTime(s.Now.Now()))
	pdf.Ln(10)

	section := func(title string, lines []string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, title)
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 12)
		for _, l := range lines {
			pdf.Cell(0, 7, l)
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	section("Customer", []string{
		fmt.Sprintf("Name     : %s", safe(v.UserName, "-")),
		fmt.Sprintf("Email    : %s", safe(v.UserEmail, "-")),
		fmt.Sprintf("Username : %s", safe(v.Username, "-")),
	})
	section(fmt.Sprintf("Booking #%d", v.BookingID), []string{
		fmt.Sprintf("Departure      : %s, %s", safe(v.DepartureLocation, "-"), utils.FormatDateTime(v.DepartureTime)),
		fmt.Sprintf("Arrival        : %s, %s", safe(v.ArrivalLocation, "-"), utils.FormatDateTime(v.ArrivalTime)),
		fmt.Sprintf("Travel Type    : %s", utils.Capitalize(safe(v.TravelType, "-"))),
		fmt.Sprintf("Price Category : %s", utils.Capitalize(safe(v.ClassType, "-"))),
		fmt.Sprintf("Status         : %s", utils.Capitalize(v.Status)),
	})

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Cost: "+poundsForPDF(v.Cost))
	pdf.Ln(9)
	if v.Status == models.BookingStatusCancelled {
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 7, "Refunded: "+poundsForPDF(v.RefundAmount))
		pdf.Ln(9)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Cancellations more than 60 days after booking are refunded in full, between 31 and 60 days at 50%, otherwise not refunded.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	name := v.Username
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("booking_%d", v.BookingID)
	}
	return buf.Bytes(), safeFilenamePart(name) + ".pdf", nil
}

// poundsForPDF spells the currency out; the core fonts are not UTF-8.
func poundsForPDF(v float64) string {
	return "GBP " + strings.Replace(utils.FormatPounds(v), "£", "", 1)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
