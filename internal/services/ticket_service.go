package services

import (
	"bytes"
	"fmt"
	"strings"

	"backend/internal/domain"
	"backend/internal/domain/models"

	"github.com/phpdave11/gofpdf"
)

// BuildETicketPDF renders a printable ticket for a confirmed booking and
// returns the bytes plus a download filename.
func BuildETicketPDF(bk models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger    : %s", safe(bk.Username)),
		fmt.Sprintf("Bus          : %s", safe(bk.BusLabel())),
		fmt.Sprintf("Seat         : %s", safe(bk.SeatNumber)),
		fmt.Sprintf("Booked at    : %s", bk.BookingTime.Format("2006-01-02 15:04")),
		fmt.Sprintf("Booking code : TCK-%d-%s", bk.ID, safeFilenamePart(bk.SeatNumber)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This e-ticket is valid for one passenger (one seat). Please present it at departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render ticket", Err: err}
	}

	filename := fmt.Sprintf("ETICKET_%d_%s.pdf", bk.ID, safeFilenamePart(bk.Username+"_"+bk.SeatNumber))
	return buf.Bytes(), filename, nil
}

func safe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "X"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}
