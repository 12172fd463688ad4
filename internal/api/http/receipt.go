package http

import (
	"bytes"
	"fmt"
	"time"

	"carrent-backend/internal/domain"

	"github.com/phpdave11/gofpdf"
)

var receiptNow = time.Now

// buildReceiptPDF renders a one page receipt. car and customer may be nil
// when they have since been removed.
func buildReceiptPDF(r *domain.Rental, car *domain.Car, customer *domain.Customer) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetTitle("Rental receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RENTAL RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Receipt No : R-%06d", r.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+receiptNow().UTC().Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Status     : "+string(r.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Customer:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	name := ""
	if customer != nil {
		name = customer.FullName
	}
	pdf.Cell(0, 7, fmt.Sprintf("%s (#%d)", safe(name, "-"), r.CustomerID))
	pdf.Ln(10)

	vehicle := fmt.Sprintf("Car #%d", r.CarID)
	if car != nil {
		vehicle = fmt.Sprintf("%s %s %d, %s, %s", car.Make, car.Model, car.Year, car.VehicleClass, car.Transmission)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "Vehicle : "+vehicle, "", "", false)
	pdf.Cell(0, 6, fmt.Sprintf("Period  : %s to %s (%d days)",
		r.StartDate.Format(domain.DateLayout), r.EndDate.Format(domain.DateLayout), r.DayCount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Daily rate : "+r.PricePerDayCents.String())
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+r.TotalAmountCents.String())
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("RECEIPT_%d.pdf", r.ID), nil
}

func safe(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
