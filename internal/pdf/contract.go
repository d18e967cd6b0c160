package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ContractData feeds the rental contract document.
type ContractData struct {
	CompanyName     string
	ReservationCode string
	CustomerName    string
	CustomerLicense string
	VehicleLabel    string
	LicensePlate    string
	StartDate       string
	EndDate         string
	DailyRateCents  int
	DepositStatus   string
	Notes           string
}

// RentalContract renders the one-page rental contract as PDF bytes.
func RentalContract(data ContractData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Rental contract %s", data.ReservationCode), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 12, data.CompanyName)
	doc.Ln(14)

	doc.SetFont("Helvetica", "B", 13)
	doc.Cell(0, 8, fmt.Sprintf("Rental contract - reservation %s", data.ReservationCode))
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	row("Customer", data.CustomerName)
	row("Driving license", data.CustomerLicense)
	row("Vehicle", data.VehicleLabel)
	row("License plate", data.LicensePlate)
	row("Pick-up date", data.StartDate)
	row("Return date", data.EndDate)
	row("Daily rate", formatEuro(data.DailyRateCents))
	if data.DepositStatus != "" {
		row("Security deposit", data.DepositStatus)
	}

	if data.Notes != "" {
		doc.Ln(4)
		doc.SetFont("Helvetica", "B", 11)
		doc.Cell(0, 7, "Notes")
		doc.Ln(7)
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, data.Notes, "", "L", false)
	}

	doc.Ln(18)
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(90, 7, "Signature of the renter", "T", 0, "L", false, 0, "")
	doc.CellFormat(10, 7, "", "", 0, "L", false, 0, "")
	doc.CellFormat(0, 7, fmt.Sprintf("For %s", data.CompanyName), "T", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering contract: %w", err)
	}
	return buf.Bytes(), nil
}

// DamageCheckForm renders the pick-up/return inspection sheet.
func DamageCheckForm(data ContractData) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Damage check %s", data.ReservationCode), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, fmt.Sprintf("%s - vehicle inspection", data.CompanyName))
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	doc.Cell(0, 7, fmt.Sprintf("Reservation %s, vehicle %s (%s)", data.ReservationCode, data.VehicleLabel, data.LicensePlate))
	doc.Ln(10)

	sections := []string{"Bodywork", "Interior", "Tyres", "Lights", "Fuel level", "Odometer reading"}
	for _, section := range sections {
		doc.SetFont("Helvetica", "B", 11)
		doc.Cell(0, 7, section)
		doc.Ln(7)
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 14, "", "1", 1, "L", false, 0, "")
		doc.Ln(3)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering damage check: %w", err)
	}
	return buf.Bytes(), nil
}

func formatEuro(cents int) string {
	return fmt.Sprintf("EUR %d.%02d", cents/100, cents%100)
}
