package pdf

import (
	"bytes"
	"testing"
)

func testData() ContractData {
	return ContractData{
		CompanyName:     "Noleggio",
		ReservationCode: "AB12CD34",
		CustomerName:    "Mario Rossi",
		CustomerLicense: "RM1234567",
		VehicleLabel:    "Fiat Panda",
		LicensePlate:    "AB123CD",
		StartDate:       "2024-06-01",
		EndDate:         "2024-06-10",
		DailyRateCents:  4550,
		DepositStatus:   "paid",
		Notes:           "Child seat included",
	}
}

func TestRentalContractProducesPDF(t *testing.T) {
	out, err := RentalContract(testData())
	if err != nil {
		t.Fatalf("RentalContract: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header, got %q", out[:8])
	}
	if len(out) < 500 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestDamageCheckFormProducesPDF(t *testing.T) {
	out, err := DamageCheckForm(testData())
	if err != nil {
		t.Fatalf("DamageCheckForm: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with a PDF header, got %q", out[:8])
	}
}

func TestFormatEuro(t *testing.T) {
	cases := map[int]string{
		4550:  "EUR 45.50",
		100:   "EUR 1.00",
		9:     "EUR 0.09",
		10000: "EUR 100.00",
	}
	for cents, want := range cases {
		if got := formatEuro(cents); got != want {
			t.Errorf("formatEuro(%d) = %q, want %q", cents, got, want)
		}
	}
}
