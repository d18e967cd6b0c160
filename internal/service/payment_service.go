package service

import (
	"fmt"
	"time"

	"noleggio/internal/config"
	"noleggio/internal/db"
	"noleggio/internal/interval"
	"noleggio/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/refund"
)

// Deposit lifecycle on a reservation.
const (
	DepositStatusPending  = "pending"
	DepositStatusPaid     = "paid"
	DepositStatusRefunded = "refunded"
)

// depositRate is the fraction of the estimated rental total held as a
// security deposit when the booking is confirmed.
const depositRate = 0.30

// PaymentService handles the security-deposit flow through Stripe Checkout.
// With no secret key configured the whole flow is disabled and reservations
// confirm without a deposit.
type PaymentService struct {
	store repository.Store
	cfg   config.Config
}

func NewPaymentService(store repository.Store, cfg config.Config) *PaymentService {
	if cfg.StripeSecretKey != "" {
		stripe.Key = cfg.StripeSecretKey
	}
	return &PaymentService{store: store, cfg: cfg}
}

func (s *PaymentService) Enabled() bool {
	return s.cfg.StripeSecretKey != ""
}

// DepositAmountCents estimates the deposit for a reservation: a fraction of
// the daily rate times the booked days. Open-ended rentals are charged the
// deposit for a single day up front.
func (s *PaymentService) DepositAmountCents(res *db.Reservation) (int64, error) {
	if res.VehicleID == nil {
		return 0, fmt.Errorf("reservation %s has no vehicle assigned", res.Code)
	}
	vehicle, err := s.store.GetVehicle(*res.VehicleID)
	if err != nil {
		return 0, fmt.Errorf("error getting vehicle: %w", err)
	}

	days := 1
	if res.EndDate != nil {
		days = daysInclusive(res.StartDate, *res.EndDate)
	}
	amount := int64(float64(vehicle.DailyRateCents*days) * depositRate)
	if amount < 100 {
		amount = 100 // Stripe minimum charge
	}
	return amount, nil
}

// CreateDepositSession opens a Stripe Checkout session for the deposit and
// returns its ID. The caller persists it on the reservation.
func (s *PaymentService) CreateDepositSession(res *db.Reservation) (string, error) {
	amount, err := s.DepositAmountCents(res)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Security deposit for reservation %s", res.Code)),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.StripeSuccessURL),
		CancelURL:  stripe.String(s.cfg.StripeCancelURL),
	}
	params.AddMetadata("reservation_code", res.Code)

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("error creating checkout session: %w", err)
	}
	logrus.Infof("Deposit session %s created for reservation %s (%d cents)", sess.ID, res.Code, amount)
	return sess.ID, nil
}

// VerifyDepositSession polls Stripe for the session outcome and marks the
// deposit paid when the checkout completed.
func (s *PaymentService) VerifyDepositSession(res *db.Reservation) (string, error) {
	if res.DepositSessionID == "" {
		return "", fmt.Errorf("reservation %s has no deposit session", res.Code)
	}
	sess, err := session.Get(res.DepositSessionID, nil)
	if err != nil {
		return "", fmt.Errorf("error fetching checkout session: %w", err)
	}
	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid && res.DepositStatus != DepositStatusPaid {
		if err := s.store.SetDepositInfo(res.ID, res.DepositSessionID, DepositStatusPaid); err != nil {
			return "", fmt.Errorf("error saving deposit status: %w", err)
		}
		return DepositStatusPaid, nil
	}
	return res.DepositStatus, nil
}

// RefundDeposit refunds the payment behind the reservation's checkout
// session.
func (s *PaymentService) RefundDeposit(res *db.Reservation) error {
	if res.DepositSessionID == "" {
		return fmt.Errorf("reservation %s has no deposit session", res.Code)
	}
	sess, err := session.Get(res.DepositSessionID, nil)
	if err != nil {
		return fmt.Errorf("error fetching checkout session: %w", err)
	}
	if sess.PaymentIntent == nil {
		return fmt.Errorf("checkout session %s has no payment intent", res.DepositSessionID)
	}
	if _, err := refund.New(&stripe.RefundParams{PaymentIntent: stripe.String(sess.PaymentIntent.ID)}); err != nil {
		return fmt.Errorf("error refunding deposit: %w", err)
	}
	logrus.Infof("Deposit refunded for reservation %s", res.Code)
	return nil
}

// daysInclusive counts the calendar days covered by [start, end]. Malformed
// dates were already rejected by range validation, so parse errors collapse
// to a single day.
func daysInclusive(start, end string) int {
	s, err1 := parseDate(start)
	e, err2 := parseDate(end)
	if err1 != nil || err2 != nil || e.Before(s) {
		return 1
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func parseDate(d string) (time.Time, error) {
	return time.Parse(interval.DateLayout, d)
}
