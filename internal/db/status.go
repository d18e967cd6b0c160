package db

import "noleggio/internal/interval"

// allowedTransitions is the reservation status machine. Terminal states have
// no outgoing edges; the cron job and the workflow services both go through
// CanTransition before writing a status.
var allowedTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusReturned},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusReturned:  {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ClosedStatus reports whether a reservation in this status no longer
// occupies its vehicle. Closed reservations are excluded from every
// conflict and availability query.
func ClosedStatus(status string) bool {
	switch status {
	case StatusCancelled, StatusCompleted, StatusReturned:
		return true
	}
	return false
}

// Occupies reports whether the reservation blocks its vehicle's calendar:
// it must be live (not soft-deleted, not closed) and actually have a vehicle.
func (r *Reservation) Occupies() bool {
	return r.DeletedAt == nil && !ClosedStatus(r.Status) && r.VehicleID != nil
}

// Live reports whether the reservation is neither soft-deleted nor closed.
func (r *Reservation) Live() bool {
	return r.DeletedAt == nil && !ClosedStatus(r.Status)
}

// Range returns the occupied date interval of the reservation.
func (r *Reservation) Range() interval.DateRange {
	return interval.DateRange{Start: r.StartDate, End: r.EndDate}
}
