package repository

import (
	"sort"
	"sync"
	"time"

	"noleggio/internal/db"
	"noleggio/internal/interval"
)

// MemStore implements Store on plain maps. It backs the test suite and the
// STORAGE_DRIVER=memory development mode, and mirrors the SQL predicates of
// SQLStore exactly: same exclusion rules, same inclusive overlap math.
type MemStore struct {
	mu sync.RWMutex

	vehicles      map[int]*db.Vehicle
	customers     map[int]*db.Customer
	reservations  map[int]*db.Reservation
	expenses      map[int]*db.Expense
	documents     map[int]*db.Document
	notifications map[int]*db.Notification
	users         map[int]*db.User

	nextVehicleID      int
	nextCustomerID     int
	nextReservationID  int
	nextExpenseID      int
	nextDocumentID     int
	nextNotificationID int
	nextUserID         int
}

func NewMemStore() *MemStore {
	return &MemStore{
		vehicles:      make(map[int]*db.Vehicle),
		customers:     make(map[int]*db.Customer),
		reservations:  make(map[int]*db.Reservation),
		expenses:      make(map[int]*db.Expense),
		documents:     make(map[int]*db.Document),
		notifications: make(map[int]*db.Notification),
		users:         make(map[int]*db.User),
	}
}

// --- Vehicles ---

func (m *MemStore) CreateVehicle(v *db.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextVehicleID++
	v.ID = m.nextVehicleID
	if v.MaintenanceStatus == "" {
		v.MaintenanceStatus = db.MaintenanceOK
	}
	now := time.Now().UTC()
	v.CreatedAt, v.UpdatedAt = now, now
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemStore) GetVehicle(id int) (*db.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *MemStore) ListVehicles() ([]db.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var vehicles []db.Vehicle
	for _, v := range m.vehicles {
		vehicles = append(vehicles, *v)
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].LicensePlate < vehicles[j].LicensePlate })
	return vehicles, nil
}

func (m *MemStore) UpdateVehicle(v *db.Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.vehicles[v.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *v
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemStore) SetVehicleMaintenanceStatus(id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.MaintenanceStatus = status
	v.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemStore) DeleteVehicle(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(m.vehicles, id)
	return nil
}

// --- Customers ---

func (m *MemStore) CreateCustomer(c *db.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCustomerID++
	c.ID = m.nextCustomerID
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MemStore) GetCustomer(id int) (*db.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemStore) ListCustomers() ([]db.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var customers []db.Customer
	for _, c := range m.customers {
		customers = append(customers, *c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].FullName < customers[j].FullName })
	return customers, nil
}

func (m *MemStore) UpdateCustomer(c *db.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.customers[c.ID]
	if !ok {
		return ErrNotFound
	}
	cp := *c
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	m.customers[c.ID] = &cp
	return nil
}

func (m *MemStore) DeleteCustomer(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

// --- Reservations ---

func (m *MemStore) CreateReservation(r *db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextReservationID++
	r.ID = m.nextReservationID
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now
	cp := *r
	m.reservations[r.ID] = &cp
	return nil
}

func (m *MemStore) GetReservation(id int) (*db.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	if !ok || r.DeletedAt != nil {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemStore) GetReservationByCode(code string) (*db.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reservations {
		if r.Code == code && r.DeletedAt == nil {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemStore) ListReservations(f ReservationFilter) ([]db.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Reservation
	for _, r := range m.reservations {
		if r.DeletedAt != nil {
			continue
		}
		if f.VehicleID != 0 && (r.VehicleID == nil || *r.VehicleID != f.VehicleID) {
			continue
		}
		if f.CustomerID != 0 && (r.CustomerID == nil || *r.CustomerID != f.CustomerID) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if f.Date != "" && !r.Range().Contains(f.Date) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate > out[j].StartDate
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemStore) UpdateReservation(r *db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.reservations[r.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrNotFound
	}
	cp := *r
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	cp.DeletedAt = existing.DeletedAt
	m.reservations[r.ID] = &cp
	return nil
}

func (m *MemStore) UpdateReservationStatus(id int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok || r.DeletedAt != nil {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemStore) SetDepositInfo(id int, sessionID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok || r.DeletedAt != nil {
		return ErrNotFound
	}
	r.DepositSessionID = sessionID
	r.DepositStatus = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemStore) SoftDeleteReservation(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok || r.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	r.DeletedAt = &now
	r.UpdatedAt = now
	return nil
}

// --- Conflicts and availability ---

func (m *MemStore) CheckReservationConflicts(vehicleID int, startDate string, endDate *string, excludeID *int, isMaintenanceBlock bool) ([]db.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conflictsLocked(vehicleID, startDate, endDate, excludeID, isMaintenanceBlock), nil
}

func (m *MemStore) conflictsLocked(vehicleID int, startDate string, endDate *string, excludeID *int, isMaintenanceBlock bool) []db.Reservation {
	candidate := interval.DateRange{Start: startDate, End: endDate}
	var conflicts []db.Reservation
	for _, r := range m.reservations {
		if !r.Occupies() || *r.VehicleID != vehicleID {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if isMaintenanceBlock != (r.Type == db.TypeMaintenanceBlock) {
			continue
		}
		if candidate.Overlaps(r.Range()) {
			conflicts = append(conflicts, *r)
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].StartDate < conflicts[j].StartDate })
	return conflicts
}

func (m *MemStore) GetAvailableVehicles() ([]db.Vehicle, error) {
	today := interval.Today()
	return m.GetAvailableVehiclesInRange(today, today, nil)
}

func (m *MemStore) GetAvailableVehiclesInRange(startDate, endDate string, excludeVehicleID *int) ([]db.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	requested := interval.DateRange{Start: startDate, End: &endDate}
	blocked := make(map[int]bool)
	for _, r := range m.reservations {
		if !r.Occupies() || r.Type == db.TypeMaintenanceBlock {
			continue
		}
		if requested.Overlaps(r.Range()) {
			blocked[*r.VehicleID] = true
		}
	}

	var available []db.Vehicle
	for _, v := range m.vehicles {
		if v.MaintenanceStatus != db.MaintenanceOK {
			continue
		}
		if excludeVehicleID != nil && v.ID == *excludeVehicleID {
			continue
		}
		if blocked[v.ID] {
			continue
		}
		available = append(available, *v)
	}
	sort.Slice(available, func(i, j int) bool { return available[i].LicensePlate < available[j].LicensePlate })
	return available, nil
}

// --- Spare-vehicle workflow primitives ---

func (m *MemStore) GetLiveReplacementFor(originalReservationID int) (*db.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *db.Reservation
	for _, r := range m.reservations {
		if r.Type != db.TypeReplacement || !r.Live() {
			continue
		}
		if r.ReplacementForReservationID == nil || *r.ReplacementForReservationID != originalReservationID {
			continue
		}
		if found == nil || r.ID < found.ID {
			found = r
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

func (m *MemStore) ListPlaceholdersDueBy(cutoffDate string) ([]db.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Reservation
	for _, r := range m.reservations {
		if r.VehicleID != nil || !r.PlaceholderSpare || !r.Live() {
			continue
		}
		if r.StartDate <= cutoffDate {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

func (m *MemStore) AssignPlaceholder(reservationID, vehicleID int, endDate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[reservationID]
	if !ok || !r.Live() || r.VehicleID != nil || !r.PlaceholderSpare {
		return ErrNotFound
	}
	r.VehicleID = &vehicleID
	r.PlaceholderSpare = false
	r.EndDate = &endDate
	r.Status = db.StatusConfirmed
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemStore) ListOpenMaintenanceBlocks(vehicleID int) ([]db.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Reservation
	for _, r := range m.reservations {
		if r.Type != db.TypeMaintenanceBlock || !r.Occupies() || *r.VehicleID != vehicleID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

func (m *MemStore) CloseReservation(id int, endDate, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok || r.DeletedAt != nil {
		return ErrNotFound
	}
	r.EndDate = &endDate
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// --- Status roll-forward ---

func (m *MemStore) ListConfirmedStartingBy(date string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int
	for _, r := range m.reservations {
		if r.DeletedAt == nil && r.Status == db.StatusConfirmed && r.VehicleID != nil && r.StartDate <= date {
			ids = append(ids, r.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *MemStore) ListActiveStandardEndedBefore(date string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []int
	for _, r := range m.reservations {
		if r.DeletedAt == nil && r.Status == db.StatusActive && r.Type == db.TypeStandard &&
			r.EndDate != nil && *r.EndDate < date {
			ids = append(ids, r.ID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (m *MemStore) UpdateReservationStatuses(ids []int, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range ids {
		if r, ok := m.reservations[id]; ok && r.DeletedAt == nil {
			r.Status = status
			r.UpdatedAt = now
		}
	}
	return nil
}

// --- Expenses ---

func (m *MemStore) CreateExpense(e *db.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextExpenseID++
	e.ID = m.nextExpenseID
	e.CreatedAt = time.Now().UTC()
	cp := *e
	m.expenses[e.ID] = &cp
	return nil
}

func (m *MemStore) ListExpenses(vehicleID int) ([]db.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Expense
	for _, e := range m.expenses {
		if vehicleID != 0 && e.VehicleID != vehicleID {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IncurredDate != out[j].IncurredDate {
			return out[i].IncurredDate > out[j].IncurredDate
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemStore) DeleteExpense(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

// --- Documents ---

func (m *MemStore) CreateDocument(d *db.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextDocumentID++
	d.ID = m.nextDocumentID
	d.CreatedAt = time.Now().UTC()
	cp := *d
	m.documents[d.ID] = &cp
	return nil
}

func (m *MemStore) ListDocuments(reservationID, vehicleID int) ([]db.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Document
	for _, d := range m.documents {
		if reservationID != 0 && (d.ReservationID == nil || *d.ReservationID != reservationID) {
			continue
		}
		if vehicleID != 0 && (d.VehicleID == nil || *d.VehicleID != vehicleID) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemStore) DeleteDocument(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

// --- Notifications ---

func (m *MemStore) CreateNotification(n *db.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextNotificationID++
	n.ID = m.nextNotificationID
	n.CreatedAt = time.Now().UTC()
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *MemStore) ListNotifications(unreadOnly bool) ([]db.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []db.Notification
	for _, n := range m.notifications {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MemStore) MarkNotificationRead(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return ErrNotFound
	}
	n.Read = true
	return nil
}

func (m *MemStore) MarkNotificationsReadForReservation(reservationID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ReservationID != nil && *n.ReservationID == reservationID {
			n.Read = true
		}
	}
	return nil
}

// --- Users ---

func (m *MemStore) CreateUser(u *db.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	m.nextUserID++
	u.ID = m.nextUserID
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MemStore) GetUserByEmail(email string) (*db.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// --- Backup ---

func (m *MemStore) ExportSnapshot() (*db.Snapshot, error) {
	snap := &db.Snapshot{ExportedAt: time.Now().UTC()}
	var err error
	if snap.Vehicles, err = m.ListVehicles(); err != nil {
		return nil, err
	}
	if snap.Customers, err = m.ListCustomers(); err != nil {
		return nil, err
	}
	if snap.Reservations, err = m.ListReservations(ReservationFilter{}); err != nil {
		return nil, err
	}
	if snap.Expenses, err = m.ListExpenses(0); err != nil {
		return nil, err
	}
	return snap, nil
}
