package service

import (
	"context"
	"sort"
	"sync"

	"travelapp/internal/entity"
	"travelapp/pkg/chapa"
)

// In-memory fakes for the repository interfaces. They reproduce the
// constraints the real Postgres layer enforces: duplicate booking windows,
// one live payment per booking, one review per booking.

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[int64]*entity.Listing
	bookings *fakeBookingRepo
	nextID   int64
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[int64]*entity.Listing), nextID: 1}
}

func (r *fakeListingRepo) Create(_ context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing.ID = r.nextID
	r.nextID++
	cp := *listing
	r.listings[listing.ID] = &cp
	return nil
}

func (r *fakeListingRepo) GetByID(_ context.Context, id int64) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[id]
	if !ok {
		return nil, entity.ErrListingNotFound
	}
	cp := *listing
	return &cp, nil
}

func (r *fakeListingRepo) GetAll(_ context.Context) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Listing
	for _, l := range r.listings {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeListingRepo) Update(_ context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[listing.ID]; !ok {
		return entity.ErrListingNotFound
	}
	cp := *listing
	r.listings[listing.ID] = &cp
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return entity.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) GetDetails(ctx context.Context, id int64) (*entity.ListingDetails, error) {
	listing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.ListingDetails{Listing: *listing, AmenityItems: listing.AmenitiesList()}, nil
}

func (r *fakeListingRepo) GetAvailable(ctx context.Context, from, to entity.DateOnly) ([]*entity.Listing, error) {
	all, _ := r.GetAll(ctx)
	var out []*entity.Listing
	for _, l := range all {
		if !l.IsActive || from.Before(l.AvailableFrom.Time) || to.After(l.AvailableTo.Time) {
			continue
		}
		if r.hasBlockingBooking(ctx, l.ID, from, to) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// hasBlockingBooking mirrors the repository's overlap rule: pending and
// confirmed bookings block the window, cancelled and completed do not.
func (r *fakeListingRepo) hasBlockingBooking(ctx context.Context, listingID int64, from, to entity.DateOnly) bool {
	if r.bookings == nil {
		return false
	}
	bookings, _ := r.bookings.GetByListingID(ctx, listingID)
	for _, b := range bookings {
		blocking := b.Status == entity.BookingStatusPending || b.Status == entity.BookingStatusConfirmed
		if blocking && b.CheckIn.Before(to.Time) && b.CheckOut.After(from.Time) {
			return true
		}
	}
	return false
}

func (r *fakeListingRepo) GetByOwnerID(ctx context.Context, ownerID int64) ([]*entity.Listing, error) {
	all, _ := r.GetAll(ctx)
	var out []*entity.Listing
	for _, l := range all {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) SearchByLocation(ctx context.Context, city, country string) ([]*entity.Listing, error) {
	all, _ := r.GetAll(ctx)
	var out []*entity.Listing
	for _, l := range all {
		if (city == "" || l.City == city) && (country == "" || l.Country == country) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) RefreshRating(_ context.Context, listingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[listingID]; !ok {
		return entity.ErrListingNotFound
	}
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[int64]*entity.Booking
	nextID   int64
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[int64]*entity.Booking), nextID: 1}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ListingID == booking.ListingID &&
			b.CheckIn.Equal(booking.CheckIn.Time) &&
			b.CheckOut.Equal(booking.CheckOut.Time) {
			return entity.ErrDuplicateBookingWindow
		}
	}
	booking.ID = r.nextID
	r.nextID++
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int64) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, entity.ErrBookingNotFound
	}
	cp := *booking
	return &cp, nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return entity.ErrBookingNotFound
	}
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status entity.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return entity.ErrBookingNotFound
	}
	booking.Status = status
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return entity.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *fakeBookingRepo) GetAll(_ context.Context) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBookingRepo) GetByGuestID(ctx context.Context, guestID int64) ([]*entity.Booking, error) {
	all, _ := r.GetAll(ctx)
	var out []*entity.Booking
	for _, b := range all {
		if b.GuestID == guestID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByListingID(ctx context.Context, listingID int64) ([]*entity.Booking, error) {
	all, _ := r.GetAll(ctx)
	var out []*entity.Booking
	for _, b := range all {
		if b.ListingID == listingID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByStatus(ctx context.Context, status entity.BookingStatus) ([]*entity.Booking, error) {
	all, _ := r.GetAll(ctx)
	var out []*entity.Booking
	for _, b := range all {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CompleteFinished(_ context.Context, before entity.DateOnly) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.bookings {
		if b.Status == entity.BookingStatusConfirmed && !b.CheckOut.After(before.Time) {
			b.Status = entity.BookingStatusCompleted
			count++
		}
	}
	return count, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[int64]*entity.Review
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[int64]*entity.Review), nextID: 1}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookingID == review.BookingID {
			return entity.ErrReviewAlreadyExists
		}
	}
	review.ID = r.nextID
	r.nextID++
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id int64) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, entity.ErrReviewNotFound
	}
	cp := *review
	return &cp, nil
}

func (r *fakeReviewRepo) GetByListingID(_ context.Context, listingID int64) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.reviews {
		if rv.ListingID == listingID {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) GetByBookingID(_ context.Context, bookingID int64) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookingID == bookingID {
			cp := *rv
			return &cp, nil
		}
	}
	return nil, entity.ErrReviewNotFound
}

func (r *fakeReviewRepo) GetAll(_ context.Context) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Review
	for _, rv := range r.reviews {
		cp := *rv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[review.ID]; !ok {
		return entity.ErrReviewNotFound
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return entity.ErrReviewNotFound
	}
	delete(r.reviews, id)
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[int64]*entity.Payment
	bookings *fakeBookingRepo
	nextID   int64
}

func newFakePaymentRepo(bookings *fakeBookingRepo) *fakePaymentRepo {
	return &fakePaymentRepo{
		payments: make(map[int64]*entity.Payment),
		bookings: bookings,
		nextID:   1,
	}
}

func (r *fakePaymentRepo) CreatePending(ctx context.Context, payment *entity.Payment) error {
	if _, err := r.bookings.GetByID(ctx, payment.BookingID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.BookingID != payment.BookingID {
			continue
		}
		switch p.Status {
		case entity.PaymentStatusSuccess:
			return entity.ErrPaymentAlreadySettled
		case entity.PaymentStatusInitiated, entity.PaymentStatusPending:
			return entity.ErrPaymentInProgress
		}
	}
	payment.ID = r.nextID
	r.nextID++
	if payment.Status == "" {
		payment.Status = entity.PaymentStatusInitiated
	}
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id int64) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, entity.ErrPaymentNotFound
	}
	cp := *payment
	return &cp, nil
}

func (r *fakePaymentRepo) GetByTxRef(_ context.Context, txRef string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.TxRef == txRef {
			cp := *p
			return &cp, nil
		}
	}
	return nil, entity.ErrPaymentNotFound
}

func (r *fakePaymentRepo) GetLatestByBooking(_ context.Context, bookingID int64) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Payment
	for _, p := range r.payments {
		if p.BookingID == bookingID && (latest == nil || p.ID > latest.ID) {
			latest = p
		}
	}
	if latest == nil {
		return nil, entity.ErrPaymentNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakePaymentRepo) UpdateStatus(_ context.Context, id int64, status entity.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok || payment.Status == entity.PaymentStatusSuccess {
		return entity.ErrPaymentNotFound
	}
	payment.Status = status
	return nil
}

func (r *fakePaymentRepo) SetGatewayRef(_ context.Context, id int64, gatewayRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return entity.ErrPaymentNotFound
	}
	payment.GatewayRef = gatewayRef
	return nil
}

func (r *fakePaymentRepo) Settle(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	payment, ok := r.payments[id]
	if !ok {
		r.mu.Unlock()
		return false, entity.ErrPaymentNotFound
	}
	if payment.Status == entity.PaymentStatusSuccess {
		r.mu.Unlock()
		return false, nil
	}
	payment.Status = entity.PaymentStatusSuccess
	bookingID := payment.BookingID
	r.mu.Unlock()

	if err := r.bookings.UpdateStatus(ctx, bookingID, entity.BookingStatusConfirmed); err != nil {
		return false, err
	}
	return true, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return entity.ErrUserAlreadyExists
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return entity.ErrUserNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return entity.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeDispatcher records dispatched notifications
type fakeDispatcher struct {
	mu               sync.Mutex
	bookingCreated   []int64
	paymentConfirmed []int64
	err              error
}

func (d *fakeDispatcher) DispatchBookingCreated(_ context.Context, bookingID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.bookingCreated = append(d.bookingCreated, bookingID)
	return nil
}

func (d *fakeDispatcher) DispatchPaymentConfirmed(_ context.Context, bookingID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.paymentConfirmed = append(d.paymentConfirmed, bookingID)
	return nil
}

// fakeGateway is a scriptable PaymentGateway
type fakeGateway struct {
	mu            sync.Mutex
	initCalls     int
	verifyCalls   int
	initErr       error
	verifyErr     error
	verifyStatus  string
	lastInitReq   chapa.InitializeRequest
	lastVerifyRef string
}

func (g *fakeGateway) InitializeTransaction(_ context.Context, req chapa.InitializeRequest) (*chapa.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls++
	g.lastInitReq = req
	if g.initErr != nil {
		return nil, g.initErr
	}
	return &chapa.CheckoutSession{
		CheckoutURL: "https://checkout.example.com/" + req.TxRef,
		Ref:         req.TxRef,
	}, nil
}

func (g *fakeGateway) VerifyTransaction(_ context.Context, txRef string) (*chapa.VerifyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	g.lastVerifyRef = txRef
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	status := g.verifyStatus
	if status == "" {
		status = chapa.StatusSuccess
	}
	return &chapa.VerifyResult{TxRef: txRef, Status: status}, nil
}
