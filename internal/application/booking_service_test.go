package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyttelaget/cabin-booking/internal/domain"
	bookingDomain "github.com/hyttelaget/cabin-booking/internal/domain/booking"
	cabinDomain "github.com/hyttelaget/cabin-booking/internal/domain/cabin"
	profileDomain "github.com/hyttelaget/cabin-booking/internal/domain/profile"
	"github.com/hyttelaget/cabin-booking/internal/events"
)

type bookingFixture struct {
	service   *BookingService
	bookings  *fakeBookingRepo
	cabins    *fakeCabinRepo
	publisher *fakePublisher
	cabinID   uuid.UUID
	alice     uuid.UUID
	bob       uuid.UUID
	admin     uuid.UUID
	start     time.Time
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	bookings := newFakeBookingRepo()
	cabins := newFakeCabinRepo()
	profiles := newFakeProfileRepo()
	publisher := &fakePublisher{}

	cab, err := cabinDomain.NewCabin("Fjellhytta", "", 4, 150, "")
	require.NoError(t, err)
	require.NoError(t, cabins.Save(context.Background(), cab))

	alice, err := profileDomain.NewProfile(uuid.New(), "alice@example.com", "Alice")
	require.NoError(t, err)
	require.NoError(t, profiles.Save(context.Background(), alice))

	bob, err := profileDomain.NewProfile(uuid.New(), "bob@example.com", "Bob")
	require.NoError(t, err)
	require.NoError(t, profiles.Save(context.Background(), bob))

	admin, err := profileDomain.NewProfile(uuid.New(), "admin@example.com", "Admin")
	require.NoError(t, err)
	admin.SetAdmin(true)
	require.NoError(t, profiles.Save(context.Background(), admin))

	svc := NewBookingService(bookings, cabins, profiles, publisher, zap.NewNop())

	return &bookingFixture{
		service:   svc,
		bookings:  bookings,
		cabins:    cabins,
		publisher: publisher,
		cabinID:   cab.ID(),
		alice:     alice.ID(),
		bob:       bob.ID(),
		admin:     admin.ID(),
		start:     time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour),
	}
}

func (f *bookingFixture) create(t *testing.T, userID uuid.UUID, startOffset, endOffset, guests int) *BookingDTO {
	t.Helper()
	dto, err := f.service.Create(context.Background(), userID, CreateBookingCommand{
		CabinID:        f.cabinID,
		StartDate:      f.start.AddDate(0, 0, startOffset),
		EndDate:        f.start.AddDate(0, 0, endOffset),
		NumberOfGuests: guests,
	})
	require.NoError(t, err)
	return dto
}

func TestBookingService_Create(t *testing.T) {
	f := newBookingFixture(t)

	dto := f.create(t, f.alice, 0, 4, 2)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "unpaid", dto.PaymentStatus)
	assert.Nil(t, dto.PaymentAmount)
	assert.Equal(t, "Fjellhytta", dto.CabinName)
	assert.Equal(t, "Alice", dto.UserName)
	assert.Equal(t, []string{events.BookingCreated}, f.publisher.eventTypes())
}

func TestBookingService_Create_DefaultsToOneGuest(t *testing.T) {
	f := newBookingFixture(t)

	dto := f.create(t, f.alice, 0, 2, 0)

	assert.Equal(t, 1, dto.NumberOfGuests)
}

func TestBookingService_Create_UnknownCabin(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.Create(context.Background(), f.alice, CreateBookingCommand{
		CabinID:   uuid.New(),
		StartDate: f.start,
		EndDate:   f.start.AddDate(0, 0, 2),
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestBookingService_Create_CapacityAgainstApproved(t *testing.T) {
	f := newBookingFixture(t)

	first := f.create(t, f.alice, 0, 4, 3)
	_, err := f.service.Approve(context.Background(), first.ID)
	require.NoError(t, err)

	// Two more guests inside the approved window exceed capacity 4.
	_, err = f.service.Create(context.Background(), f.bob, CreateBookingCommand{
		CabinID:        f.cabinID,
		StartDate:      f.start.AddDate(0, 0, 2),
		EndDate:        f.start.AddDate(0, 0, 3),
		NumberOfGuests: 2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available space: 1 guests, requested: 2 guests")

	// One guest still fits.
	second := f.create(t, f.bob, 2, 3, 1)
	assert.Equal(t, "pending", second.Status)
}

func TestBookingService_Create_PendingDoesNotBlock(t *testing.T) {
	f := newBookingFixture(t)

	f.create(t, f.alice, 0, 4, 4)

	// The first request is still pending, so the same window stays open.
	dto := f.create(t, f.bob, 0, 4, 4)
	assert.Equal(t, "pending", dto.Status)
}

func TestBookingService_Approve_ComputesAmount(t *testing.T) {
	f := newBookingFixture(t)

	created := f.create(t, f.alice, 0, 4, 2) // 4 nights

	dto, err := f.service.Approve(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, "approved", dto.Status)
	require.NotNil(t, dto.PaymentAmount)
	assert.Equal(t, 600.0, *dto.PaymentAmount)
	assert.Equal(t, "unpaid", dto.PaymentStatus)
	assert.Contains(t, f.publisher.eventTypes(), events.BookingApproved)
}

func TestBookingService_Approve_RejectsOverbooking(t *testing.T) {
	f := newBookingFixture(t)

	first := f.create(t, f.alice, 0, 4, 3)
	second := f.create(t, f.bob, 0, 4, 3)

	_, err := f.service.Approve(context.Background(), first.ID)
	require.NoError(t, err)

	// Approving the second would put six guests in a four-guest cabin.
	_, err = f.service.Approve(context.Background(), second.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cabin capacity exceeded")
}

func TestBookingService_Reject(t *testing.T) {
	f := newBookingFixture(t)

	created := f.create(t, f.alice, 0, 4, 2)

	dto, err := f.service.Reject(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", dto.Status)
	assert.Contains(t, f.publisher.eventTypes(), events.BookingRejected)
}

func TestBookingService_Update_NonAdminCannotSetReservedFields(t *testing.T) {
	f := newBookingFixture(t)
	created := f.create(t, f.alice, 0, 4, 2)
	ctx := context.Background()

	status := "approved"
	_, err := f.service.Update(ctx, f.alice, false, created.ID, UpdateBookingCommand{Status: &status})
	require.Error(t, err)
	assert.Equal(t, "Only admins can change booking status", err.Error())

	otherCabin := uuid.New()
	_, err = f.service.Update(ctx, f.alice, false, created.ID, UpdateBookingCommand{CabinID: &otherCabin})
	require.Error(t, err)
	assert.Equal(t, "Only admins can change booking cabin", err.Error())

	paid := "paid"
	_, err = f.service.Update(ctx, f.alice, false, created.ID, UpdateBookingCommand{PaymentStatus: &paid})
	require.Error(t, err)
	assert.Equal(t, "Only admins can change payment status", err.Error())
}

func TestBookingService_Update_OwnerEditResetsToPending(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)
	_, err := f.service.Approve(ctx, created.ID)
	require.NoError(t, err)

	newEnd := f.start.AddDate(0, 0, 6)
	dto, err := f.service.Update(ctx, f.alice, false, created.ID, UpdateBookingCommand{
		EndDate: &newEnd,
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "unpaid", dto.PaymentStatus)
	assert.Nil(t, dto.PaymentAmount)
}

func TestBookingService_Update_AdminEditKeepsDecision(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)
	_, err := f.service.Approve(ctx, created.ID)
	require.NoError(t, err)

	guests := 3
	dto, err := f.service.Update(ctx, f.admin, true, created.ID, UpdateBookingCommand{
		NumberOfGuests: &guests,
	})
	require.NoError(t, err)

	assert.Equal(t, "approved", dto.Status)
	assert.Equal(t, 3, dto.NumberOfGuests)
}

func TestBookingService_Update_NotesOnlyKeepsStatus(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)
	_, err := f.service.Approve(ctx, created.ID)
	require.NoError(t, err)

	notes := "bringing the dog"
	dto, err := f.service.Update(ctx, f.alice, false, created.ID, UpdateBookingCommand{Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, "approved", dto.Status)
	assert.Equal(t, "bringing the dog", dto.Notes)
}

func TestBookingService_Update_AdminSetsStatus(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)

	status := "approved"
	dto, err := f.service.Update(ctx, f.admin, true, created.ID, UpdateBookingCommand{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "approved", dto.Status)
	require.NotNil(t, dto.PaymentAmount)
	assert.Equal(t, 600.0, *dto.PaymentAmount)

	// Back to pending clears the computed amount.
	status = "pending"
	dto, err = f.service.Update(ctx, f.admin, true, created.ID, UpdateBookingCommand{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "pending", dto.Status)
	assert.Nil(t, dto.PaymentAmount)
}

func TestBookingService_Update_StrangerForbidden(t *testing.T) {
	f := newBookingFixture(t)

	created := f.create(t, f.alice, 0, 4, 2)

	notes := "mine now"
	_, err := f.service.Update(context.Background(), f.bob, false, created.ID, UpdateBookingCommand{Notes: &notes})
	assert.True(t, domain.IsForbidden(err))
}

func TestBookingService_Update_CapacityOnReschedule(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first := f.create(t, f.alice, 0, 4, 3)
	_, err := f.service.Approve(ctx, first.ID)
	require.NoError(t, err)

	second := f.create(t, f.bob, 10, 12, 2)

	// Moving the second stay into the approved window must fail.
	newStart := f.start.AddDate(0, 0, 2)
	newEnd := f.start.AddDate(0, 0, 3)
	_, err = f.service.Update(ctx, f.bob, false, second.ID, UpdateBookingCommand{
		StartDate: &newStart,
		EndDate:   &newEnd,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available space: 1 guests, requested: 2 guests")
}

func TestBookingService_MarkPaid(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)

	// Pending bookings cannot be paid.
	_, err := f.service.MarkPaid(ctx, f.alice, false, created.ID, "")
	require.Error(t, err)
	assert.Equal(t, "Booking must be approved before payment", err.Error())

	_, err = f.service.Approve(ctx, created.ID)
	require.NoError(t, err)

	dto, err := f.service.MarkPaid(ctx, f.alice, false, created.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "paid", dto.PaymentStatus)
	assert.Equal(t, created.ID.String(), dto.VippsTransactionID)
	assert.NotNil(t, dto.PaidAt)
	assert.Contains(t, f.publisher.eventTypes(), events.BookingPaid)
}

func TestBookingService_MarkPaid_StrangerForbidden(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)
	_, err := f.service.Approve(ctx, created.ID)
	require.NoError(t, err)

	_, err = f.service.MarkPaid(ctx, f.bob, false, created.ID, "")
	assert.True(t, domain.IsForbidden(err))
}

func TestBookingService_Delete(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	owned := f.create(t, f.alice, 0, 4, 2)
	require.NoError(t, f.service.Delete(ctx, f.alice, false, owned.ID))
	_, err := f.service.Get(ctx, f.alice, false, owned.ID)
	assert.True(t, domain.IsNotFound(err))

	// Admin may delete someone else's booking at any status.
	other := f.create(t, f.alice, 0, 4, 2)
	_, err = f.service.Approve(ctx, other.ID)
	require.NoError(t, err)
	require.NoError(t, f.service.Delete(ctx, f.admin, true, other.ID))

	// A third party may not.
	third := f.create(t, f.alice, 0, 4, 2)
	err = f.service.Delete(ctx, f.bob, false, third.ID)
	assert.True(t, domain.IsForbidden(err))
}

func TestBookingService_GetAndList(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)
	f.create(t, f.bob, 10, 12, 1)

	// Owner and admin can read; a stranger cannot.
	_, err := f.service.Get(ctx, f.alice, false, created.ID)
	assert.NoError(t, err)
	_, err = f.service.Get(ctx, f.admin, true, created.ID)
	assert.NoError(t, err)
	_, err = f.service.Get(ctx, f.bob, false, created.ID)
	assert.True(t, domain.IsForbidden(err))

	own, err := f.service.ListForUser(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, created.ID, own[0].ID)

	all, err := f.service.ListAll(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
	assert.Len(t, all.Items, 2)
}

func TestBookingService_CapacityChecksLockCabin(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, 0, 4, 2)
	assert.Equal(t, []uuid.UUID{f.cabinID}, f.bookings.lockedCabins)

	_, err := f.service.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.cabinID, f.cabinID}, f.bookings.lockedCabins)

	// A reschedule re-checks capacity, so it locks again; a notes-only edit
	// does not touch occupancy and takes no lock.
	newEnd := f.start.AddDate(0, 0, 6)
	_, err = f.service.Update(ctx, f.alice, false, created.ID, UpdateBookingCommand{EndDate: &newEnd})
	require.NoError(t, err)
	assert.Len(t, f.bookings.lockedCabins, 3)

	notes := "no lock needed"
	_, err = f.service.Update(ctx, f.alice, false, created.ID, UpdateBookingCommand{Notes: &notes})
	require.NoError(t, err)
	assert.Len(t, f.bookings.lockedCabins, 3)
}

func TestBookingService_Update_InvalidDates(t *testing.T) {
	f := newBookingFixture(t)

	created := f.create(t, f.alice, 2, 4, 2)

	// End before start after the partial merge.
	newEnd := f.start
	_, err := f.service.Update(context.Background(), f.alice, false, created.ID, UpdateBookingCommand{
		EndDate: &newEnd,
	})
	require.Error(t, err)
	assert.Equal(t, "End date must be after start date", err.Error())
}

var _ bookingDomain.Repository = (*fakeBookingRepo)(nil)
