package workers

import (
	"testing"
	"time"

	"github.com/travelnest/travelnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpireStalePayments(t *testing.T) {
	db := setupDB(t)
	scheduler := NewScheduler(db, NewNotifier(db))

	stale := models.Payment{
		BookingID:   1,
		Reference:   "TRV-STALE0000001",
		Amount:      600,
		Currency:    "ETB",
		Status:      models.PaymentStatusPending,
		InitiatedAt: time.Now().Add(-25 * time.Hour),
	}
	fresh := models.Payment{
		BookingID: 2,
		Reference: "TRV-FRESH0000001",
		Amount:    300,
		Currency:  "ETB",
		Status:    models.PaymentStatusPending,
	}
	processing := models.Payment{
		BookingID:   3,
		Reference:   "TRV-PROC00000001",
		Amount:      450,
		Currency:    "ETB",
		Status:      models.PaymentStatusProcessing,
		InitiatedAt: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Create(&fresh).Error)
	require.NoError(t, db.Create(&processing).Error)

	scheduler.ExpireStalePayments()

	var gotStale models.Payment
	require.NoError(t, db.First(&gotStale, stale.ID).Error)
	assert.Equal(t, models.PaymentStatusCancelled, gotStale.Status)

	// Recent pending rows and processing rows are untouched: processing means
	// the gateway accepted the transaction and only verify may settle it.
	var gotFresh models.Payment
	require.NoError(t, db.First(&gotFresh, fresh.ID).Error)
	assert.Equal(t, models.PaymentStatusPending, gotFresh.Status)

	var gotProcessing models.Payment
	require.NoError(t, db.First(&gotProcessing, processing.ID).Error)
	assert.Equal(t, models.PaymentStatusProcessing, gotProcessing.Status)
}

func TestCompletePastBookings(t *testing.T) {
	db := setupDB(t)
	scheduler := NewScheduler(db, NewNotifier(db))

	past := models.Booking{
		UserID:         1,
		ListingID:      1,
		CheckIn:        time.Now().AddDate(0, 0, -10),
		CheckOut:       time.Now().AddDate(0, 0, -7),
		NumberOfGuests: 2,
		TotalPrice:     600,
		Status:         models.BookingStatusConfirmed,
	}
	upcoming := models.Booking{
		UserID:         1,
		ListingID:      1,
		CheckIn:        time.Now().AddDate(0, 0, 7),
		CheckOut:       time.Now().AddDate(0, 0, 10),
		NumberOfGuests: 2,
		TotalPrice:     600,
		Status:         models.BookingStatusConfirmed,
	}
	pastUnpaid := models.Booking{
		UserID:         1,
		ListingID:      1,
		CheckIn:        time.Now().AddDate(0, 0, -10),
		CheckOut:       time.Now().AddDate(0, 0, -7),
		NumberOfGuests: 2,
		TotalPrice:     600,
		Status:         models.BookingStatusPending,
	}
	require.NoError(t, db.Create(&past).Error)
	require.NoError(t, db.Create(&upcoming).Error)
	require.NoError(t, db.Create(&pastUnpaid).Error)

	scheduler.CompletePastBookings()

	var gotPast models.Booking
	require.NoError(t, db.First(&gotPast, past.ID).Error)
	assert.Equal(t, models.BookingStatusCompleted, gotPast.Status)

	var gotUpcoming models.Booking
	require.NoError(t, db.First(&gotUpcoming, upcoming.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, gotUpcoming.Status)

	// Only confirmed stays eligible; an unpaid booking never auto-completes.
	var gotUnpaid models.Booking
	require.NoError(t, db.First(&gotUnpaid, pastUnpaid.ID).Error)
	assert.Equal(t, models.BookingStatusPending, gotUnpaid.Status)
}
