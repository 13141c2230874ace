package workers

import (
	"fmt"
	"sync"
	"time"

	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/utils"

	"gorm.io/gorm"
)

const (
	// maxAttempts bounds delivery retries before a notification is parked
	// as failed.
	maxAttempts = 3
	// retryBaseDelay is doubled on every attempt: 60s, 120s, 240s.
	retryBaseDelay = 60 * time.Second
	// claimLease keeps two workers from picking up the same row.
	claimLease = time.Minute
)

// SendFunc delivers a single notification. Swappable in tests.
type SendFunc func(n *models.Notification) error

// Notifier delivers confirmation emails off the request path. Enqueue
// writes a durable row and pokes the worker pool without ever blocking;
// workers retry transient failures with exponential backoff and park the
// row as failed once attempts are exhausted.
type Notifier struct {
	db   *gorm.DB
	send SendFunc

	wake chan struct{}
	quit chan struct{}
	wg   sync.WaitGroup
}

// NewNotifier creates a Notifier backed by the given database connection.
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:   db,
		send: sendEmail,
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
	}
}

// SetSendFunc replaces the delivery function. Intended for tests.
func (n *Notifier) SetSendFunc(send SendFunc) {
	n.send = send
}

// EnqueueInput carries the contact and booking fields of a notification.
type EnqueueInput struct {
	BookingID     uint
	BookingRef    string
	Kind          string
	Recipient     string
	RecipientName string
	ListingTitle  string
	CheckIn       time.Time
	CheckOut      time.Time
}

// Enqueue persists a notification job and wakes the workers. It never
// blocks on delivery: the wake signal is dropped when the pool is already
// busy, and the cron catch-up sweep picks up whatever the pool missed.
func (n *Notifier) Enqueue(in EnqueueInput) error {
	notification := models.Notification{
		BookingID:     in.BookingID,
		BookingRef:    in.BookingRef,
		Kind:          in.Kind,
		Recipient:     in.Recipient,
		RecipientName: in.RecipientName,
		ListingTitle:  in.ListingTitle,
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		Status:        models.NotificationStatusPending,
		NextAttemptAt: time.Now(),
	}
	if err := n.db.Create(&notification).Error; err != nil {
		return err
	}
	utils.LogInfo("Notification %d queued for booking %s (%s)", notification.ID, in.BookingRef, in.Kind)

	select {
	case n.wake <- struct{}{}:
	default:
	}
	return nil
}

// Start launches the worker pool.
func (n *Notifier) Start(workers int) {
	if workers <= 0 {
		workers = 2
	}
	for i := 0; i < workers; i++ {
		n.wg.Add(1)
		go n.run()
	}
	utils.LogInfo("Notifier started with %d workers", workers)
}

// Stop shuts the worker pool down and waits for in-flight deliveries.
func (n *Notifier) Stop() {
	close(n.quit)
	n.wg.Wait()
}

func (n *Notifier) run() {
	defer n.wg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-n.quit:
			return
		case <-n.wake:
		case <-ticker.C:
		}
		n.DispatchDue()
	}
}

// DispatchDue processes every notification that is due for delivery and
// returns how many were attempted. Also called by the scheduler as a
// catch-up sweep after restarts.
func (n *Notifier) DispatchDue() int {
	attempted := 0
	for {
		var notification models.Notification
		err := n.db.Where("status = ? AND next_attempt_at <= ?",
			models.NotificationStatusPending, time.Now()).
			Order("next_attempt_at").First(&notification).Error
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				utils.LogError("Failed to fetch due notifications: %v", err)
			}
			return attempted
		}

		// Claim the row by pushing its due time forward; losing the race
		// means another worker has it.
		claim := n.db.Model(&models.Notification{}).
			Where("id = ? AND status = ? AND next_attempt_at <= ?",
				notification.ID, models.NotificationStatusPending, time.Now()).
			Update("next_attempt_at", time.Now().Add(claimLease))
		if claim.Error != nil {
			utils.LogError("Failed to claim notification %d: %v", notification.ID, claim.Error)
			return attempted
		}
		if claim.RowsAffected == 0 {
			continue
		}

		attempted++
		n.deliver(&notification)
	}
}

func (n *Notifier) deliver(notification *models.Notification) {
	notification.Attempts++

	if err := n.send(notification); err != nil {
		notification.LastError = err.Error()
		if notification.Attempts >= maxAttempts {
			notification.Status = models.NotificationStatusFailed
			utils.LogError("Notification %d failed permanently after %d attempts: %v",
				notification.ID, notification.Attempts, err)
		} else {
			backoff := retryBaseDelay * (1 << (notification.Attempts - 1))
			notification.NextAttemptAt = time.Now().Add(backoff)
			utils.LogError("Notification %d delivery failed (attempt %d), retrying in %v: %v",
				notification.ID, notification.Attempts, backoff, err)
		}
	} else {
		notification.Status = models.NotificationStatusSent
		utils.LogInfo("Notification %d sent to %s", notification.ID, notification.Recipient)
	}

	if err := n.db.Save(notification).Error; err != nil {
		utils.LogError("Failed to update notification %d: %v", notification.ID, err)
	}
}

func sendEmail(notification *models.Notification) error {
	checkIn := notification.CheckIn.Format("2006-01-02")
	checkOut := notification.CheckOut.Format("2006-01-02")

	switch notification.Kind {
	case models.NotificationKindBooking:
		return utils.SendBookingConfirmation(notification.Recipient, notification.RecipientName,
			notification.BookingRef, notification.ListingTitle, checkIn, checkOut)
	case models.NotificationKindPayment:
		return utils.SendPaymentConfirmation(notification.Recipient, notification.RecipientName,
			notification.BookingRef, notification.ListingTitle, checkIn, checkOut)
	default:
		return fmt.Errorf("unknown notification kind %q", notification.Kind)
	}
}
