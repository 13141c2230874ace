package workers

import (
	"time"

	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// stalePaymentAge is how long a payment may sit in pending (the gateway
// never accepted the initiation) before the maintenance sweep cancels it.
const stalePaymentAge = 24 * time.Hour

// Scheduler runs the periodic maintenance jobs.
type Scheduler struct {
	db       *gorm.DB
	notifier *Notifier
	cron     *cron.Cron
}

// NewScheduler wires the maintenance jobs onto a cron runner.
func NewScheduler(db *gorm.DB, notifier *Notifier) *Scheduler {
	return &Scheduler{
		db:       db,
		notifier: notifier,
		cron:     cron.New(),
	}
}

// Start registers and launches the jobs.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"*/10 * * * *", "dispatch-due-notifications", s.dispatchNotifications},
		{"0 * * * *", "expire-stale-payments", s.ExpireStalePayments},
		{"30 0 * * *", "complete-past-bookings", s.CompletePastBookings},
		{"0 6 * * 1", "host-earnings-summary", s.LogEarningsSummary},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return err
		}
		utils.LogInfo("Scheduled job %s (%s)", job.name, job.spec)
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron runner, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) dispatchNotifications() {
	if n := s.notifier.DispatchDue(); n > 0 {
		utils.LogInfo("Notification sweep dispatched %d jobs", n)
	}
}

// ExpireStalePayments cancels payments that never left pending, i.e. the
// gateway never accepted the initiation. Their bookings stay as they are;
// a fresh initiation is allowed afterwards.
func (s *Scheduler) ExpireStalePayments() {
	cutoff := time.Now().Add(-stalePaymentAge)
	result := s.db.Model(&models.Payment{}).
		Where("status = ? AND initiated_at < ?", models.PaymentStatusPending, cutoff).
		Update("status", models.PaymentStatusCancelled)
	if result.Error != nil {
		utils.LogError("Failed to expire stale payments: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		utils.LogInfo("Expired %d stale pending payments", result.RowsAffected)
	}
}

// CompletePastBookings marks confirmed bookings whose check-out has passed
// as completed.
func (s *Scheduler) CompletePastBookings() {
	result := s.db.Model(&models.Booking{}).
		Where("status = ? AND check_out < ?", models.BookingStatusConfirmed, time.Now()).
		Update("status", models.BookingStatusCompleted)
	if result.Error != nil {
		utils.LogError("Failed to complete past bookings: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		utils.LogInfo("Marked %d past bookings as completed", result.RowsAffected)
	}
}

// LogEarningsSummary writes a weekly revenue summary to the info log for
// the operations channel.
func (s *Scheduler) LogEarningsSummary() {
	since := time.Now().AddDate(0, 0, -7)

	var row struct {
		Bookings int64
		Revenue  float64
	}
	err := s.db.Model(&models.Booking{}).
		Select("COUNT(*) AS bookings, COALESCE(SUM(total_price), 0) AS revenue").
		Where("status IN ? AND updated_at >= ?",
			[]string{models.BookingStatusConfirmed, models.BookingStatusCompleted}, since).
		Scan(&row).Error
	if err != nil {
		utils.LogError("Failed to compute earnings summary: %v", err)
		return
	}

	utils.LogInfo("Weekly earnings summary: %d confirmed bookings, %.2f total revenue", row.Bookings, row.Revenue)
}
