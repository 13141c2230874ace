package controllers

import (
	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/gateway"
	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/utils"
	"github.com/travelnest/travelnest/workers"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCurrency is the settlement currency for gateway transactions.
const DefaultCurrency = "ETB"

var (
	paymentGateway *gateway.Client
	notifier       *workers.Notifier
)

// InitPaymentController wires the gateway client and notifier used by the
// payment endpoints. Called once from main (and from tests).
func InitPaymentController(client *gateway.Client, n *workers.Notifier) {
	paymentGateway = client
	notifier = n
}

// PaymentInitiateRequest represents the payment initiation payload
type PaymentInitiateRequest struct {
	BookingID   string `json:"booking_id" binding:"required,uuid"`
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number"`
}

// InitiatePayment creates a payment record for a booking and starts the
// transaction at the gateway.
//
// POST /v1/user/payments/initiate
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")

	user := currentUser(c)
	if user == nil {
		return
	}

	var req PaymentInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment initiation request from user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	bookingID, _ := uuid.Parse(req.BookingID)
	var booking models.Booking
	if err := config.DB.Preload("Listing").
		Where("booking_id = ? AND user_id = ?", bookingID, user.ID).
		First(&booking).Error; err != nil {
		utils.LogError("Booking %s not found for user %d", req.BookingID, user.ID)
		utils.NotFound(c, "Booking not found")
		return
	}

	// At most one payment attempt may be live or settled at a time. Failed
	// and cancelled attempts stay on record and a fresh row supersedes them.
	var blocking int64
	if err := config.DB.Model(&models.Payment{}).
		Where("booking_id = ? AND status IN ?", booking.ID,
			[]string{models.PaymentStatusProcessing, models.PaymentStatusCompleted}).
		Count(&blocking).Error; err != nil {
		utils.LogError("Failed to check existing payments for booking %s: %v", booking.BookingID, err)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}
	if blocking > 0 {
		utils.LogError("Payment already initiated or completed for booking %s", booking.BookingID)
		utils.Conflict(c, "Payment already initiated or completed", nil)
		return
	}

	reference := utils.GeneratePaymentReference()
	payment := models.Payment{
		BookingID: booking.ID,
		Reference: reference,
		Amount:    booking.TotalPrice,
		Currency:  DefaultCurrency,
		Status:    models.PaymentStatusPending,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		utils.LogError("Failed to create payment record for booking %s: %v", booking.BookingID, err)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}
	utils.LogInfo("Payment %s created for booking %s, amount %.2f %s",
		reference, booking.BookingID, payment.Amount, payment.Currency)

	result, err := paymentGateway.Initialize(gateway.InitializeRequest{
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Reference:   reference,
		Title:       "Booking Payment - " + booking.Listing.Title,
		Description: "Payment for booking " + booking.BookingID.String(),
	})
	if err != nil {
		failInitiation(c, &payment, err)
		return
	}

	updates := map[string]interface{}{
		"status":       models.PaymentStatusProcessing,
		"checkout_url": result.CheckoutURL,
		"raw_response": result.RawResponse,
	}
	if err := config.DB.Model(&payment).Updates(updates).Error; err != nil {
		utils.LogError("Failed to store gateway response for payment %s: %v", reference, err)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}
	utils.LogInfo("Payment %s accepted by gateway, checkout URL issued", reference)

	utils.Success(c, "Payment initiated successfully", gin.H{
		"payment_id":   payment.PaymentID,
		"reference":    payment.Reference,
		"checkout_url": result.CheckoutURL,
		"amount":       payment.Amount,
		"currency":     payment.Currency,
	})
}

// failInitiation marks the payment failed and its booking cancelled, then
// reports the error. Transport failures are surfaced as a gateway outage
// (502) rather than a rejection (400) so operators can tell them apart.
func failInitiation(c *gin.Context, payment *models.Payment, err error) {
	message := err.Error()

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		return payment.MarkFailed(tx, message)
	})
	if txErr != nil {
		utils.LogError("Failed to record failed payment %s: %v", payment.Reference, txErr)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}

	if gateway.IsTransport(err) {
		utils.LogError("Gateway unreachable for payment %s: %v", payment.Reference, err)
		utils.BadGateway(c, "Failed to connect to payment gateway", message)
		return
	}

	utils.LogError("Gateway rejected payment %s: %v", payment.Reference, err)
	utils.BadRequest(c, message, nil)
}

// VerifyPayment checks the transaction state at the gateway and applies the
// resulting transition. Serves both user redirects and gateway callbacks,
// so it is unauthenticated and keyed purely by reference.
//
// GET|POST /v1/payments/verify?reference=TRV-...
func VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")

	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("tx_ref")
	}
	if reference == "" {
		utils.BadRequest(c, "Payment reference is required", nil)
		return
	}

	var payment models.Payment
	if err := config.DB.Where("reference = ?", reference).First(&payment).Error; err != nil {
		utils.LogError("Payment not found for reference %s", reference)
		utils.NotFound(c, "Payment not found")
		return
	}

	// Verification is idempotent: once completed, return the record as-is
	// without another gateway round trip.
	if payment.Status == models.PaymentStatusCompleted {
		utils.LogInfo("Payment %s already completed, skipping gateway verify", reference)
		utils.Success(c, "Payment already verified and completed", gin.H{
			"payment": paymentResponse(&payment),
		})
		return
	}

	result, err := paymentGateway.Verify(reference)
	if err != nil {
		// No state mutation on verify errors; the caller may safely retry.
		if gateway.IsTransport(err) {
			utils.LogError("Gateway unreachable verifying payment %s: %v", reference, err)
			utils.BadGateway(c, "Failed to verify payment", err.Error())
			return
		}
		utils.LogError("Gateway error verifying payment %s: %v", reference, err)
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	switch result.Status {
	case "success":
		completed := false
		txErr := config.DB.Transaction(func(tx *gorm.DB) error {
			// Re-read under the transaction: a racing verify (user redirect
			// vs gateway callback) may have settled the row already.
			var current models.Payment
			if err := tx.Where("reference = ?", reference).First(&current).Error; err != nil {
				return err
			}
			if current.Status == models.PaymentStatusCompleted {
				payment = current
				return nil
			}
			current.PaymentMethod = result.PaymentMethod
			current.RawResponse = result.RawResponse
			if err := current.MarkCompleted(tx, result.TransactionID); err != nil {
				return err
			}
			payment = current
			completed = true
			return nil
		})
		if txErr != nil {
			utils.LogError("Failed to complete payment %s: %v", reference, txErr)
			utils.InternalServerError(c, "Failed to update payment", nil)
			return
		}

		if completed {
			utils.LogInfo("Payment %s completed, booking confirmed", reference)
			enqueuePaymentConfirmation(&payment)
		}

		utils.Success(c, "Payment verified and completed successfully", gin.H{
			"payment": paymentResponse(&payment),
		})

	case "failed":
		txErr := config.DB.Transaction(func(tx *gorm.DB) error {
			// Re-read under the transaction: a racing verify may have
			// settled the row already, and terminal states never move.
			var current models.Payment
			if err := tx.Where("reference = ?", reference).First(&current).Error; err != nil {
				return err
			}
			if current.IsTerminal() {
				payment = current
				return nil
			}
			current.RawResponse = result.RawResponse
			if err := current.MarkFailed(tx, "Payment failed at gateway"); err != nil {
				return err
			}
			payment = current
			return nil
		})
		if txErr != nil {
			utils.LogError("Failed to record failed payment %s: %v", reference, txErr)
			utils.InternalServerError(c, "Failed to update payment", nil)
			return
		}

		if payment.Status == models.PaymentStatusCompleted {
			utils.LogInfo("Payment %s settled as completed by a concurrent verify", reference)
			utils.Success(c, "Payment already verified and completed", gin.H{
				"payment": paymentResponse(&payment),
			})
			return
		}
		utils.LogError("Payment %s failed at gateway, booking cancelled", reference)

		utils.BadRequest(c, "Payment verification failed", gin.H{
			"payment": paymentResponse(&payment),
		})

	default:
		// Still pending or processing at the gateway; record that and let
		// the caller poll again.
		txErr := config.DB.Transaction(func(tx *gorm.DB) error {
			var current models.Payment
			if err := tx.Where("reference = ?", reference).First(&current).Error; err != nil {
				return err
			}
			if current.IsTerminal() {
				payment = current
				return nil
			}
			current.Status = models.PaymentStatusProcessing
			current.RawResponse = result.RawResponse
			if err := tx.Save(&current).Error; err != nil {
				return err
			}
			payment = current
			return nil
		})
		if txErr != nil {
			utils.LogError("Failed to update processing payment %s: %v", reference, txErr)
			utils.InternalServerError(c, "Failed to update payment", nil)
			return
		}

		if payment.Status == models.PaymentStatusCompleted {
			utils.LogInfo("Payment %s settled as completed by a concurrent verify", reference)
			utils.Success(c, "Payment already verified and completed", gin.H{
				"payment": paymentResponse(&payment),
			})
			return
		}
		utils.LogInfo("Payment %s still processing at gateway", reference)

		utils.Success(c, "Payment is still being processed", gin.H{
			"payment": paymentResponse(&payment),
		})
	}
}

// GetPaymentStatus returns a payment by public id for its owner
//
// GET /v1/user/payments/:payment_id
func GetPaymentStatus(c *gin.Context) {
	utils.LogInfo("GetPaymentStatus called")

	user := currentUser(c)
	if user == nil {
		return
	}

	paymentID, err := uuid.Parse(c.Param("payment_id"))
	if err != nil {
		utils.BadRequest(c, "Invalid payment ID", nil)
		return
	}

	var payment models.Payment
	if err := config.DB.Preload("Booking").
		Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		utils.LogError("Payment %s not found", paymentID)
		utils.NotFound(c, "Payment not found")
		return
	}

	if payment.Booking.UserID != user.ID {
		utils.LogError("User %d attempted to read payment %s owned by user %d",
			user.ID, paymentID, payment.Booking.UserID)
		utils.Forbidden(c, "Unauthorized access")
		return
	}

	utils.Success(c, "Payment retrieved successfully", gin.H{
		"payment": paymentResponse(&payment),
	})
}

// enqueuePaymentConfirmation queues the payment-confirmed email for the
// booking's user. Fire and forget: a queue error never surfaces to the
// payer, whose payment has already settled.
func enqueuePaymentConfirmation(payment *models.Payment) {
	if notifier == nil {
		return
	}

	var booking models.Booking
	if err := config.DB.Preload("Listing").Preload("User").
		First(&booking, payment.BookingID).Error; err != nil {
		utils.LogError("Failed to load booking %d for notification: %v", payment.BookingID, err)
		return
	}

	err := notifier.Enqueue(workers.EnqueueInput{
		BookingID:     booking.ID,
		BookingRef:    booking.BookingID.String(),
		Kind:          models.NotificationKindPayment,
		Recipient:     booking.User.Email,
		RecipientName: booking.User.FullName(),
		ListingTitle:  booking.Listing.Title,
		CheckIn:       booking.CheckIn,
		CheckOut:      booking.CheckOut,
	})
	if err != nil {
		utils.LogError("Failed to enqueue payment confirmation for booking %s: %v", booking.BookingID, err)
	}
}

func paymentResponse(payment *models.Payment) gin.H {
	resp := gin.H{
		"payment_id":     payment.PaymentID,
		"reference":      payment.Reference,
		"amount":         payment.Amount,
		"currency":       payment.Currency,
		"status":         payment.Status,
		"payment_method": payment.PaymentMethod,
		"checkout_url":   payment.CheckoutURL,
		"initiated_at":   payment.InitiatedAt,
		"completed_at":   payment.CompletedAt,
	}
	if payment.TransactionID != nil {
		resp["transaction_id"] = *payment.TransactionID
	}
	if payment.ErrorMessage != "" {
		resp["error_message"] = payment.ErrorMessage
	}
	return resp
}
