package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadReceipt generates and returns a PDF receipt for a booking with a
// completed payment.
//
// GET /v1/user/bookings/:id/receipt
func DownloadReceipt(c *gin.Context) {
	utils.LogInfo("DownloadReceipt called")

	user := currentUser(c)
	if user == nil {
		return
	}

	booking, ok := ownedBooking(c, user)
	if !ok {
		return
	}

	var payment models.Payment
	if err := config.DB.Where("booking_id = ? AND status = ?",
		booking.ID, models.PaymentStatusCompleted).First(&payment).Error; err != nil {
		utils.LogError("No completed payment for booking %s, receipt refused", booking.BookingID)
		utils.NotFound(c, "No completed payment for this booking")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "TravelNest")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@travelnest.example | Phone: +251-11-000-0000")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "BOOKING RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Booking ID: "+booking.BookingID.String())
	pdf.Ln(8)
	pdf.Cell(60, 8, "Payment Reference: "+payment.Reference)
	pdf.Ln(8)
	if payment.CompletedAt != nil {
		pdf.Cell(60, 8, "Paid At: "+payment.CompletedAt.Format("2006-01-02 15:04:05"))
		pdf.Ln(8)
	}
	if payment.PaymentMethod != "" {
		pdf.Cell(60, 8, "Payment Method: "+payment.PaymentMethod)
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Guest:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, user.FullName())
	pdf.Ln(6)
	pdf.Cell(100, 8, user.Email)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "Property", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Nights", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Per Night", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(70, 8, booking.Listing.Title, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%d", booking.Nights()), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", booking.Listing.PricePerNight), "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", booking.TotalPrice), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(130, 10, "Amount Paid ("+payment.Currency+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, fmt.Sprintf("%.2f", payment.Amount), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(100, 8, "Thank you for booking with TravelNest. We look forward to hosting you!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate receipt PDF for booking %s: %v", booking.BookingID, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%s.pdf", payment.Reference))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
