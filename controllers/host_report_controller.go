package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/models"
	"github.com/travelnest/travelnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// DownloadEarningsReport exports the host's confirmed and completed
// bookings for the requested period as an Excel workbook.
//
// GET /v1/host/reports/earnings?period=day|week|month
func DownloadEarningsReport(c *gin.Context) {
	utils.LogInfo("DownloadEarningsReport called")

	user := currentUser(c)
	if user == nil {
		return
	}

	period := c.DefaultQuery("period", "week")
	now := time.Now()
	var startDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	default:
		utils.LogError("Invalid report period: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var bookings []models.Booking
	err := config.DB.Preload("Listing").Preload("User").
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("listings.host_id = ? AND bookings.status IN ? AND bookings.updated_at >= ?",
			user.ID, []string{models.BookingStatusConfirmed, models.BookingStatusCompleted}, startDate).
		Order("bookings.updated_at DESC").
		Find(&bookings).Error
	if err != nil {
		utils.LogError("Failed to fetch bookings for earnings report: %v", err)
		utils.InternalServerError(c, "Failed to fetch bookings", nil)
		return
	}
	utils.LogDebug("Retrieved %d bookings for earnings report", len(bookings))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Earnings")
	if err != nil {
		utils.LogError("Failed to create report sheet: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"Booking ID", "Listing", "Guest", "Check-in", "Check-out", "Nights", "Status", "Total"} {
		cell := header.AddCell()
		cell.Value = title
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	var totalRevenue float64
	for i := range bookings {
		b := &bookings[i]
		row := sheet.AddRow()
		row.AddCell().Value = b.BookingID.String()
		row.AddCell().Value = b.Listing.Title
		row.AddCell().Value = b.User.FullName()
		row.AddCell().Value = b.CheckIn.Format("2006-01-02")
		row.AddCell().Value = b.CheckOut.Format("2006-01-02")
		row.AddCell().SetInt(b.Nights())
		row.AddCell().Value = b.Status
		row.AddCell().SetFloatWithFormat(b.TotalPrice, "0.00")
		totalRevenue += b.TotalPrice
	}

	summary := sheet.AddRow()
	summary.AddCell()
	summary.AddCell()
	summary.AddCell()
	summary.AddCell()
	summary.AddCell()
	summary.AddCell()
	totalLabel := summary.AddCell()
	totalLabel.Value = "Total"
	summary.AddCell().SetFloatWithFormat(totalRevenue, "0.00")

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write earnings report: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=earnings_%s.xlsx", period))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
