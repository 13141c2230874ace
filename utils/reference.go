package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GeneratePaymentReference returns a fresh payment reference of the form
// TRV-XXXXXXXXXXXX (12 upper hex characters). The reference is the sole
// correlation key shared with the payment gateway and must never be reused.
func GeneratePaymentReference() string {
	id := uuid.New()
	hexID := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("TRV-%s", strings.ToUpper(hexID[:12]))
}
