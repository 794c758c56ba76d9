package booking

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewReference returns a short random booking reference like
// "BK-3F9A0C21D4E7".  References identify a booking to the buyer and
// to support staff; they are random rather than sequential so one
// buyer cannot enumerate another's bookings.
func NewReference() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "BK-" + strings.ToUpper(hex.EncodeToString(b)), nil
}
