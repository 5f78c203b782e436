package bookingengine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// External IDs tie remote booking-engine records back to local rows. The
// prefix namespaces this platform's records so remote upserts stay idempotent.
const (
	externalIDPrefix   = "rentable"
	blackoutIDSegment  = "blackout"
	maintenanceSegment = "maintenance"
)

// ItemExternalID returns the remote service key for a rental item.
func ItemExternalID(itemID uuid.UUID) string {
	return fmt.Sprintf("%s-%s", externalIDPrefix, itemID)
}

// BlackoutExternalID returns the remote key for a manual blackout window.
func BlackoutExternalID(blackoutID uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%s", externalIDPrefix, blackoutIDSegment, blackoutID)
}

// MaintenanceExternalID returns the remote key for a maintenance-derived
// blackout.
func MaintenanceExternalID(recordID uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%s", externalIDPrefix, maintenanceSegment, recordID)
}

// IsOwnedExternalID reports whether a remote record was created by this
// platform.
func IsOwnedExternalID(externalID string) bool {
	return strings.HasPrefix(externalID, externalIDPrefix+"-")
}
