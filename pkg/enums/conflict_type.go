package enums

// ConflictType tags an availability conflict as a booking or a blackout.
type ConflictType string

const (
	ConflictTypeBooking  ConflictType = "booking"
	ConflictTypeBlackout ConflictType = "blackout"
)
