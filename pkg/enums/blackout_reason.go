package enums

import "fmt"

// BlackoutReason explains why an interval is unavailable.
type BlackoutReason string

const (
	BlackoutReasonMaintenance  BlackoutReason = "maintenance"
	BlackoutReasonRepair       BlackoutReason = "repair"
	BlackoutReasonBooked       BlackoutReason = "booked"
	BlackoutReasonSeasonal     BlackoutReason = "seasonal"
	BlackoutReasonHoliday      BlackoutReason = "holiday"
	BlackoutReasonPrivateEvent BlackoutReason = "private_event"
	BlackoutReasonWeather      BlackoutReason = "weather"
	BlackoutReasonOther        BlackoutReason = "other"
)

var validBlackoutReasons = []BlackoutReason{
	BlackoutReasonMaintenance,
	BlackoutReasonRepair,
	BlackoutReasonBooked,
	BlackoutReasonSeasonal,
	BlackoutReasonHoliday,
	BlackoutReasonPrivateEvent,
	BlackoutReasonWeather,
	BlackoutReasonOther,
}

func (b BlackoutReason) String() string {
	return string(b)
}

func (b BlackoutReason) IsValid() bool {
	for _, candidate := range validBlackoutReasons {
		if candidate == b {
			return true
		}
	}
	return false
}

func ParseBlackoutReason(value string) (BlackoutReason, error) {
	for _, candidate := range validBlackoutReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid blackout reason %q", value)
}
