package enums

import "fmt"

// BlackoutSource records what created a blackout window: an operator or a
// maintenance record.
type BlackoutSource string

const (
	BlackoutSourceManual      BlackoutSource = "manual"
	BlackoutSourceMaintenance BlackoutSource = "maintenance"
)

var validBlackoutSources = []BlackoutSource{
	BlackoutSourceManual,
	BlackoutSourceMaintenance,
}

func (b BlackoutSource) String() string {
	return string(b)
}

func (b BlackoutSource) IsValid() bool {
	for _, candidate := range validBlackoutSources {
		if candidate == b {
			return true
		}
	}
	return false
}

func ParseBlackoutSource(value string) (BlackoutSource, error) {
	for _, candidate := range validBlackoutSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid blackout source %q", value)
}
