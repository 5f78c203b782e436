package enums

import "fmt"

// MaintenanceStatus is the lifecycle state of a maintenance record. While a
// record is scheduled or in progress it implies a derived blackout window.
type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "scheduled"
	MaintenanceStatusInProgress MaintenanceStatus = "in_progress"
	MaintenanceStatusCompleted  MaintenanceStatus = "completed"
	MaintenanceStatusCancelled  MaintenanceStatus = "cancelled"
)

var validMaintenanceStatuses = []MaintenanceStatus{
	MaintenanceStatusScheduled,
	MaintenanceStatusInProgress,
	MaintenanceStatusCompleted,
	MaintenanceStatusCancelled,
}

// BlocksAvailability reports whether the status implies an active derived
// blackout.
func (m MaintenanceStatus) BlocksAvailability() bool {
	return m == MaintenanceStatusScheduled || m == MaintenanceStatusInProgress
}

func (m MaintenanceStatus) String() string {
	return string(m)
}

func (m MaintenanceStatus) IsValid() bool {
	for _, candidate := range validMaintenanceStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseMaintenanceStatus(value string) (MaintenanceStatus, error) {
	for _, candidate := range validMaintenanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid maintenance status %q", value)
}
