package enums

import "fmt"

type MaintenanceType string

const (
	MaintenanceTypeInspection    MaintenanceType = "inspection"
	MaintenanceTypeCleaning      MaintenanceType = "cleaning"
	MaintenanceTypeRepair        MaintenanceType = "repair"
	MaintenanceTypeReplacement   MaintenanceType = "replacement"
	MaintenanceTypeCertification MaintenanceType = "certification"
)

var validMaintenanceTypes = []MaintenanceType{
	MaintenanceTypeInspection,
	MaintenanceTypeCleaning,
	MaintenanceTypeRepair,
	MaintenanceTypeReplacement,
	MaintenanceTypeCertification,
}

func (m MaintenanceType) String() string {
	return string(m)
}

func (m MaintenanceType) IsValid() bool {
	for _, candidate := range validMaintenanceTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseMaintenanceType(value string) (MaintenanceType, error) {
	for _, candidate := range validMaintenanceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid maintenance type %q", value)
}
