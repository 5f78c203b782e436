package bookingengine

import "github.com/shopspring/decimal"

// Service is the remote representation of a rental item.
type Service struct {
	ID                    string          `json:"id,omitempty"`
	ExternalID            string          `json:"externalId"`
	Name                  string          `json:"name"`
	Description           string          `json:"description,omitempty"`
	Category              string          `json:"category,omitempty"`
	Price                 decimal.Decimal `json:"price"`
	DurationMinutes       int             `json:"duration"`
	Quantity              int             `json:"quantity"`
	MaxConcurrentBookings int             `json:"maxConcurrentBookings,omitempty"`
	IsActive              bool            `json:"isActive"`
}

// Blackout is the remote representation of an unavailable interval.
type Blackout struct {
	ID         string `json:"id,omitempty"`
	ExternalID string `json:"externalId"`
	ServiceID  string `json:"service,omitempty"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason,omitempty"`
	IsActive   bool   `json:"isActive"`
}

// TenantSettings mirrors the remote tenant scheduling configuration.
type TenantSettings struct {
	Timezone           string   `json:"timezone,omitempty"`
	OpeningTime        string   `json:"openingTime,omitempty"`
	ClosingTime        string   `json:"closingTime,omitempty"`
	BusinessDays       []string `json:"businessDays,omitempty"`
	SlotGranularity    int      `json:"slotGranularity,omitempty"`
	LeadTimeHours      int      `json:"leadTimeHours,omitempty"`
	BookingWindowDays  int      `json:"bookingWindowDays,omitempty"`
	Currency           string   `json:"currency,omitempty"`
	Locale             string   `json:"locale,omitempty"`
	CancellationPolicy string   `json:"cancellationPolicy,omitempty"`
}

type listEnvelope[T any] struct {
	Docs      []T `json:"docs"`
	TotalDocs int `json:"totalDocs"`
}
