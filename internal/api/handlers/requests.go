package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncRequest is the body of POST /api/sync.
type SyncRequest struct {
	APIKey      string `json:"apiKey"`
	CompanyName string `json:"companyName"`
	CenterID    string `json:"centerId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Validate checks all fields and returns the parsed date range.
func (r SyncRequest) Validate() (time.Time, time.Time, error) {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"apiKey", r.APIKey},
		{"companyName", r.CompanyName},
		{"centerId", r.CenterID},
		{"startDate", r.StartDate},
		{"endDate", r.EndDate},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if err := validateCenterID(r.CenterID); err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate %q: expected YYYY-MM-DD", r.StartDate)
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate %q: expected YYYY-MM-DD", r.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("endDate %s is before startDate %s", r.EndDate, r.StartDate)
	}
	return start, end, nil
}

// CentersRequest is the body of POST /api/centers.
type CentersRequest struct {
	APIKey      string `json:"apiKey"`
	CompanyName string `json:"companyName"`
}

// Validate checks required fields.
func (r CentersRequest) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" || strings.TrimSpace(r.CompanyName) == "" {
		return fmt.Errorf("missing API key or company name")
	}
	return nil
}

// AuthLinkRequest is the body of POST /api/auth-link.
type AuthLinkRequest struct {
	APIKey      string `json:"apiKey"`
	CompanyName string `json:"companyName"`
	CenterID    string `json:"centerId"`
}

// Validate checks required fields and the center ID shape.
func (r AuthLinkRequest) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" || strings.TrimSpace(r.CompanyName) == "" || strings.TrimSpace(r.CenterID) == "" {
		return fmt.Errorf("missing API key, company name, or center ID")
	}
	return validateCenterID(r.CenterID)
}

// validateCenterID requires the canonical 8-4-4-4-12 UUID form.
func validateCenterID(centerID string) error {
	if len(centerID) != 36 {
		return fmt.Errorf("invalid centerId %q: must be a UUID", centerID)
	}
	if _, err := uuid.Parse(centerID); err != nil {
		return fmt.Errorf("invalid centerId %q: must be a UUID", centerID)
	}
	return nil
}
