package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no device matches the requested identity.
	ErrNotFound = errors.New("device not found")
	// ErrInvalidDevice wraps every device validation failure.
	ErrInvalidDevice = errors.New("invalid device")
)

// Status is the classification of a registry record.
type Status string

const (
	StatusWhitelisted Status = "whitelisted"
	StatusBlacklisted Status = "blacklisted"
)

// Legacy labels written by older clients and spreadsheets.
const (
	legacyWhitelisted = "白名单"
	legacyBlacklisted = "黑名单"
)

// ParseStatus maps known labels and legacy aliases to a Status.
// Anything else is kept verbatim so it can be reported as unexpected.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case string(StatusWhitelisted), "whitelist", "white", legacyWhitelisted:
		return StatusWhitelisted
	case string(StatusBlacklisted), "blacklist", "black", legacyBlacklisted:
		return StatusBlacklisted
	}
	return Status(s)
}

// Known reports whether s is one of the two classification states.
func (s Status) Known() bool {
	return s == StatusWhitelisted || s == StatusBlacklisted
}

// Toggle flips Whitelisted and Blacklisted. Unexpected states become Whitelisted.
func (s Status) Toggle() Status {
	if s == StatusWhitelisted {
		return StatusBlacklisted
	}
	return StatusWhitelisted
}

// UnmarshalJSON accepts legacy aliases.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}

// Device is one registry record.
type Device struct {
	MaterialID  string `json:"materialId"`
	Model       string `json:"model"`
	Description string `json:"description"`
	SpareCount  int    `json:"spareCount"`
	Unit        string `json:"unit"`
	Remark      string `json:"remark"`
	Status      Status `json:"status"`
}

// Normalize trims every text field and canonicalizes the status.
func (d Device) Normalize() Device {
	d.MaterialID = strings.TrimSpace(d.MaterialID)
	d.Model = strings.TrimSpace(d.Model)
	d.Description = strings.TrimSpace(d.Description)
	d.Unit = strings.TrimSpace(d.Unit)
	d.Remark = strings.TrimSpace(d.Remark)
	d.Status = ParseStatus(string(d.Status))
	return d
}

// Validate checks the structural rules every stored record must satisfy.
func (d Device) Validate() error {
	if strings.TrimSpace(d.MaterialID) == "" {
		return fmt.Errorf("%w: materialId is required", ErrInvalidDevice)
	}
	if d.SpareCount < 0 {
		return fmt.Errorf("%w: %s: spareCount must not be negative", ErrInvalidDevice, d.MaterialID)
	}
	if !d.Status.Known() {
		return fmt.Errorf("%w: %s: unknown status %q", ErrInvalidDevice, d.MaterialID, d.Status)
	}
	return nil
}

// ValidateTrackable checks the extra fields a Whitelisted record needs to
// appear in the spare-parts report. Blacklisted records always pass.
func (d Device) ValidateTrackable() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Status != StatusWhitelisted {
		return nil
	}
	switch {
	case strings.TrimSpace(d.Description) == "":
		return fmt.Errorf("%w: %s: description is required", ErrInvalidDevice, d.MaterialID)
	case d.SpareCount <= 0:
		return fmt.Errorf("%w: %s: spareCount must be positive", ErrInvalidDevice, d.MaterialID)
	case strings.TrimSpace(d.Unit) == "":
		return fmt.Errorf("%w: %s: unit is required", ErrInvalidDevice, d.MaterialID)
	}
	return nil
}

// Blacklisted returns a copy of d written as Blacklisted with zeroed spare fields.
func (d Device) Blacklisted() Device {
	d.Status = StatusBlacklisted
	d.SpareCount = 0
	d.Unit = ""
	d.Remark = ""
	return d
}
