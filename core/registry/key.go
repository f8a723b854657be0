package registry

import (
	"fmt"
	"strings"
)

// KeyScheme selects how device identity is derived. It is fixed per deployment.
type KeyScheme string

const (
	// SchemeComposite identifies a device by material id and model.
	SchemeComposite KeyScheme = "composite"
	// SchemeSingle identifies a device by material id alone.
	SchemeSingle KeyScheme = "single"
)

const keySeparator = "|"

// KeyFunc derives the identity key of a (materialId, model) pair.
type KeyFunc func(materialID, model string) string

// ParseKeyScheme validates a configured scheme name. Empty means composite.
func ParseKeyScheme(s string) (KeyScheme, error) {
	switch KeyScheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeComposite:
		return SchemeComposite, nil
	case SchemeSingle:
		return SchemeSingle, nil
	}
	return "", fmt.Errorf("unknown key scheme %q", s)
}

// Composite reports whether the model is part of the identity.
func (k KeyScheme) Composite() bool {
	return k != SchemeSingle
}

// KeyOf returns the identity key for a (materialId, model) pair.
func (k KeyScheme) KeyOf(materialID, model string) string {
	if !k.Composite() {
		return materialID
	}
	return materialID + keySeparator + model
}

// DeviceKey returns the identity key of d.
func (k KeyScheme) DeviceKey(d Device) string {
	return k.KeyOf(d.MaterialID, d.Model)
}

// Pair is one lookup request.
type Pair struct {
	MaterialID string `json:"materialId"`
	Model      string `json:"model"`
}
