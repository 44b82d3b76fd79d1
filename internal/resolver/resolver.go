// Package resolver derives ESPHome service names from the configured printer entity.
package resolver

import (
	"strings"

	perrors "djp.chapter42.de/printerbridge/internal/errors"
)

// Suffixes stripped from the entity name, in order of preference.
var entitySuffixes = []string{"_printer_wake", "_wake"}

// DeviceName returns the device part of entityID with a known suffix removed.
// Only the first matching suffix is stripped; a name without suffix is returned unchanged.
func DeviceName(entityID string) (string, error) {
	domain, name, ok := strings.Cut(entityID, ".")
	if !ok {
		return "", perrors.NewResolutionError(entityID, "entity id has no domain separator")
	}
	if domain == "" || name == "" {
		return "", perrors.NewResolutionError(entityID, "entity id must look like <domain>.<name>")
	}

	for _, suffix := range entitySuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	if name == "" {
		return "", perrors.NewResolutionError(entityID, "entity name is empty after removing its suffix")
	}
	return name, nil
}

// ResolveService builds "<device>_<action>" for the entity.
func ResolveService(entityID, action string) (string, error) {
	if action == "" {
		return "", perrors.NewResolutionError(entityID, "no action given")
	}
	device, err := DeviceName(entityID)
	if err != nil {
		return "", err
	}
	return device + "_" + action, nil
}
