package apply

import (
	"fmt"
	"strings"

	"github.com/example/wds/internal/core/dimension"
)

const (
	// NoChangeSummary is recorded for an UPDATE that leaves every name as it was.
	NoChangeSummary = "No data change detected"

	missingName      = "(none)"
	summarySeparator = " | "
)

// CreatedSummary describes a NEW row's assigned dimensions.
func CreatedSummary(n dimension.Names) string {
	return fmt.Sprintf("Initial record created (Region=%s, Workplace=%s, Specialty=%s)",
		n.Region, n.Workplace, n.Specialty)
}

// ChangeSummary lists every dimension whose name differs between before and
// after. An empty name in before means the person had no value for it.
func ChangeSummary(before, after dimension.Names) string {
	var parts []string
	for _, k := range dimension.Kinds() {
		oldName, newName := before.Get(k), after.Get(k)
		if oldName == newName {
			continue
		}
		if oldName == "" {
			oldName = missingName
		}
		parts = append(parts, fmt.Sprintf("%s changed: %s -> %s", k.Label(), oldName, newName))
	}
	if len(parts) == 0 {
		return NoChangeSummary
	}
	return strings.Join(parts, summarySeparator)
}
