package normalize

import "poe2guide/pkg/models"

// buildZoneNameMap indexes zone display names by zone id, falling back to the
// raw id when a zone entry has no display name.
func buildZoneNameMap(zonesDB map[string]models.ZoneInfo) map[string]string {
	names := make(map[string]string, len(zonesDB))
	for id, info := range zonesDB {
		if info.DisplayName != "" {
			names[id] = info.DisplayName
		} else {
			names[id] = id
		}
	}
	return names
}

// resolveZoneNames maps zone ids to display names in input order. Unknown ids
// pass through unchanged; the resolver never drops entries.
func resolveZoneNames(zoneIDs []string, names map[string]string) []string {
	out := make([]string, 0, len(zoneIDs))
	for _, id := range zoneIDs {
		if name, ok := names[id]; ok {
			out = append(out, name)
		} else {
			out = append(out, id)
		}
	}
	return out
}
