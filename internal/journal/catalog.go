package journal

import "strings"

// PredefinedActivities is the built-in activity catalog offered by input
// surfaces. Activity types are open strings; this list is a convenience.
var PredefinedActivities = []string{
	"Walk",
	"Training",
	"Playtime",
	"Feeding",
	"Grooming",
	"Vet Visit",
	"Socialization",
	"Rest",
	"Exercise",
	"Bath",
}

// Catalog merges the predefined activities with custom ones, dropping
// case-insensitive duplicates. Predefined names come first.
func Catalog(custom []CustomActivity) []string {
	seen := make(map[string]bool, len(PredefinedActivities)+len(custom))
	out := make([]string, 0, len(PredefinedActivities)+len(custom))
	add := func(name string) {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(name))
	}
	for _, name := range PredefinedActivities {
		add(name)
	}
	for _, c := range custom {
		add(c.Name)
	}
	return out
}
