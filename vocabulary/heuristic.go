package vocabulary

import "strings"

// Heuristic recognizes trailing section names that are expected even though
// they are not in the supplement list, such as seasonal wraps and liftouts.
type Heuristic struct {
	Name  string
	Match func(section, year string) bool
}

// ContainsYear accepts names that mention the edition's year, e.g.
// "Federal Budget 2024".
func ContainsYear() Heuristic {
	return Heuristic{
		Name: "contains edition year",
		Match: func(section, year string) bool {
			return year != "" && strings.Contains(section, year)
		},
	}
}

// Contains accepts names containing substr (case sensitive).
func Contains(substr string) Heuristic {
	return Heuristic{
		Name: "contains " + strings.TrimSpace(substr),
		Match: func(section, year string) bool {
			return substr != "" && strings.Contains(section, substr)
		},
	}
}
