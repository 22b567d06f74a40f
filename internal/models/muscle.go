package models

// BodyArea groups muscle groups the way the body map does.
type BodyArea string

const (
	AreaUpper BodyArea = "upper"
	AreaLower BodyArea = "lower"
	AreaCore  BodyArea = "core"
)

type MuscleGroup struct {
	ID   string
	Name string
	Area BodyArea
}

// MuscleGroups is the fixed set of groups a workout can be tagged with.
var MuscleGroups = []MuscleGroup{
	{ID: "chest", Name: "Chest", Area: AreaUpper},
	{ID: "shoulders", Name: "Shoulders", Area: AreaUpper},
	{ID: "arms", Name: "Arms", Area: AreaUpper},
	{ID: "back", Name: "Back", Area: AreaUpper},
	{ID: "core", Name: "Core", Area: AreaCore},
	{ID: "legs", Name: "Legs", Area: AreaLower},
	{ID: "glutes", Name: "Glutes", Area: AreaLower},
	{ID: "calves", Name: "Calves", Area: AreaLower},
}

// LookupMuscleGroup finds a muscle group by ID.
func LookupMuscleGroup(id string) (MuscleGroup, bool) {
	for _, g := range MuscleGroups {
		if g.ID == id {
			return g, true
		}
	}
	return MuscleGroup{}, false
}

// ValidArea reports whether area names a known body area.
func ValidArea(area string) bool {
	switch BodyArea(area) {
	case AreaUpper, AreaLower, AreaCore:
		return true
	}
	return false
}

// InArea reports whether any of the given muscle group IDs belongs to area.
func InArea(groups []string, area BodyArea) bool {
	for _, id := range groups {
		if g, ok := LookupMuscleGroup(id); ok && g.Area == area {
			return true
		}
	}
	return false
}
