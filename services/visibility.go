package services

// Visibility decides whether List returns inactive records. It is computed at
// the HTTP boundary and passed down explicitly.
type Visibility struct {
	IncludeInactive bool
}

// PublicOnly hides inactive records.
var PublicOnly = Visibility{}

// CanSeeInactive reports whether role may list inactive records. The caller
// must also have asked for them with includeAll.
func CanSeeInactive(role string, includeAll bool, allowed ...string) bool {
	if !includeAll || role == "" {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func VisibilityFor(role string, includeAll bool, allowed ...string) Visibility {
	return Visibility{IncludeInactive: CanSeeInactive(role, includeAll, allowed...)}
}
