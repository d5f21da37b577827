package domain

import "strings"

// Visibility is the access tier of a stored record.
type Visibility string

const (
	// VisibilityPrivate restricts the record to its owner. This is the default.
	VisibilityPrivate Visibility = "private"
	// VisibilityPublic makes the record discoverable and readable by anyone.
	VisibilityPublic Visibility = "public"
	// VisibilityShared restricts the record to the owner and the identities
	// enumerated in the record's shared-with list.
	VisibilityShared Visibility = "shared"
)

// ParseVisibility maps free-form input to a valid tier, defaulting to private.
func ParseVisibility(value string) Visibility {
	switch Visibility(strings.ToLower(strings.TrimSpace(value))) {
	case VisibilityPublic:
		return VisibilityPublic
	case VisibilityShared:
		return VisibilityShared
	default:
		return VisibilityPrivate
	}
}

// Next returns the tier that follows in the owner-driven cycle
// private → public → shared → private.
func (v Visibility) Next() Visibility {
	switch v {
	case VisibilityPrivate:
		return VisibilityPublic
	case VisibilityPublic:
		return VisibilityShared
	default:
		return VisibilityPrivate
	}
}

// Requester identifies the principal attempting a read. The zero value is an
// anonymous requester.
type Requester struct {
	Authenticated bool
	UserID        string
	Email         string
}

// NormalizeSharedWith trims, drops empties and de-duplicates a shared-with
// list while preserving first-seen order.
func NormalizeSharedWith(identities []string) []string {
	if len(identities) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(identities))
	result := make([]string, 0, len(identities))
	for _, identity := range identities {
		identity = strings.ToLower(strings.TrimSpace(identity))
		if identity == "" {
			continue
		}
		if _, dup := seen[identity]; dup {
			continue
		}
		seen[identity] = struct{}{}
		result = append(result, identity)
	}
	return result
}

// CanView evaluates the read-access predicate for a record owned by ownerID
// with the given tier and shared-with list. A shared record with an empty
// list degrades to owner-only access rather than being treated as an error.
func CanView(ownerID string, visibility Visibility, sharedWith []string, requester Requester) bool {
	if visibility == VisibilityPublic {
		return true
	}
	if requester.Authenticated && requester.UserID == ownerID {
		return true
	}
	if visibility == VisibilityShared {
		identity := strings.ToLower(strings.TrimSpace(requester.Email))
		if identity == "" {
			return false
		}
		for _, candidate := range sharedWith {
			if strings.ToLower(strings.TrimSpace(candidate)) == identity {
				return true
			}
		}
	}
	return false
}
