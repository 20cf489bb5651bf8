package aggregate

import (
	"fmt"
	"strings"

	"github.com/harrisonrobin/cuppa/pkg/clickup"
	"github.com/harrisonrobin/cuppa/pkg/usercache"
)

// FindMember resolves a colloquial name ("jeremy", part of an email, a set
// of initials) to a workspace user by scanning team rosters. Resolved
// names are remembered in the user cache so the next lookup skips the
// scan. Returns (nil, nil) when nobody matches.
func (a *Aggregator) FindMember(name string) (*clickup.User, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	if a.users != nil {
		if e, ok := a.users.Get(needle); ok {
			return &clickup.User{ID: e.UserID, Username: e.Username, Email: e.Email}, nil
		}
	}

	teams, err := a.client.GetTeams()
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for member lookup: %w", err)
	}

	// First pass: substring match on username or email.
	for _, team := range teams {
		for _, member := range team.Members {
			u := member.User
			if containsFold(u.Username, needle) || containsFold(u.Email, needle) {
				a.remember(needle, &u)
				return &u, nil
			}
		}
	}

	// Second pass: exact username or initials, or the name's local part
	// appearing in the email.
	local := needle
	if at := strings.Index(needle, "@"); at >= 0 {
		local = needle[:at]
	}
	for _, team := range teams {
		for _, member := range team.Members {
			u := member.User
			if strings.EqualFold(u.Username, needle) ||
				strings.EqualFold(u.Initials, needle) ||
				containsFold(u.Email, local) {
				a.remember(needle, &u)
				return &u, nil
			}
		}
	}

	return nil, nil
}

func (a *Aggregator) remember(name string, u *clickup.User) {
	if a.users == nil {
		return
	}
	a.users.Set(name, usercache.Entry{UserID: u.ID, Username: u.Username, Email: u.Email})
}

func containsFold(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}
