package users

import (
	"encoding/json"
	"sort"

	"golang.org/x/crypto/bcrypt"
)

// RoleType represents a named permission grouping attached to a user
type RoleType string

const (
	RoleAdmin RoleType = "Admin" // Can view the admin console
	RoleUser  RoleType = "User"  // Regular account, no console access
)

// RoleSet is a set of roles. On the wire it is a plain string array.
type RoleSet map[RoleType]struct{}

// NewRoleSet builds a set from role names, dropping empty entries and duplicates
func NewRoleSet(roles ...RoleType) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether role is a member of the set. A nil set has no members.
func (s RoleSet) Has(role RoleType) bool {
	_, ok := s[role]
	return ok
}

// Sorted returns the members in lexical order
func (s RoleSet) Sorted() []RoleType {
	roles := make([]RoleType, 0, len(s))
	for r := range s {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var roles []RoleType
	if err := json.Unmarshal(data, &roles); err != nil {
		return err
	}
	*s = NewRoleSet(roles...)
	return nil
}

type User struct {
	ID    string  `json:"id,omitempty"`
	Email string  `json:"email,omitempty"`
	Roles RoleSet `json:"roles"`
}

// IsAdmin returns true if the user may see admin-only views
func (u *User) IsAdmin() bool {
	return u != nil && u.Roles.Has(RoleAdmin)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
