// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role is a free-form role tag attached to a user.
type Role string

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string. The result is never nil.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, dropping empty tags.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		if s == "" {
			continue
		}
		result = append(result, Role(s))
	}

	return result
}
