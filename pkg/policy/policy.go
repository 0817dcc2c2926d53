// Package policy is the single authorization check every state-mutating
// operation goes through before touching storage.
package policy

import (
	"errors"
	"fmt"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Capability int

const (
	// User is any authenticated caller.
	User Capability = iota
	// Admin is a caller with the admin role.
	Admin
	// Owner is the owner of the resource; admins are treated as owners.
	Owner
)

func (c Capability) String() string {
	switch c {
	case User:
		return "user"
	case Admin:
		return "admin"
	case Owner:
		return "owner"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Principal is the verified identity of the caller.
type Principal struct {
	UserID uint
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Authorize checks that p holds capability c. ownerID is only consulted for Owner.
func Authorize(p Principal, c Capability, ownerID uint) error {
	if p.UserID == 0 {
		return ErrUnauthenticated
	}
	switch c {
	case User:
		return nil
	case Admin:
		if p.IsAdmin() {
			return nil
		}
	case Owner:
		if p.IsAdmin() || (ownerID != 0 && p.UserID == ownerID) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s capability required", ErrForbidden, c)
}
