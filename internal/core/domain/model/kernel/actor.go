package kernel

import (
	"errors"
	"fmt"

	"supplychain/internal/pkg/errs"
)

// Role is the part a party plays in the supply chain.
type Role string

const (
	RoleProducer Role = "producer"
	RoleCarrier  Role = "carrier"
	RoleBuyer    Role = "buyer"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleProducer, RoleCarrier, RoleBuyer:
		return r, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("unknown role %q", s))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller of an operation, as supplied by the
// identity provider.
type Actor struct {
	ID   UUID
	Role Role
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, errs.NewValueIsRequiredErrorWithCause("actorID", err)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

func (a Actor) Validate() error {
	if err := a.ID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actorID", err)
	}
	_, err := ParseRole(string(a.Role))
	return err
}

// Is reports whether a is the party id acting in role.
func (a Actor) Is(id UUID, role Role) bool {
	return a.Role == role && a.ID.IsEqual(id)
}

// Require returns Unauthorized unless the actor plays role.
func (a Actor) Require(role Role, action string) error {
	if err := a.Validate(); err != nil {
		return errors.Join(errs.NewUnauthorizedError("anonymous", action), err)
	}
	if a.Role != role {
		return errs.NewUnauthorizedError(a.String(), action)
	}
	return nil
}

func (a Actor) String() string {
	return fmt.Sprintf("%s %s", a.Role, a.ID)
}
