package document

import "github.com/pkg/errors"

// ErrEmptyName is returned when registering an entity whose name is empty.
var ErrEmptyName = errors.New("entity name must not be empty")

// NewEntityNotFoundError is used when an entity is looked up by a name the document
// does not contain.
func NewEntityNotFoundError(name string) error {
	return errors.Errorf("entity %q not found in document", name)
}

// NewNameTakenError is used when an entity name is already registered.
func NewNameTakenError(name string) error {
	return errors.Errorf("entity name %q already taken", name)
}

// NewMembershipCycleError is used when adding a member would make an object contain
// itself.
func NewMembershipCycleError(container, member string) error {
	return errors.Errorf("adding %q to %q would create a membership cycle", member, container)
}
