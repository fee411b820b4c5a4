package robot

import "github.com/pkg/errors"

// NewLinkOwnedError is used when adding a link that already belongs to another robot.
func NewLinkOwnedError(link, robot string) error {
	return errors.Errorf("link %q already belongs to robot %q", link, robot)
}

// NewUnsupportedJointTypeError is used when a joint type ordinal is out of range.
func NewUnsupportedJointTypeError(t int) error {
	return errors.Errorf("unsupported joint type %d", t)
}
