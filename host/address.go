package host

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// Address identifies an account or a contract instance. The wire form is a
// base58 string, which is how the runtime renders identities.
type Address string

// AddressFromString parses and validates the base58 form of an address.
func AddressFromString(s string) (Address, error) {
	if s == "" {
		return "", errors.New("empty address")
	}
	if _, err := base58.Decode(s); err != nil {
		return "", errors.Wrapf(err, "invalid address %q", s)
	}
	return Address(s), nil
}

// NewAddress derives a fresh unique address. The harness uses it to assign
// identities to deployed contract instances.
func NewAddress() Address {
	id := uuid.New()
	return Address(base58.Encode(id[:]))
}

func (a Address) String() string {
	return string(a)
}
