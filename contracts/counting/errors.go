package counting

import (
	"fmt"

	"github.com/countinglabs/counting-contract/host"
)

// UnauthorizedError is returned when a caller other than the owner invokes
// reset, withdraw or withdraw_to.
type UnauthorizedError struct {
	Owner host.Address
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: only %s can perform this action", e.Owner)
}

// InvalidContractError is returned when the persisted version marker names
// a different contract.
type InvalidContractError struct {
	Contract string
}

func (e *InvalidContractError) Error() string {
	return fmt.Sprintf("invalid contract to migrate from: %s", e.Contract)
}

// InvalidContractVersionError is returned when the persisted version marker
// carries a version this contract knows no upgrade path from.
type InvalidContractVersionError struct {
	Version string
}

func (e *InvalidContractVersionError) Error() string {
	return fmt.Sprintf("unsupported contract version to migrate from: %s", e.Version)
}
