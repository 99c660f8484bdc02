package counting

import (
	"github.com/shopspring/decimal"

	"github.com/countinglabs/counting-contract/common"
	"github.com/countinglabs/counting-contract/host"
)

// Storage keys of the current schema. The legacy per-field keys are only
// read by migrations, see contract.go.
const (
	stateKey          = "state"
	parentDonationKey = "parent_donation"

	legacyCounterKey         = "counter"
	legacyMinimalDonationKey = "minimal_donation"
	legacyOwnerKey           = "owner"
)

// State is the single persistent record of a contract instance. It is
// created at instantiation and mutated only by execute transitions.
type State struct {
	Counter         uint64       `json:"counter"`
	MinimalDonation host.Coin    `json:"minimal_donation"`
	Owner           host.Address `json:"owner"`

	// DonatingParent is the number of counted donations left before the
	// next forwarding to the parent. Nil when no parent is configured.
	DonatingParent *uint64 `json:"donating_parent"`
}

// ParentDonation describes the forwarding target. It exists iff
// State.DonatingParent is set and is read-only after instantiation.
type ParentDonation struct {
	Address              host.Address    `json:"address"`
	DonatingParentPeriod uint64          `json:"donating_parent_period"`
	Part                 decimal.Decimal `json:"part"`
}

func loadState(s host.Storage) (State, error) {
	var state State
	err := common.GetJSON(s, stateKey, &state)
	return state, err
}

func saveState(s host.Storage, state *State) error {
	return common.PutJSON(s, stateKey, state)
}

func loadParentDonation(s host.Storage) (ParentDonation, error) {
	var parent ParentDonation
	err := common.GetJSON(s, parentDonationKey, &parent)
	return parent, err
}

func saveParentDonation(s host.Storage, parent *ParentDonation) error {
	return common.PutJSON(s, parentDonationKey, parent)
}
