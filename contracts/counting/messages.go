package counting

import (
	"github.com/shopspring/decimal"

	"github.com/countinglabs/counting-contract/host"
)

// Parent configures the forwarding target at instantiation.
type Parent struct {
	Addr string `json:"addr"`
	// DonatingPeriod is the number of counted donations between two
	// forwarding events.
	DonatingPeriod uint64 `json:"donating_period"`
	// Part is the fraction of the balance forwarded each event.
	Part decimal.Decimal `json:"part"`
}

// InstantiateMsg initializes a contract instance.
type InstantiateMsg struct {
	Counter         uint64    `json:"counter"`
	MinimalDonation host.Coin `json:"minimal_donation"`
	Parent          *Parent   `json:"parent,omitempty"`
}

// ExecuteMsg is the execute entry point union. Exactly one variant must be
// set.
type ExecuteMsg struct {
	Donate     *DonateMsg     `json:"donate,omitempty"`
	Reset      *ResetMsg      `json:"reset,omitempty"`
	Withdraw   *WithdrawMsg   `json:"withdraw,omitempty"`
	WithdrawTo *WithdrawToMsg `json:"withdraw_to,omitempty"`
}

// DonateMsg counts the attached funds as a donation.
type DonateMsg struct{}

// ResetMsg overwrites the counter. Owner only.
type ResetMsg struct {
	Counter uint64 `json:"counter"`
}

// WithdrawMsg moves the whole contract balance to the owner. Owner only.
type WithdrawMsg struct{}

// WithdrawToMsg moves funds to an arbitrary receiver, capped per
// denomination by Funds. Owner only.
type WithdrawToMsg struct {
	Receiver string     `json:"receiver"`
	Funds    host.Coins `json:"funds,omitempty"`
}

// QueryMsg is the query entry point union. Exactly one variant must be set.
type QueryMsg struct {
	Value       *ValueMsg       `json:"value,omitempty"`
	Incremented *IncrementedMsg `json:"incremented,omitempty"`
}

// ValueMsg queries the current counter.
type ValueMsg struct{}

// IncrementedMsg queries the successor of an arbitrary value.
type IncrementedMsg struct {
	Value uint64 `json:"value"`
}

// MigrateMsg triggers a schema migration. Parent is accepted for forward
// compatibility and currently unused by the migration cascade.
type MigrateMsg struct {
	Parent *Parent `json:"parent,omitempty"`
}

// ValueResp is the response of the Value and Incremented queries.
type ValueResp struct {
	Value uint64 `json:"value"`
}
