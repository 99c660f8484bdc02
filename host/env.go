package host

// Env describes the call environment the runtime supplies to an entry
// point.
type Env struct {
	// Contract is the address of the executing contract instance.
	Contract Address
}

// MessageInfo carries the caller identity and the funds attached to the
// call. Attached funds are credited to the contract before the entry point
// runs.
type MessageInfo struct {
	Sender Address
	Funds  Coins
}

// BankView is a read-only view of account balances.
type BankView interface {
	// AllBalances returns every denomination held by the account.
	AllBalances(addr Address) (Coins, error)
}

// Deps bundles the host facilities a single call may touch.
type Deps struct {
	Storage Storage
	Bank    BankView
}
