package counting

import (
	"encoding/json"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/countinglabs/counting-contract/common"
	"github.com/countinglabs/counting-contract/host"
)

// Instantiate creates the contract state. The caller becomes the owner. If
// a parent is configured, its donating period must be positive and its part
// within [0, 1].
func Instantiate(deps host.Deps, info host.MessageInfo, msg InstantiateMsg) (*host.Response, error) {
	if err := common.SetContractVersion(deps.Storage); err != nil {
		return nil, err
	}

	var donatingParent *uint64
	if msg.Parent != nil {
		if msg.Parent.DonatingPeriod == 0 {
			return nil, errors.New("parent donating period must be positive")
		}
		if msg.Parent.Part.IsNegative() || msg.Parent.Part.GreaterThan(decimal.NewFromInt(1)) {
			return nil, errors.Errorf("parent part %s out of [0, 1]", msg.Parent.Part)
		}
		period := msg.Parent.DonatingPeriod
		donatingParent = &period
	}

	err := saveState(deps.Storage, &State{
		Counter:         msg.Counter,
		MinimalDonation: msg.MinimalDonation,
		Owner:           info.Sender,
		DonatingParent:  donatingParent,
	})
	if err != nil {
		return nil, err
	}

	if msg.Parent != nil {
		addr, err := host.AddressFromString(msg.Parent.Addr)
		if err != nil {
			return nil, errors.Wrap(err, "parent address")
		}

		err = saveParentDonation(deps.Storage, &ParentDonation{
			Address:              addr,
			DonatingParentPeriod: msg.Parent.DonatingPeriod,
			Part:                 msg.Parent.Part,
		})
		if err != nil {
			return nil, err
		}
	}

	return host.NewResponse(), nil
}

// Migrate upgrades persisted data from any known prior schema to the
// current one and writes the current version marker. It is idempotent at
// the current version. The msg parent is accepted but not consulted by the
// cascade.
func Migrate(storage host.Storage, _ MigrateMsg) (*host.Response, error) {
	info, err := common.GetContractVersion(storage)
	if err != nil {
		if !errors.Is(err, host.ErrNotFound) {
			return nil, err
		}
		// The oldest generation predates the version marker.
		info = common.VersionInfo{
			Contract: common.ContractName,
			Version:  common.VersionLegacyItems,
		}
	}

	if info.Contract != common.ContractName {
		return nil, &InvalidContractError{Contract: info.Contract}
	}

	switch info.Version {
	case common.Version:
		return host.NewResponse(), nil
	case common.VersionLegacyItems:
		err = migrateLegacyItems(storage)
	case common.VersionLegacyComposite:
		err = migrateLegacyComposite(storage)
	default:
		return nil, &InvalidContractVersionError{Version: info.Version}
	}
	if err != nil {
		return nil, err
	}

	if err := common.SetContractVersion(storage); err != nil {
		return nil, err
	}

	return host.NewResponse(), nil
}

// migrateLegacyItems upgrades from the 0.1.0 layout: three records, one per
// field, under their own keys. All reads happen before the composite record
// is written, so a missing legacy record aborts the migration with storage
// untouched.
func migrateLegacyItems(s host.Storage) error {
	var (
		counter         uint64
		minimalDonation host.Coin
		owner           host.Address
	)
	if err := common.GetJSON(s, legacyCounterKey, &counter); err != nil {
		return err
	}
	if err := common.GetJSON(s, legacyMinimalDonationKey, &minimalDonation); err != nil {
		return err
	}
	if err := common.GetJSON(s, legacyOwnerKey, &owner); err != nil {
		return err
	}

	err := saveState(s, &State{
		Counter:         counter,
		MinimalDonation: minimalDonation,
		Owner:           owner,
		DonatingParent:  nil,
	})
	if err != nil {
		return err
	}

	for _, key := range []string{legacyCounterKey, legacyMinimalDonationKey, legacyOwnerKey} {
		if err := s.Delete([]byte(key)); err != nil {
			return err
		}
	}
	return nil
}

// migrateLegacyComposite upgrades from the 0.2.0 layout: the composite
// record under the current key, without the donating parent field.
func migrateLegacyComposite(s host.Storage) error {
	var old struct {
		Counter         uint64       `json:"counter"`
		MinimalDonation host.Coin    `json:"minimal_donation"`
		Owner           host.Address `json:"owner"`
	}
	if err := common.GetJSON(s, stateKey, &old); err != nil {
		return err
	}

	return saveState(s, &State{
		Counter:         old.Counter,
		MinimalDonation: old.MinimalDonation,
		Owner:           old.Owner,
		DonatingParent:  nil,
	})
}

// Execute dispatches an execute message to its handler.
func Execute(deps host.Deps, env host.Env, info host.MessageInfo, msg ExecuteMsg) (*host.Response, error) {
	switch {
	case msg.Donate != nil:
		return Donate(deps, env, info)
	case msg.Reset != nil:
		return Reset(deps, info, msg.Reset.Counter)
	case msg.Withdraw != nil:
		return Withdraw(deps, env, info)
	case msg.WithdrawTo != nil:
		receiver, err := host.AddressFromString(msg.WithdrawTo.Receiver)
		if err != nil {
			return nil, errors.Wrap(err, "receiver")
		}
		return WithdrawTo(deps, env, info, receiver, msg.WithdrawTo.Funds)
	default:
		return nil, errors.New("unknown execute message")
	}
}

// Donate counts the attached funds if they meet the minimal donation, and
// every DonatingParentPeriod counted donations forwards a part of the
// balance to the parent as a nested donate call. Non-qualifying donations
// leave state untouched. Any caller may donate.
func Donate(deps host.Deps, env host.Env, info host.MessageInfo) (*host.Response, error) {
	state, err := loadState(deps.Storage)
	if err != nil {
		return nil, err
	}

	resp := host.NewResponse()

	if meetsMinimalDonation(&state, info.Funds) {
		state.Counter++

		if state.DonatingParent != nil {
			*state.DonatingParent--

			if *state.DonatingParent == 0 {
				// DonatingParent being set implies the parent record exists.
				parent, err := loadParentDonation(deps.Storage)
				if err != nil {
					return nil, err
				}

				balance, err := deps.Bank.AllBalances(env.Contract)
				if err != nil {
					return nil, err
				}

				donateMsg, err := json.Marshal(ExecuteMsg{Donate: &DonateMsg{}})
				if err != nil {
					return nil, err
				}

				resp.AddMessage(host.ContractCall{
					Contract: parent.Address,
					Msg:      donateMsg,
					Funds:    forwardedPart(balance, parent.Part),
				})
				resp.AddAttribute("donated_to_parent", parent.Address.String())

				*state.DonatingParent = parent.DonatingParentPeriod
			}
		}

		if err := saveState(deps.Storage, &state); err != nil {
			return nil, err
		}
	}

	resp.AddAttribute("action", "donate").
		AddAttribute("sender", info.Sender.String()).
		AddAttribute("counter", strconv.FormatUint(state.Counter, 10))

	return resp, nil
}

// meetsMinimalDonation reports whether funds qualify as a donation. A zero
// minimal amount disables the threshold.
func meetsMinimalDonation(state *State, funds host.Coins) bool {
	if state.MinimalDonation.IsZero() {
		return true
	}
	coin, ok := funds.Find(state.MinimalDonation.Denom)
	return ok && coin.Amount.Cmp(state.MinimalDonation.Amount) >= 0
}

// forwardedPart scales every balance denomination by part, truncating the
// fractional remainder. Denominations scaled down to zero are dropped.
func forwardedPart(balance host.Coins, part decimal.Decimal) host.Coins {
	out := make(host.Coins, 0, len(balance))
	for _, coin := range balance {
		scaled := decimal.NewFromBigInt(coin.Amount.ToBig(), 0).Mul(part).Truncate(0)
		amount, overflow := uint256.FromBig(scaled.BigInt())
		if overflow || amount.IsZero() {
			continue
		}
		out = append(out, host.Coin{Denom: coin.Denom, Amount: amount})
	}
	return out
}

// Reset overwrites the counter with an absolute value. Owner only.
func Reset(deps host.Deps, info host.MessageInfo, counter uint64) (*host.Response, error) {
	state, err := loadState(deps.Storage)
	if err != nil {
		return nil, err
	}
	if info.Sender != state.Owner {
		return nil, &UnauthorizedError{Owner: state.Owner}
	}

	state.Counter = counter
	if err := saveState(deps.Storage, &state); err != nil {
		return nil, err
	}

	resp := host.NewResponse().
		AddAttribute("action", "reset").
		AddAttribute("sender", info.Sender.String()).
		AddAttribute("counter", strconv.FormatUint(counter, 10))

	return resp, nil
}

// Withdraw moves the entire contract balance, every denomination in full,
// to the owner. Owner only. State is not touched.
func Withdraw(deps host.Deps, env host.Env, info host.MessageInfo) (*host.Response, error) {
	state, err := loadState(deps.Storage)
	if err != nil {
		return nil, err
	}
	if info.Sender != state.Owner {
		return nil, &UnauthorizedError{Owner: state.Owner}
	}

	balance, err := deps.Bank.AllBalances(env.Contract)
	if err != nil {
		return nil, err
	}

	resp := host.NewResponse().
		AddMessage(host.BankSend{ToAddress: state.Owner, Amount: balance}).
		AddAttribute("action", "withdraw").
		AddAttribute("sender", info.Sender.String())

	return resp, nil
}

// WithdrawTo moves funds to receiver, capped per denomination by fundsLimit.
// The limit is both an allow-list and a ceiling: denominations it does not
// mention are withheld entirely, and it never transfers beyond the actual
// balance. An empty limit withdraws nothing. Owner only.
func WithdrawTo(deps host.Deps, env host.Env, info host.MessageInfo, receiver host.Address, fundsLimit host.Coins) (*host.Response, error) {
	state, err := loadState(deps.Storage)
	if err != nil {
		return nil, err
	}
	if info.Sender != state.Owner {
		return nil, &UnauthorizedError{Owner: state.Owner}
	}

	balance, err := deps.Bank.AllBalances(env.Contract)
	if err != nil {
		return nil, err
	}

	transfer := make(host.Coins, 0, len(balance))
	for _, coin := range balance {
		limit, ok := fundsLimit.Find(coin.Denom)
		if !ok {
			continue
		}
		amount := coin.Amount
		if limit.Amount.Cmp(amount) < 0 {
			amount = limit.Amount
		}
		if amount.IsZero() {
			continue
		}
		transfer = append(transfer, host.Coin{Denom: coin.Denom, Amount: amount})
	}

	resp := host.NewResponse().
		AddAttribute("action", "withdraw").
		AddAttribute("sender", info.Sender.String())
	if len(transfer) > 0 {
		resp.AddMessage(host.BankSend{ToAddress: receiver, Amount: transfer})
	}

	return resp, nil
}

// Query dispatches a query message to its handler and serializes the
// result.
func Query(storage host.Storage, msg QueryMsg) ([]byte, error) {
	var (
		resp interface{}
		err  error
	)
	switch {
	case msg.Value != nil:
		resp, err = Value(storage)
	case msg.Incremented != nil:
		resp = Incremented(msg.Incremented.Value)
	default:
		return nil, errors.New("unknown query message")
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(resp)
}

// Value returns the current counter.
func Value(storage host.Storage) (ValueResp, error) {
	state, err := loadState(storage)
	if err != nil {
		return ValueResp{}, err
	}
	return ValueResp{Value: state.Counter}, nil
}

// Incremented returns the successor of value.
func Incremented(value uint64) ValueResp {
	return ValueResp{Value: value + 1}
}
