package counting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/countinglabs/counting-contract/common"
	counting "github.com/countinglabs/counting-contract/contracts/counting"
	"github.com/countinglabs/counting-contract/host"
)

const atom = "atom"

var (
	contractAddr = host.Address("contract")
	owner        = host.Address("owner")
	env          = host.Env{Contract: contractAddr}
)

// staticBank serves a fixed balance for the contract account.
type staticBank host.Coins

func (b staticBank) AllBalances(host.Address) (host.Coins, error) {
	return host.Coins(b).Clone(), nil
}

func newDeps(bank host.BankView) host.Deps {
	if bank == nil {
		bank = staticBank(nil)
	}
	return host.Deps{Storage: host.NewMemStorage(), Bank: bank}
}

func instantiate(t *testing.T, deps host.Deps, msg counting.InstantiateMsg) {
	_, err := counting.Instantiate(deps, host.MessageInfo{Sender: owner}, msg)
	require.NoError(t, err)
}

func loadState(t *testing.T, s host.Storage) counting.State {
	var state counting.State
	require.NoError(t, common.GetJSON(s, "state", &state))
	return state
}

func TestInstantiateParentValidation(t *testing.T) {
	for name, parent := range map[string]counting.Parent{
		"zero period": {
			Addr:           "parent",
			DonatingPeriod: 0,
			Part:           decimal.RequireFromString("0.5"),
		},
		"part above one": {
			Addr:           "parent",
			DonatingPeriod: 2,
			Part:           decimal.RequireFromString("1.5"),
		},
		"negative part": {
			Addr:           "parent",
			DonatingPeriod: 2,
			Part:           decimal.RequireFromString("-0.1"),
		},
		"invalid address": {
			Addr:           "0O", // not base58
			DonatingPeriod: 2,
			Part:           decimal.RequireFromString("0.5"),
		},
	} {
		t.Run(name, func(t *testing.T) {
			parent := parent
			_, err := counting.Instantiate(newDeps(nil), host.MessageInfo{Sender: owner}, counting.InstantiateMsg{
				MinimalDonation: host.NewCoin(atom, 10),
				Parent:          &parent,
			})
			require.Error(t, err)
		})
	}
}

func TestDonateThreshold(t *testing.T) {
	for name, tc := range map[string]struct {
		minimal host.Coin
		funds   host.Coins
		counted bool
	}{
		"no funds":          {host.NewCoin(atom, 10), nil, false},
		"insufficient":      {host.NewCoin(atom, 10), host.NewCoins(host.NewCoin(atom, 9)), false},
		"wrong denom":       {host.NewCoin(atom, 10), host.NewCoins(host.NewCoin("stake", 10)), false},
		"exact":             {host.NewCoin(atom, 10), host.NewCoins(host.NewCoin(atom, 10)), true},
		"above":             {host.NewCoin(atom, 10), host.NewCoins(host.NewCoin(atom, 11)), true},
		"mixed with enough": {host.NewCoin(atom, 10), host.NewCoins(host.NewCoin("stake", 1), host.NewCoin(atom, 10)), true},
		"zero threshold":    {host.NewCoin(atom, 0), nil, true},
	} {
		t.Run(name, func(t *testing.T) {
			deps := newDeps(nil)
			instantiate(t, deps, counting.InstantiateMsg{MinimalDonation: tc.minimal})

			resp, err := counting.Donate(deps, env, host.MessageInfo{Sender: owner, Funds: tc.funds})
			require.NoError(t, err)

			var want uint64
			if tc.counted {
				want = 1
			}
			value, err := counting.Value(deps.Storage)
			require.NoError(t, err)
			require.Equal(t, want, value.Value)

			// attributes are emitted even for non-counted donations
			action, ok := resp.Attribute("action")
			require.True(t, ok)
			require.Equal(t, "donate", action)
			sender, _ := resp.Attribute("sender")
			require.Equal(t, owner.String(), sender)
			_, ok = resp.Attribute("counter")
			require.True(t, ok)
		})
	}
}

func TestDonateForwardsPartToParent(t *testing.T) {
	deps := newDeps(staticBank(host.NewCoins(host.NewCoin(atom, 21), host.NewCoin("stake", 1))))
	instantiate(t, deps, counting.InstantiateMsg{
		MinimalDonation: host.NewCoin(atom, 10),
		Parent: &counting.Parent{
			Addr:           "parent",
			DonatingPeriod: 2,
			Part:           decimal.RequireFromString("0.5"),
		},
	})

	resp, err := counting.Donate(deps, env, host.MessageInfo{
		Sender: owner,
		Funds:  host.NewCoins(host.NewCoin(atom, 10)),
	})
	require.NoError(t, err)
	require.Empty(t, resp.Messages)

	state := loadState(t, deps.Storage)
	require.NotNil(t, state.DonatingParent)
	require.EqualValues(t, 1, *state.DonatingParent)

	resp, err = counting.Donate(deps, env, host.MessageInfo{
		Sender: owner,
		Funds:  host.NewCoins(host.NewCoin(atom, 10)),
	})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)

	call, ok := resp.Messages[0].(host.ContractCall)
	require.True(t, ok)
	require.Equal(t, host.Address("parent"), call.Contract)
	require.JSONEq(t, `{"donate":{}}`, string(call.Msg))
	// 21 atom halved truncates to 10, a single stake halves to zero and is
	// dropped
	require.Equal(t, host.NewCoins(host.NewCoin(atom, 10)), call.Funds)

	// the countdown restarts for the next cycle
	state = loadState(t, deps.Storage)
	require.EqualValues(t, 2, *state.DonatingParent)
}

func TestDonateNotCountedLeavesCountdown(t *testing.T) {
	deps := newDeps(nil)
	instantiate(t, deps, counting.InstantiateMsg{
		MinimalDonation: host.NewCoin(atom, 10),
		Parent: &counting.Parent{
			Addr:           "parent",
			DonatingPeriod: 1,
			Part:           decimal.RequireFromString("0.5"),
		},
	})

	resp, err := counting.Donate(deps, env, host.MessageInfo{Sender: owner})
	require.NoError(t, err)
	require.Empty(t, resp.Messages)

	state := loadState(t, deps.Storage)
	require.EqualValues(t, 1, *state.DonatingParent)
}

func TestReset(t *testing.T) {
	deps := newDeps(nil)
	instantiate(t, deps, counting.InstantiateMsg{Counter: 10, MinimalDonation: host.NewCoin(atom, 10)})

	_, err := counting.Reset(deps, host.MessageInfo{Sender: owner}, 3)
	require.NoError(t, err)

	value, err := counting.Value(deps.Storage)
	require.NoError(t, err)
	require.EqualValues(t, 3, value.Value)
}

func TestResetUnauthorized(t *testing.T) {
	deps := newDeps(nil)
	instantiate(t, deps, counting.InstantiateMsg{Counter: 10, MinimalDonation: host.NewCoin(atom, 10)})

	_, err := counting.Reset(deps, host.MessageInfo{Sender: "stranger"}, 3)

	var unauthorized *counting.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	require.Equal(t, owner, unauthorized.Owner)

	value, err := counting.Value(deps.Storage)
	require.NoError(t, err)
	require.EqualValues(t, 10, value.Value)
}

func TestWithdrawWholeBalance(t *testing.T) {
	balance := host.NewCoins(host.NewCoin(atom, 10), host.NewCoin("stake", 3))
	deps := newDeps(staticBank(balance))
	instantiate(t, deps, counting.InstantiateMsg{MinimalDonation: host.NewCoin(atom, 10)})

	resp, err := counting.Withdraw(deps, env, host.MessageInfo{Sender: owner})
	require.NoError(t, err)

	require.Len(t, resp.Messages, 1)
	send, ok := resp.Messages[0].(host.BankSend)
	require.True(t, ok)
	require.Equal(t, owner, send.ToAddress)
	require.Equal(t, balance, send.Amount)
}

func TestWithdrawToClamp(t *testing.T) {
	receiver := host.Address("receiver")
	balance := host.NewCoins(host.NewCoin(atom, 10), host.NewCoin("stake", 3))

	for name, tc := range map[string]struct {
		limit host.Coins
		want  host.Coins
	}{
		"below balance":     {host.NewCoins(host.NewCoin(atom, 5)), host.NewCoins(host.NewCoin(atom, 5))},
		"above balance":     {host.NewCoins(host.NewCoin(atom, 50)), host.NewCoins(host.NewCoin(atom, 10))},
		"unheld denom only": {host.NewCoins(host.NewCoin("gold", 5)), nil},
		"empty limit":       {nil, nil},
	} {
		t.Run(name, func(t *testing.T) {
			deps := newDeps(staticBank(balance))
			instantiate(t, deps, counting.InstantiateMsg{MinimalDonation: host.NewCoin(atom, 10)})

			resp, err := counting.WithdrawTo(deps, env, host.MessageInfo{Sender: owner}, receiver, tc.limit)
			require.NoError(t, err)

			if tc.want == nil {
				require.Empty(t, resp.Messages)
				return
			}
			require.Len(t, resp.Messages, 1)
			send, ok := resp.Messages[0].(host.BankSend)
			require.True(t, ok)
			require.Equal(t, receiver, send.ToAddress)
			require.Equal(t, tc.want, send.Amount)
		})
	}
}

func TestQueryBeforeInstantiate(t *testing.T) {
	_, err := counting.Value(host.NewMemStorage())
	require.ErrorIs(t, err, host.ErrNotFound)
}
