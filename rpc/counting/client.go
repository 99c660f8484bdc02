// Package counting contains typed wrappers for the counting contract entry
// points, usable against any dispatcher that can route calls to a deployed
// instance.
package counting

import (
	"encoding/json"

	"github.com/pkg/errors"

	contract "github.com/countinglabs/counting-contract/contracts/counting"
	"github.com/countinglabs/counting-contract/host"
)

// Invoker routes raw entry point calls to a contract instance. The local
// chain harness implements it; a remote gateway can as well.
type Invoker interface {
	Execute(contract, sender host.Address, funds host.Coins, msg []byte) (*host.Response, error)
	Query(contract host.Address, msg []byte) ([]byte, error)
}

// Client invokes a single deployed counting contract instance.
type Client struct {
	inv      Invoker
	contract host.Address
}

// New creates a Client for the instance at addr.
func New(inv Invoker, addr host.Address) *Client {
	return &Client{inv: inv, contract: addr}
}

// Addr returns the address of the bound instance.
func (c *Client) Addr() host.Address {
	return c.contract
}

// Donate sends a donation with the given funds attached.
func (c *Client) Donate(sender host.Address, funds host.Coins) (*host.Response, error) {
	return c.execute(sender, funds, contract.ExecuteMsg{Donate: &contract.DonateMsg{}})
}

// Reset overwrites the counter. Owner only.
func (c *Client) Reset(sender host.Address, counter uint64) (*host.Response, error) {
	return c.execute(sender, nil, contract.ExecuteMsg{Reset: &contract.ResetMsg{Counter: counter}})
}

// Withdraw moves the whole contract balance to the owner. Owner only.
func (c *Client) Withdraw(sender host.Address) (*host.Response, error) {
	return c.execute(sender, nil, contract.ExecuteMsg{Withdraw: &contract.WithdrawMsg{}})
}

// WithdrawTo moves funds to receiver, capped by the funds limit. Owner
// only.
func (c *Client) WithdrawTo(sender, receiver host.Address, funds host.Coins) (*host.Response, error) {
	return c.execute(sender, nil, contract.ExecuteMsg{WithdrawTo: &contract.WithdrawToMsg{
		Receiver: receiver.String(),
		Funds:    funds,
	}})
}

// Value returns the current counter.
func (c *Client) Value() (uint64, error) {
	return c.query(contract.QueryMsg{Value: &contract.ValueMsg{}})
}

// Incremented returns value + 1 as computed by the contract.
func (c *Client) Incremented(value uint64) (uint64, error) {
	return c.query(contract.QueryMsg{Incremented: &contract.IncrementedMsg{Value: value}})
}

func (c *Client) execute(sender host.Address, funds host.Coins, msg contract.ExecuteMsg) (*host.Response, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "marshal execute message")
	}
	return c.inv.Execute(c.contract, sender, funds, raw)
}

func (c *Client) query(msg contract.QueryMsg) (uint64, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return 0, errors.Wrap(err, "marshal query message")
	}
	data, err := c.inv.Query(c.contract, raw)
	if err != nil {
		return 0, err
	}
	var resp contract.ValueResp
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, errors.Wrap(err, "unmarshal query response")
	}
	return resp.Value, nil
}
