// Package tests provides a local chain harness: an in-process stand-in for
// the host runtime that dispatches entry point calls, keeps account
// balances and applies queued outbound messages atomically.
package tests

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/countinglabs/counting-contract/host"
)

// Contract is the executable surface the chain dispatches raw calls to.
type Contract interface {
	Instantiate(deps host.Deps, env host.Env, info host.MessageInfo, msg []byte) (*host.Response, error)
	Execute(deps host.Deps, env host.Env, info host.MessageInfo, msg []byte) (*host.Response, error)
	Query(storage host.Storage, msg []byte) ([]byte, error)
	Migrate(storage host.Storage, msg []byte) (*host.Response, error)
}

type instance struct {
	contract Contract
	storage  *host.MemStorage
}

// LocalChain hosts contract instances and account balances in memory. It
// serializes calls by construction (no internal concurrency) and applies
// storage writes, balance moves and queued messages of a call only if the
// whole call succeeds.
type LocalChain struct {
	log       zerolog.Logger
	balances  map[host.Address]host.Coins
	instances map[host.Address]*instance
}

// NewLocalChain creates an empty chain logging through log.
func NewLocalChain(log zerolog.Logger) *LocalChain {
	return &LocalChain{
		log:       log,
		balances:  make(map[host.Address]host.Coins),
		instances: make(map[host.Address]*instance),
	}
}

// InitBalance credits an account out of thin air. Test setup only.
func (c *LocalChain) InitBalance(addr host.Address, coins host.Coins) {
	c.balances[addr] = c.balances[addr].Clone()
	for _, coin := range coins {
		c.balances[addr] = c.balances[addr].Add(coin)
	}
}

// AllBalances implements host.BankView.
func (c *LocalChain) AllBalances(addr host.Address) (host.Coins, error) {
	return c.balances[addr].Clone(), nil
}

// ContractStorage exposes the raw storage of a deployed instance, for
// migration tests that need to seed or inspect legacy layouts.
func (c *LocalChain) ContractStorage(addr host.Address) (*host.MemStorage, error) {
	inst, ok := c.instances[addr]
	if !ok {
		return nil, errors.Errorf("no contract at %s", addr)
	}
	return inst.storage, nil
}

// Deploy registers a contract with empty storage without running its
// instantiate entry point. Migration tests use it to build pre-marker
// layouts by hand.
func (c *LocalChain) Deploy(ct Contract) host.Address {
	addr := host.NewAddress()
	c.instances[addr] = &instance{contract: ct, storage: host.NewMemStorage()}
	return addr
}

// Instantiate deploys a contract and runs its instantiate entry point with
// the given caller and attached funds.
func (c *LocalChain) Instantiate(ct Contract, sender host.Address, funds host.Coins, msg []byte) (host.Address, error) {
	snap := c.snapshot()
	addr := c.Deploy(ct)
	inst := c.instances[addr]

	err := c.transfer(sender, addr, funds)
	if err == nil {
		_, err = ct.Instantiate(
			host.Deps{Storage: inst.storage, Bank: c},
			host.Env{Contract: addr},
			host.MessageInfo{Sender: sender, Funds: funds},
			msg,
		)
	}
	if err != nil {
		delete(c.instances, addr)
		c.restore(snap)
		return "", err
	}

	c.log.Info().
		Str("contract", addr.String()).
		Str("sender", sender.String()).
		Msg("contract instantiated")
	return addr, nil
}

// Execute runs an execute entry point. On failure every storage write,
// balance move and queued message of the call, including nested calls, is
// rolled back.
func (c *LocalChain) Execute(addr, sender host.Address, funds host.Coins, msg []byte) (*host.Response, error) {
	txID := uuid.New()
	snap := c.snapshot()

	resp, err := c.execute(addr, sender, funds, msg)
	if err != nil {
		c.restore(snap)
		c.log.Info().
			Str("tx", txID.String()).
			Str("contract", addr.String()).
			Str("sender", sender.String()).
			Err(err).
			Msg("execution failed, rolled back")
		return nil, err
	}

	c.log.Info().
		Str("tx", txID.String()).
		Str("contract", addr.String()).
		Str("sender", sender.String()).
		Msg("executed")
	return resp, nil
}

// Query runs a read-only query entry point.
func (c *LocalChain) Query(addr host.Address, msg []byte) ([]byte, error) {
	inst, ok := c.instances[addr]
	if !ok {
		return nil, errors.Errorf("no contract at %s", addr)
	}
	return inst.contract.Query(inst.storage, msg)
}

// Migrate runs the migrate entry point of a deployed instance, rolling
// back its storage on failure.
func (c *LocalChain) Migrate(addr host.Address, msg []byte) (*host.Response, error) {
	inst, ok := c.instances[addr]
	if !ok {
		return nil, errors.Errorf("no contract at %s", addr)
	}

	snap := inst.storage.Copy()
	resp, err := inst.contract.Migrate(inst.storage, msg)
	if err != nil {
		inst.storage.Restore(snap)
		return nil, err
	}
	return resp, nil
}

func (c *LocalChain) execute(addr, sender host.Address, funds host.Coins, msg []byte) (*host.Response, error) {
	inst, ok := c.instances[addr]
	if !ok {
		return nil, errors.Errorf("no contract at %s", addr)
	}

	if err := c.transfer(sender, addr, funds); err != nil {
		return nil, err
	}

	resp, err := inst.contract.Execute(
		host.Deps{Storage: inst.storage, Bank: c},
		host.Env{Contract: addr},
		host.MessageInfo{Sender: sender, Funds: funds},
		msg,
	)
	if err != nil {
		return nil, err
	}

	if err := c.apply(addr, resp.Messages); err != nil {
		return nil, err
	}
	return resp, nil
}

// apply dispatches the queued outbound messages of a successful call, in
// order. Nested calls run under the same all-or-nothing transaction as the
// call that queued them.
func (c *LocalChain) apply(from host.Address, msgs []host.Message) error {
	for _, msg := range msgs {
		switch m := msg.(type) {
		case host.BankSend:
			if err := c.transfer(from, m.ToAddress, m.Amount); err != nil {
				return err
			}
		case host.ContractCall:
			if _, err := c.execute(m.Contract, from, m.Funds, m.Msg); err != nil {
				return err
			}
		default:
			return errors.Errorf("unknown outbound message %T", msg)
		}
	}
	return nil
}

func (c *LocalChain) transfer(from, to host.Address, coins host.Coins) error {
	if coins.IsZero() {
		return nil
	}
	left, err := c.balances[from].Sub(coins)
	if err != nil {
		return errors.Wrapf(err, "transfer from %s", from)
	}
	c.balances[from] = left
	for _, coin := range coins {
		c.balances[to] = c.balances[to].Add(coin)
	}
	return nil
}

type chainSnapshot struct {
	balances map[host.Address]host.Coins
	storages map[host.Address]*host.MemStorage
}

func (c *LocalChain) snapshot() chainSnapshot {
	snap := chainSnapshot{
		balances: make(map[host.Address]host.Coins, len(c.balances)),
		storages: make(map[host.Address]*host.MemStorage, len(c.instances)),
	}
	for addr, coins := range c.balances {
		snap.balances[addr] = coins.Clone()
	}
	for addr, inst := range c.instances {
		snap.storages[addr] = inst.storage.Copy()
	}
	return snap
}

func (c *LocalChain) restore(snap chainSnapshot) {
	c.balances = snap.balances
	for addr, storage := range snap.storages {
		if inst, ok := c.instances[addr]; ok {
			inst.storage.Restore(storage)
		}
	}
}
