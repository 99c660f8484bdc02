package tests

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	contract "github.com/countinglabs/counting-contract/contracts/counting"
	"github.com/countinglabs/counting-contract/host"
	rpc "github.com/countinglabs/counting-contract/rpc/counting"
)

// CountingContract adapts the counting contract entry points to the chain
// dispatcher.
type CountingContract struct{}

// Instantiate implements Contract.
func (CountingContract) Instantiate(deps host.Deps, _ host.Env, info host.MessageInfo, msg []byte) (*host.Response, error) {
	var m contract.InstantiateMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	return contract.Instantiate(deps, info, m)
}

// Execute implements Contract.
func (CountingContract) Execute(deps host.Deps, env host.Env, info host.MessageInfo, msg []byte) (*host.Response, error) {
	var m contract.ExecuteMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	return contract.Execute(deps, env, info, m)
}

// Query implements Contract.
func (CountingContract) Query(storage host.Storage, msg []byte) ([]byte, error) {
	var m contract.QueryMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	return contract.Query(storage, m)
}

// Migrate implements Contract.
func (CountingContract) Migrate(storage host.Storage, msg []byte) (*host.Response, error) {
	var m contract.MigrateMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil, err
	}
	return contract.Migrate(storage, m)
}

func newChain(t *testing.T) *LocalChain {
	return NewLocalChain(zerolog.New(zerolog.NewTestWriter(t)))
}

func countingClient(c *LocalChain, addr host.Address) *rpc.Client {
	return rpc.New(c, addr)
}

func instantiateCounting(t *testing.T, c *LocalChain, sender host.Address, msg contract.InstantiateMsg) *rpc.Client {
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	addr, err := c.Instantiate(CountingContract{}, sender, nil, raw)
	require.NoError(t, err)

	return rpc.New(c, addr)
}
