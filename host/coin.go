package host

import (
	"encoding/json"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Coin is an amount of a single denomination. Amounts are unsigned and
// JSON-encoded as decimal strings, matching the runtime's bank encoding.
type Coin struct {
	Denom  string
	Amount *uint256.Int
}

// NewCoin returns a coin of the given denomination and amount.
func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: uint256.NewInt(amount)}
}

// IsZero reports whether the coin amount is zero.
func (c Coin) IsZero() bool {
	return c.Amount == nil || c.Amount.IsZero()
}

type coinJSON struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// MarshalJSON implements json.Marshaler.
func (c Coin) MarshalJSON() ([]byte, error) {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.Dec()
	}
	return json.Marshal(coinJSON{Denom: c.Denom, Amount: amount})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coin) UnmarshalJSON(data []byte) error {
	var aux coinJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	amount, err := uint256.FromDecimal(aux.Amount)
	if err != nil {
		return errors.Wrapf(err, "invalid amount %q of %q", aux.Amount, aux.Denom)
	}
	c.Denom = aux.Denom
	c.Amount = amount
	return nil
}

// Coins is a set of coins with at most one entry per denomination, kept
// sorted by denomination.
type Coins []Coin

// NewCoins normalizes the given coins into a set: duplicates are summed,
// zero amounts dropped.
func NewCoins(coins ...Coin) Coins {
	var out Coins
	for _, c := range coins {
		out = out.Add(c)
	}
	return out
}

// Find returns the coin of the given denomination, if present.
func (cs Coins) Find(denom string) (Coin, bool) {
	for _, c := range cs {
		if c.Denom == denom {
			return c, true
		}
	}
	return Coin{}, false
}

// Add returns the set with the coin merged in. Zero amounts leave the set
// unchanged.
func (cs Coins) Add(add Coin) Coins {
	out := cs.Clone()
	if add.IsZero() {
		return out
	}
	for i := range out {
		if out[i].Denom == add.Denom {
			out[i].Amount = new(uint256.Int).Add(out[i].Amount, add.Amount)
			return out
		}
	}
	out = append(out, Coin{Denom: add.Denom, Amount: new(uint256.Int).Set(add.Amount)})
	sort.Slice(out, func(i, j int) bool { return out[i].Denom < out[j].Denom })
	return out
}

// Sub returns the set with every coin of sub removed from it. It fails if
// any denomination would go negative.
func (cs Coins) Sub(sub Coins) (Coins, error) {
	out := cs.Clone()
	for _, s := range sub {
		if s.IsZero() {
			continue
		}
		i := -1
		for j := range out {
			if out[j].Denom == s.Denom {
				i = j
				break
			}
		}
		if i < 0 {
			return nil, errors.Errorf("insufficient funds: missing %q", s.Denom)
		}
		res, underflow := new(uint256.Int).SubOverflow(out[i].Amount, s.Amount)
		if underflow {
			return nil, errors.Errorf("insufficient funds: %s %q < %s %q",
				out[i].Amount.Dec(), s.Denom, s.Amount.Dec(), s.Denom)
		}
		out[i].Amount = res
	}
	// drop exhausted denominations
	filtered := out[:0]
	for _, c := range out {
		if !c.IsZero() {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// IsZero reports whether the set holds no value.
func (cs Coins) IsZero() bool {
	for _, c := range cs {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (cs Coins) Clone() Coins {
	out := make(Coins, 0, len(cs))
	for _, c := range cs {
		out = append(out, Coin{Denom: c.Denom, Amount: new(uint256.Int).Set(c.Amount)})
	}
	return out
}
