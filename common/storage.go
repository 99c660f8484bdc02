package common

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/countinglabs/counting-contract/host"
)

// PutJSON serializes value and puts it into contract storage under key.
func PutJSON(s host.Storage, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "serialize %q", key)
	}
	return s.Put([]byte(key), data)
}

// GetJSON reads the record under key and deserializes it into value.
// A missing key surfaces as host.ErrNotFound.
func GetJSON(s host.Storage, key string, value interface{}) error {
	data, err := s.Get([]byte(key))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, value); err != nil {
		return errors.Wrapf(err, "deserialize %q", key)
	}
	return nil
}
