// Package common holds helpers shared by the contract core and the offline
// tooling: the persisted version marker and serialized storage access.
package common

import (
	"github.com/countinglabs/counting-contract/host"
)

const (
	// ContractName identifies this contract in the version marker. A marker
	// naming a different contract must never be migrated.
	ContractName = "counting-contract"

	// Version is the semantic version of the currently persisted schema.
	Version = "0.3.0"

	// Versions a migration can start from.
	VersionLegacyItems     = "0.1.0" // one record per field
	VersionLegacyComposite = "0.2.0" // composite record, no parent countdown
)

// versionKey is the storage key of the version marker. The oldest schema
// generation predates the marker, so its absence is meaningful.
const versionKey = "contract_info"

// VersionInfo is the persisted version marker.
type VersionInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// SetContractVersion writes the current version marker.
func SetContractVersion(s host.Storage) error {
	return PutJSON(s, versionKey, VersionInfo{
		Contract: ContractName,
		Version:  Version,
	})
}

// GetContractVersion reads the version marker. It returns host.ErrNotFound
// if no marker was ever written.
func GetContractVersion(s host.Storage) (VersionInfo, error) {
	var info VersionInfo
	err := GetJSON(s, versionKey, &info)
	return info, err
}
