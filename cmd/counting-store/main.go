// Command counting-store inspects and migrates an offline counting
// contract store dumped to a leveldb database. Migration runs out-of-band
// from normal execution: no call may touch the store while it is upgraded.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/countinglabs/counting-contract/common"
	counting "github.com/countinglabs/counting-contract/contracts/counting"
	"github.com/countinglabs/counting-contract/host"
)

var (
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	dbPath string
)

func main() {
	root := &cobra.Command{
		Use:           "counting-store",
		Short:         "Offline tooling for a counting contract store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the leveldb contract store")
	cobra.CheckErr(root.MarkPersistentFlagRequired("db"))

	root.AddCommand(
		&cobra.Command{
			Use:   "inspect",
			Short: "Print the persisted schema version and state",
			RunE: func(*cobra.Command, []string) error {
				return withStorage(inspect)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Upgrade the persisted data to the current schema",
			RunE: func(*cobra.Command, []string) error {
				return withStorage(migrate)
			},
		},
	)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func withStorage(fn func(*host.LevelDBStorage) error) error {
	storage, err := host.OpenLevelDBStorage(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	return fn(storage)
}

func inspect(storage *host.LevelDBStorage) error {
	info, err := common.GetContractVersion(storage)
	switch {
	case errors.Is(err, host.ErrNotFound):
		// the oldest generation predates the marker
		info = common.VersionInfo{Contract: common.ContractName, Version: common.VersionLegacyItems}
		log.Warn().Msg("no version marker, assuming the oldest schema")
	case err != nil:
		return err
	}

	fmt.Printf("contract: %s\nversion:  %s\n", info.Contract, info.Version)

	keys := []string{"state", "parent_donation"}
	if info.Version == common.VersionLegacyItems {
		keys = []string{"counter", "minimal_donation", "owner"}
	}
	for _, key := range keys {
		data, err := storage.Get([]byte(key))
		if errors.Is(err, host.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", key, data)
	}
	return nil
}

func migrate(storage *host.LevelDBStorage) error {
	if _, err := counting.Migrate(storage, counting.MigrateMsg{}); err != nil {
		return err
	}

	info, err := common.GetContractVersion(storage)
	if err != nil {
		return err
	}
	log.Info().Str("version", info.Version).Msg("store migrated")
	return nil
}
