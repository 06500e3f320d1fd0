// Copyright 2025 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

var (
	artifactCommand = &cli.Command{
		Name:  "artifact",
		Usage: "Low level artifact store operations",
		Subcommands: []*cli.Command{
			artifactShowCommand,
			artifactStatCommand,
		},
	}
	artifactShowCommand = &cli.Command{
		Action: showArtifact,
		Name:   "show",
		Usage:  "Print the stored artifact record",
		Description: `
This command prints the artifact record of the configured store as indented
JSON, the same layout as the file backend writes.`,
	}
	artifactStatCommand = &cli.Command{
		Action: artifactStats,
		Name:   "stats",
		Usage:  "Print leveldb or pebble statistics of the artifact store",
	}
)

func openStore(ctx *cli.Context) (artifact.Store, error) {
	cfg := loadBaseConfig(ctx)
	return artifact.Open(cfg.Pipeline.Artifact)
}

func showArtifact(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sctx, cancel := signalContext()
	defer cancel()
	a, err := store.Read(sctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

func artifactStats(ctx *cli.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	db, ok := store.(*artifact.DBStore)
	if !ok {
		return errors.New("statistics are only kept by the leveldb and pebble backends")
	}
	showDBStats(db)
	return nil
}

func showDBStats(db interface{ Stat() (string, error) }) {
	stats, err := db.Stat()
	if err != nil {
		log.Warn("Failed to read database stats", "error", err)
		return
	}
	fmt.Println(stats)
}
