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
	"bufio"
	"errors"
	"fmt"
	"math/big"
	"os"
	"reflect"
	"unicode"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/api"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/cmd/utils"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/internal/flags"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/pipeline"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

var (
	dumpConfigCommand = &cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Export configuration values in a TOML format",
		ArgsUsage:   "<dumpfile (optional)>",
		Description: `Export configuration values in TOML format (to stdout by default).`,
	}

	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if rt.Name() != "" && unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

type solgenConfig struct {
	Pipeline pipeline.Config
	API      api.Config
}

func loadConfig(file string, cfg *solgenConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

func defaultConfig() solgenConfig {
	cfg := solgenConfig{
		Pipeline: pipeline.Defaults,
		API:      api.DefaultConfig,
	}
	// The defaults hold shared pointers, the decoder must not write through them.
	cfg.Pipeline.Chain.MinBalance = new(big.Int).Set(pipeline.Defaults.Chain.MinBalance)
	cfg.Pipeline.Gas.FallbackPrice = new(big.Int).Set(pipeline.Defaults.Gas.FallbackPrice)
	cfg.API.CorsOrigins = append([]string(nil), api.DefaultConfig.CorsOrigins...)
	return cfg
}

// loadBaseConfig loads the solgenConfig based on the given command line
// parameters and config file.
func loadBaseConfig(ctx *cli.Context) solgenConfig {
	// Load defaults.
	cfg := defaultConfig()

	// Load config file.
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			utils.Fatalf("%v", err)
		}
	}

	// Apply flags.
	utils.SetPipelineConfig(ctx, &cfg.Pipeline)
	utils.SetAPIConfig(ctx, &cfg.API)
	return cfg
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg := loadBaseConfig(ctx)
	// Secrets stay out of the dump.
	cfg.Pipeline.Artifact.Minio.SecretKey = ""

	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	if cfg.Pipeline.Artifact.Minio.AccessKey != "" {
		dump.WriteString("# Note: the object store secret key is not included in this dump.\n\n")
	}
	dump.Write(out)

	return nil
}
