// Copyright 2025 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package flags

import (
	"math/big"
	"os"
	"runtime"
	"testing"

	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestPathExpansion(t *testing.T) {
	home := HomeDir()
	var tests map[string]string

	if runtime.GOOS == "windows" {
		tests = map[string]string{
			`/home/someuser/tmp`: `\home\someuser\tmp`,
			`~/tmp`:              home + `\tmp`,
			`~thisOtherUser/b/`:  `~thisOtherUser\b`,
			`$DDDXXX/a/b`:        `\tmp\a\b`,
			`/a/b/`:              `\a\b`,
		}
	} else {
		tests = map[string]string{
			`/home/someuser/tmp`: `/home/someuser/tmp`,
			`~/tmp`:              home + `/tmp`,
			`~thisOtherUser/b/`:  `~thisOtherUser/b`,
			`$DDDXXX/a/b`:        `/tmp/a/b`,
			`/a/b/`:              `/a/b`,
		}
	}

	os.Setenv(`DDDXXX`, `/tmp`)
	for test, expected := range tests {
		got := expandPath(test)
		if got != expected {
			t.Errorf(`test %s, got %s, expected %s\n`, test, got, expected)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want *big.Int
	}{
		{"0", big.NewInt(0)},
		{"12345", big.NewInt(12345)},
		{"0x10", big.NewInt(16)},
		{"1ether", big.NewInt(params.Ether)},
		{"0.01 ether", big.NewInt(params.Ether / 100)},
		{"20gwei", big.NewInt(20 * params.GWei)},
		{"1.5GWei", big.NewInt(1_500_000_000)},
		{"7wei", big.NewInt(7)},
	}
	for _, tt := range tests {
		have, err := ParseAmount(tt.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if have.Cmp(tt.want) != 0 {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, have, tt.want)
		}
	}
	for _, in := range []string{"ether", "abc", "1.5wei", "-1ether", "1e3"} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q): expected error", in)
		}
	}
}

func TestBigFlag(t *testing.T) {
	def := big.NewInt(params.GWei)
	flag := &BigFlag{Name: "price", Value: def, EnvVars: []string{"SOLGEN_TEST_PRICE"}}
	t.Setenv("SOLGEN_TEST_PRICE", "0.5ether")

	app := cli.NewApp()
	app.Flags = []cli.Flag{flag}
	var have *big.Int
	app.Action = func(ctx *cli.Context) error {
		require.True(t, ctx.IsSet("price"))
		have = new(big.Int).Set(GlobalBig(ctx, "price"))
		return nil
	}
	require.NoError(t, app.Run([]string{"test"}))
	require.Equal(t, big.NewInt(params.Ether/2), have)
	require.Equal(t, big.NewInt(params.GWei), def, "default value modified")
	require.Equal(t, "1000000000", flag.GetDefaultText())

	require.NoError(t, app.Run([]string{"test", "--price", "3gwei"}))
	require.Equal(t, big.NewInt(3*params.GWei), have)
}

func TestAutoEnvVars(t *testing.T) {
	str := &cli.StringFlag{Name: "artifact.backend"}
	dur := &cli.DurationFlag{Name: "deploy.retry-delay"}
	amount := &BigFlag{Name: "balance.min", EnvVars: []string{"SOLGEN_BALANCE_MIN"}}
	dir := &DirectoryFlag{Name: "datadir", EnvVars: []string{"OTHER"}}

	AutoEnvVars([]cli.Flag{str, dur, amount, dir}, "SOLGEN")

	require.Equal(t, []string{"SOLGEN_ARTIFACT_BACKEND"}, str.EnvVars)
	require.Equal(t, []string{"SOLGEN_DEPLOY_RETRY_DELAY"}, dur.EnvVars)
	require.Equal(t, []string{"SOLGEN_BALANCE_MIN"}, amount.EnvVars)
	require.Equal(t, []string{"OTHER", "SOLGEN_DATADIR"}, dir.EnvVars)
}

func TestAutoEnvVarsSkip(t *testing.T) {
	metrics := &cli.BoolFlag{Name: "metrics"}
	pprof := &cli.BoolFlag{Name: "pprof"}

	AutoEnvVars([]cli.Flag{metrics, pprof}, "SOLGEN", metrics)

	require.Empty(t, metrics.EnvVars)
	require.Equal(t, []string{"SOLGEN_PPROF"}, pprof.EnvVars)
}
