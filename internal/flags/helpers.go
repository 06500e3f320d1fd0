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
	"slices"
	"strings"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/internal/version"
	"github.com/urfave/cli/v2"
)

// NewApp creates an app with sane defaults.
func NewApp(usage string) *cli.App {
	git, _ := version.VCS()
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = version.WithCommit(git.Commit, git.Date)
	app.Usage = usage
	app.Copyright = "Copyright 2025 The solgen Authors"
	return app
}

// Merge merges the given flag slices.
func Merge(groups ...[]cli.Flag) []cli.Flag {
	var ret []cli.Flag
	for _, group := range groups {
		ret = append(ret, group...)
	}
	return ret
}

// AutoEnvVars extends all the specific CLI flags with automatically generated
// env vars by capitalizing the flag, replacing . and - with _ and prefixing it
// with the specified string.
//
// Note, the prefix should *not* contain the separator underscore, that will be
// added automatically. Flags listed in skip are left alone.
func AutoEnvVars(flags []cli.Flag, prefix string, skip ...cli.Flag) {
	for _, flag := range flags {
		if slices.Contains(skip, flag) {
			continue
		}
		envvar := strings.ToUpper(prefix + "_" + strings.NewReplacer(".", "_", "-", "_").Replace(flag.Names()[0]))

		switch flag := flag.(type) {
		case *cli.StringFlag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *cli.StringSliceFlag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *cli.BoolFlag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *cli.IntFlag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *cli.Int64Flag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *cli.Uint64Flag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *cli.DurationFlag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *DirectoryFlag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		case *BigFlag:
			flag.EnvVars = appendEnv(flag.EnvVars, envvar)
		}
	}
}

func appendEnv(vars []string, envvar string) []string {
	if slices.Contains(vars, envvar) {
		return vars
	}
	return append(vars, envvar)
}
