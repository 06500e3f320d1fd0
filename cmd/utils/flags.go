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

// Package utils contains internal helper functions for solgen commands.
package utils

import (
	"fmt"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/Kanishk-tiwari-045/smart-contract-generator/api"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/artifact"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/chain"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/compiler"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/deployer"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/internal/flags"
	"github.com/Kanishk-tiwari-045/smart-contract-generator/pipeline"
	"github.com/urfave/cli/v2"
)

// These are all the command line flags we support.
// If you add to this list, please remember to include the
// flag in the appropriate command definition.
//
// The flags are defined here so their names and help texts
// are the same for all commands.

var (
	// General settings
	DataDirFlag = &flags.DirectoryFlag{
		Name:     "datadir",
		Usage:    "Directory holding relative artifact store paths",
		Value:    flags.DirectoryString("."),
		Category: flags.ArtifactCategory,
	}
	ExtractorFlag = &cli.StringFlag{
		Name:     "extractor",
		Usage:    "Contract name extractor (declaration, regex)",
		Value:    pipeline.Defaults.Extractor,
		Category: flags.CompilerCategory,
	}

	// Compiler settings
	SolcFlag = &cli.StringFlag{
		Name:     "solc",
		Usage:    "Solidity compiler executable",
		Value:    compiler.Defaults.Solc,
		Category: flags.CompilerCategory,
	}
	SolcImageFlag = &cli.StringFlag{
		Name:     "solc.image",
		Usage:    "Run solc inside this docker image instead of the local executable (e.g. ethereum/solc:0.8.26)",
		Category: flags.CompilerCategory,
	}
	OptimizeFlag = &cli.BoolFlag{
		Name:     "optimize",
		Usage:    "Enable the solc optimizer",
		Value:    compiler.Defaults.Optimize,
		Category: flags.CompilerCategory,
	}
	OptimizeRunsFlag = &cli.IntFlag{
		Name:     "optimize.runs",
		Usage:    "Number of optimizer runs",
		Value:    compiler.Defaults.Runs,
		Category: flags.CompilerCategory,
	}
	EVMVersionFlag = &cli.StringFlag{
		Name:     "evmversion",
		Usage:    "Target EVM version",
		Value:    compiler.Defaults.EVMVersion,
		Category: flags.CompilerCategory,
	}

	// Chain settings
	EndpointFlag = &cli.StringFlag{
		Name:     "endpoint",
		Aliases:  []string{"rpc"},
		Usage:    "JSON-RPC endpoint of the node (http, ws or ipc)",
		Value:    chain.DefaultEndpoint,
		Category: flags.ChainCategory,
	}
	MinBalanceFlag = &flags.BigFlag{
		Name:     "balance.min",
		Usage:    "Minimum deployer balance in wei, or with an ether/gwei suffix",
		Value:    chain.DefaultConfig.MinBalance,
		Category: flags.ChainCategory,
	}

	// Deployment settings
	GasBufferFlag = &cli.Uint64Flag{
		Name:     "gas.buffer",
		Usage:    "Percentage added on top of the node's gas estimate",
		Value:    deployer.DefaultGasConfig.BufferPercent,
		Category: flags.DeployCategory,
	}
	GasFallbackLimitFlag = &cli.Uint64Flag{
		Name:     "gas.fallbacklimit",
		Usage:    "Gas limit used when estimation fails",
		Value:    deployer.DefaultGasConfig.FallbackLimit,
		Category: flags.DeployCategory,
	}
	GasFallbackPriceFlag = &flags.BigFlag{
		Name:     "gas.fallbackprice",
		Usage:    "Gas price used when the node does not suggest one",
		Value:    deployer.DefaultGasConfig.FallbackPrice,
		Category: flags.DeployCategory,
	}
	MaxAttemptsFlag = &cli.IntFlag{
		Name:     "deploy.attempts",
		Usage:    "Maximum number of transaction submissions",
		Value:    deployer.Defaults.MaxAttempts,
		Category: flags.DeployCategory,
	}
	RetryDelayFlag = &cli.DurationFlag{
		Name:     "deploy.retrydelay",
		Usage:    "Wait between two submissions",
		Value:    deployer.Defaults.RetryDelay,
		Category: flags.DeployCategory,
	}
	ReceiptTimeoutFlag = &cli.DurationFlag{
		Name:     "deploy.receipttimeout",
		Usage:    "Maximum time to wait for the deployment receipt (0 = no limit)",
		Value:    deployer.Defaults.ReceiptTimeout,
		Category: flags.DeployCategory,
	}
	ContractNameFlag = &cli.StringFlag{
		Name:     "name",
		Usage:    "Contract to compile, extracted from the source when empty",
		Category: flags.CompilerCategory,
	}
	ArgFlag = &cli.StringSliceFlag{
		Name:     "arg",
		Usage:    "Constructor argument override as name=value or index=value (repeatable)",
		Category: flags.DeployCategory,
	}

	// Artifact store settings
	NoPersistFlag = &cli.BoolFlag{
		Name:     "artifact.nopersist",
		Usage:    "Keep compiled artifacts in memory only",
		Category: flags.ArtifactCategory,
	}
	ArtifactBackendFlag = &cli.StringFlag{
		Name:     "artifact.backend",
		Usage:    "Artifact store backend (file, memory, leveldb, pebble, sqlite, redis, minio)",
		Value:    artifact.DefaultConfig.Backend,
		Category: flags.ArtifactCategory,
	}
	ArtifactNameFlag = &cli.StringFlag{
		Name:     "artifact.name",
		Usage:    "Name of the artifact record",
		Value:    artifact.DefaultConfig.Name,
		Category: flags.ArtifactCategory,
	}
	ArtifactPathFlag = &cli.StringFlag{
		Name:     "artifact.path",
		Usage:    "Artifact file, database directory or sqlite file",
		Value:    artifact.DefaultConfig.Path,
		Category: flags.ArtifactCategory,
	}
	RedisURLFlag = &cli.StringFlag{
		Name:     "artifact.redis",
		Usage:    "Redis URL for the redis backend (redis://host:6379/0)",
		EnvVars:  []string{"SOLGEN_REDIS_URL"},
		Category: flags.ArtifactCategory,
	}
	MinioEndpointFlag = &cli.StringFlag{
		Name:     "artifact.minio.endpoint",
		Usage:    "Object store endpoint for the minio backend",
		EnvVars:  []string{"SOLGEN_MINIO_ENDPOINT"},
		Category: flags.ArtifactCategory,
	}
	MinioAccessKeyFlag = &cli.StringFlag{
		Name:     "artifact.minio.accesskey",
		Usage:    "Object store access key",
		EnvVars:  []string{"SOLGEN_MINIO_ACCESS_KEY"},
		Category: flags.ArtifactCategory,
	}
	MinioSecretKeyFlag = &cli.StringFlag{
		Name:     "artifact.minio.secretkey",
		Usage:    "Object store secret key",
		EnvVars:  []string{"SOLGEN_MINIO_SECRET_KEY"},
		Category: flags.ArtifactCategory,
	}
	MinioBucketFlag = &cli.StringFlag{
		Name:     "artifact.minio.bucket",
		Usage:    "Object store bucket",
		Value:    artifact.DefaultConfig.Minio.Bucket,
		Category: flags.ArtifactCategory,
	}
	MinioSSLFlag = &cli.BoolFlag{
		Name:     "artifact.minio.ssl",
		Usage:    "Connect to the object store over TLS",
		Category: flags.ArtifactCategory,
	}

	// HTTP API settings
	HTTPListenAddrFlag = &cli.StringFlag{
		Name:     "http.addr",
		Usage:    "HTTP server listening address",
		Value:    api.DefaultConfig.ListenAddr,
		Category: flags.APICategory,
	}
	HTTPCORSDomainFlag = &cli.StringFlag{
		Name:     "http.corsdomain",
		Usage:    "Comma separated list of domains from which to accept cross origin requests (browser enforced)",
		Value:    strings.Join(api.DefaultConfig.CorsOrigins, ","),
		Category: flags.APICategory,
	}
	HTTPBodyLimitFlag = &cli.Int64Flag{
		Name:     "http.bodylimit",
		Usage:    "Maximum request body size in bytes",
		Value:    api.DefaultConfig.MaxBodySize,
		Category: flags.APICategory,
	}
	DevModeFlag = &cli.BoolFlag{
		Name:     "dev",
		Usage:    "Include error chains in HTTP failure responses",
		Category: flags.APICategory,
	}
)

var (
	// CompilerFlags configure the compile half of the pipeline.
	CompilerFlags = []cli.Flag{
		ExtractorFlag,
		SolcFlag,
		SolcImageFlag,
		OptimizeFlag,
		OptimizeRunsFlag,
		EVMVersionFlag,
	}
	// ChainFlags configure the node connection and the deployment policy.
	ChainFlags = []cli.Flag{
		EndpointFlag,
		MinBalanceFlag,
		GasBufferFlag,
		GasFallbackLimitFlag,
		GasFallbackPriceFlag,
		MaxAttemptsFlag,
		RetryDelayFlag,
		ReceiptTimeoutFlag,
	}
	// ArtifactFlags select the artifact store.
	ArtifactFlags = []cli.Flag{
		DataDirFlag,
		NoPersistFlag,
		ArtifactBackendFlag,
		ArtifactNameFlag,
		ArtifactPathFlag,
		RedisURLFlag,
		MinioEndpointFlag,
		MinioAccessKeyFlag,
		MinioSecretKeyFlag,
		MinioBucketFlag,
		MinioSSLFlag,
	}
	// APIFlags configure the HTTP boundary.
	APIFlags = []cli.Flag{
		HTTPListenAddrFlag,
		HTTPCORSDomainFlag,
		HTTPBodyLimitFlag,
		DevModeFlag,
	}
)

// SetPipelineConfig applies pipeline-related command line flags to the config.
func SetPipelineConfig(ctx *cli.Context, cfg *pipeline.Config) {
	if ctx.IsSet(ExtractorFlag.Name) {
		cfg.Extractor = ctx.String(ExtractorFlag.Name)
	}
	if ctx.IsSet(NoPersistFlag.Name) {
		cfg.Persist = !ctx.Bool(NoPersistFlag.Name)
	}
	setCompiler(ctx, &cfg.Compiler)
	setChain(ctx, &cfg.Chain)
	setGas(ctx, &cfg.Gas)
	setDeploy(ctx, &cfg.Deploy)
	setArtifact(ctx, &cfg.Artifact)
}

func setCompiler(ctx *cli.Context, cfg *compiler.Config) {
	if ctx.IsSet(SolcFlag.Name) {
		cfg.Solc = ctx.String(SolcFlag.Name)
	}
	if ctx.IsSet(SolcImageFlag.Name) {
		cfg.DockerImage = ctx.String(SolcImageFlag.Name)
	}
	if ctx.IsSet(OptimizeFlag.Name) {
		cfg.Optimize = ctx.Bool(OptimizeFlag.Name)
	}
	if ctx.IsSet(OptimizeRunsFlag.Name) {
		cfg.Runs = ctx.Int(OptimizeRunsFlag.Name)
	}
	if ctx.IsSet(EVMVersionFlag.Name) {
		cfg.EVMVersion = ctx.String(EVMVersionFlag.Name)
	}
}

func setChain(ctx *cli.Context, cfg *chain.Config) {
	if ctx.IsSet(EndpointFlag.Name) {
		cfg.Endpoint = ctx.String(EndpointFlag.Name)
	}
	if ctx.IsSet(MinBalanceFlag.Name) {
		cfg.MinBalance = new(big.Int).Set(flags.GlobalBig(ctx, MinBalanceFlag.Name))
	}
}

func setGas(ctx *cli.Context, cfg *deployer.GasConfig) {
	if ctx.IsSet(GasBufferFlag.Name) {
		cfg.BufferPercent = ctx.Uint64(GasBufferFlag.Name)
	}
	if ctx.IsSet(GasFallbackLimitFlag.Name) {
		cfg.FallbackLimit = ctx.Uint64(GasFallbackLimitFlag.Name)
	}
	if ctx.IsSet(GasFallbackPriceFlag.Name) {
		cfg.FallbackPrice = new(big.Int).Set(flags.GlobalBig(ctx, GasFallbackPriceFlag.Name))
	}
}

func setDeploy(ctx *cli.Context, cfg *deployer.Config) {
	if ctx.IsSet(MaxAttemptsFlag.Name) {
		cfg.MaxAttempts = ctx.Int(MaxAttemptsFlag.Name)
	}
	if ctx.IsSet(RetryDelayFlag.Name) {
		cfg.RetryDelay = ctx.Duration(RetryDelayFlag.Name)
	}
	if ctx.IsSet(ReceiptTimeoutFlag.Name) {
		cfg.ReceiptTimeout = ctx.Duration(ReceiptTimeoutFlag.Name)
	}
}

func setArtifact(ctx *cli.Context, cfg *artifact.Config) {
	if ctx.IsSet(ArtifactBackendFlag.Name) {
		cfg.Backend = ctx.String(ArtifactBackendFlag.Name)
	}
	if ctx.IsSet(ArtifactNameFlag.Name) {
		cfg.Name = ctx.String(ArtifactNameFlag.Name)
	}
	if ctx.IsSet(ArtifactPathFlag.Name) {
		cfg.Path = ctx.String(ArtifactPathFlag.Name)
	}
	if ctx.IsSet(DataDirFlag.Name) {
		cfg.Path = ResolvePath(ctx.String(DataDirFlag.Name), cfg.Path)
	}
	if ctx.IsSet(RedisURLFlag.Name) {
		cfg.RedisURL = ctx.String(RedisURLFlag.Name)
	}
	if ctx.IsSet(MinioEndpointFlag.Name) {
		cfg.Minio.Endpoint = ctx.String(MinioEndpointFlag.Name)
	}
	if ctx.IsSet(MinioAccessKeyFlag.Name) {
		cfg.Minio.AccessKey = ctx.String(MinioAccessKeyFlag.Name)
	}
	if ctx.IsSet(MinioSecretKeyFlag.Name) {
		cfg.Minio.SecretKey = ctx.String(MinioSecretKeyFlag.Name)
	}
	if ctx.IsSet(MinioBucketFlag.Name) {
		cfg.Minio.Bucket = ctx.String(MinioBucketFlag.Name)
	}
	if ctx.IsSet(MinioSSLFlag.Name) {
		cfg.Minio.UseSSL = ctx.Bool(MinioSSLFlag.Name)
	}
}

// SetAPIConfig applies HTTP-related command line flags to the config.
func SetAPIConfig(ctx *cli.Context, cfg *api.Config) {
	if ctx.IsSet(HTTPListenAddrFlag.Name) {
		cfg.ListenAddr = ctx.String(HTTPListenAddrFlag.Name)
	}
	if ctx.IsSet(HTTPCORSDomainFlag.Name) {
		cfg.CorsOrigins = SplitAndTrim(ctx.String(HTTPCORSDomainFlag.Name))
	}
	if ctx.IsSet(HTTPBodyLimitFlag.Name) {
		cfg.MaxBodySize = ctx.Int64(HTTPBodyLimitFlag.Name)
	}
	if ctx.IsSet(DevModeFlag.Name) {
		cfg.Dev = ctx.Bool(DevModeFlag.Name)
	}
}

// ParseOverrides turns the repeated --arg flag into constructor overrides.
// Values stay strings, the resolver parses them against the ABI type.
func ParseOverrides(ctx *cli.Context) (deployer.Overrides, error) {
	values := ctx.StringSlice(ArgFlag.Name)
	if len(values) == 0 {
		return nil, nil
	}
	overrides := make(deployer.Overrides, len(values))
	for _, kv := range values {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q, want name=value", ArgFlag.Name, kv)
		}
		if _, dup := overrides[key]; dup {
			return nil, fmt.Errorf("duplicate --%s for %q", ArgFlag.Name, key)
		}
		overrides[key] = value
	}
	return overrides, nil
}

// ResolvePath returns path joined onto dir unless it is absolute.
func ResolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// SplitAndTrim splits input separated by a comma
// and trims excessive white space from the substrings.
func SplitAndTrim(input string) (ret []string) {
	l := strings.Split(input, ",")
	for _, r := range l {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}
