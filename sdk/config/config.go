// Package config provides the public SDK configuration API.
//
// It re-exports the client configuration types and helpers so external projects can
// configure the PayPay client without importing internal packages.
package config

import internalconfig "github.com/paypay-go/paypay/internal/config"

type SDKConfig = internalconfig.SDKConfig

type Config = internalconfig.Config

const (
	ChallengeModeLink = internalconfig.ChallengeModeLink
	ChallengeModeOTP  = internalconfig.ChallengeModeOTP
)

func LoadConfig(configFile string) (*Config, error) { return internalconfig.LoadConfig(configFile) }

func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	return internalconfig.LoadConfigOptional(configFile, optional)
}
