package cmd

import (
	"context"

	"github.com/paypay-go/paypay/internal/config"
	"github.com/paypay-go/paypay/sdk/paypay"
)

// newClient builds a client from the configuration. Extra options override it.
func newClient(ctx context.Context, cfg *config.Config, opts ...paypay.Option) (*paypay.Client, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return paypay.NewClientFromConfig(ctx, cfg, opts...)
}
