package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/paypay-go/paypay/internal/config"
	"github.com/paypay-go/paypay/sdk/paypay"
)

// APIOptions holds the arguments of the account and link commands.
type APIOptions struct {
	// HistorySize is the number of history entries to fetch.
	HistorySize int
	// CashbackOnly restricts history to cashback entries.
	CashbackOnly bool
	// SessionID is passed to the P2P code request.
	SessionID string
	// LinkCode is the verification code or URL of a P2P link.
	LinkCode string
	// Amount is the amount of a new link in yen.
	Amount int64
	// Passcode protects a new link or unlocks a received one.
	Passcode string
	// Output receives the JSON payload. Defaults to stdout.
	Output io.Writer
}

// apiCall is one facade operation.
type apiCall func(ctx context.Context, client *paypay.Client, opts *APIOptions) (*paypay.Response, error)

// APICommands maps command names to facade operations.
var APICommands = map[string]apiCall{
	"balance": func(ctx context.Context, c *paypay.Client, _ *APIOptions) (*paypay.Response, error) {
		return c.GetBalance(ctx)
	},
	"history": func(ctx context.Context, c *paypay.Client, o *APIOptions) (*paypay.Response, error) {
		return c.GetHistory(ctx, paypay.HistoryOptions{Size: o.HistorySize, CashbackOnly: o.CashbackOnly})
	},
	"profile": func(ctx context.Context, c *paypay.Client, _ *APIOptions) (*paypay.Response, error) {
		return c.GetProfile(ctx)
	},
	"p2p-code": func(ctx context.Context, c *paypay.Client, o *APIOptions) (*paypay.Response, error) {
		return c.CreateP2PCode(ctx, o.SessionID)
	},
	"link-info": func(ctx context.Context, c *paypay.Client, o *APIOptions) (*paypay.Response, error) {
		info, err := c.GetLink(ctx, o.LinkCode)
		if err != nil {
			return nil, err
		}
		return info.Response, nil
	},
	"create-link": func(ctx context.Context, c *paypay.Client, o *APIOptions) (*paypay.Response, error) {
		return c.CreateLink(ctx, o.Amount, o.Passcode)
	},
	"accept-link": func(ctx context.Context, c *paypay.Client, o *APIOptions) (*paypay.Response, error) {
		return c.AcceptLink(ctx, o.LinkCode, o.Passcode)
	},
	"reject-link": func(ctx context.Context, c *paypay.Client, o *APIOptions) (*paypay.Response, error) {
		return c.RejectLink(ctx, o.LinkCode)
	},
}

// DoAPICommand runs the named account or link command and prints its payload.
//
// Parameters:
//   - cfg: The application configuration; access-token must be set
//   - name: A key of APICommands
//   - opts: Command arguments
func DoAPICommand(cfg *config.Config, name string, opts *APIOptions) error {
	call, ok := APICommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if opts == nil {
		opts = &APIOptions{}
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	ctx := context.Background()
	client, err := newClient(ctx, cfg)
	if err != nil {
		log.Error(paypay.UserMessage(err))
		return err
	}
	resp, err := call(ctx, client, opts)
	if err != nil {
		log.WithField("command", name).Error(paypay.UserMessage(err))
		return err
	}
	return printPayload(out, resp)
}

// printPayload writes the response payload as indented JSON.
func printPayload(out io.Writer, resp *paypay.Response) error {
	if resp == nil || len(resp.Payload) == 0 {
		_, err := fmt.Fprintln(out, "null")
		return err
	}
	_, err := fmt.Fprintln(out, gjson.GetBytes(resp.Payload, "@pretty").String())
	return err
}
