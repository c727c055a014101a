package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	log "github.com/sirupsen/logrus"

	"github.com/paypay-go/paypay/internal/config"
	"github.com/paypay-go/paypay/internal/misc"
	"github.com/paypay-go/paypay/internal/tui"
	"github.com/paypay-go/paypay/sdk/paypay"
)

// DoPayPayLogin runs the interactive PayPay login and prints the access token.
//
// Parameters:
//   - cfg: The application configuration
//   - options: Login options including prompts and input sources
func DoPayPayLogin(cfg *config.Config, options *LoginOptions) error {
	options = options.withDefaults()
	ctx := context.Background()

	client, err := newClient(ctx, cfg, paypay.WithAccessToken(""))
	if err != nil {
		log.Error(paypay.UserMessage(err))
		return err
	}
	token, err := runLogin(ctx, client, options)
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) {
			_, _ = fmt.Fprintln(options.Output, "Login cancelled.")
			return err
		}
		log.Error(paypay.UserMessage(err))
		return err
	}

	_, _ = fmt.Fprintln(options.Output, "PayPay authentication successful!")
	_, _ = fmt.Fprintf(options.Output, "Access token: %s\n", token.AccessToken)
	_, _ = fmt.Fprintln(options.Output, "Set it as access-token in the config or PAYPAY_ACCESS_TOKEN to skip login next time.")
	return nil
}

// runLogin drives LoginStart and LoginConfirm with the configured input sources.
func runLogin(ctx context.Context, client *paypay.Client, options *LoginOptions) (paypay.TokenPayload, error) {
	var token paypay.TokenPayload
	phone, password, err := promptCredentials(options)
	if err != nil {
		return token, err
	}
	misc.LogCredentialSeparator()
	if err = client.LoginStart(ctx, phone, password); err != nil {
		return token, err
	}

	mode := client.ChallengeMode()
	if mode == paypay.ChallengeOTP {
		_, _ = fmt.Fprintln(options.Output, "A one-time password has been sent. Enter it to finish the login.")
	} else {
		_, _ = fmt.Fprintln(options.Output, "A login link has been sent to your phone. Open it, then copy its URL.")
	}

	proof, err := promptProof(options, mode)
	if err != nil {
		return token, err
	}
	resp, err := client.LoginConfirm(ctx, proof)
	if err != nil {
		return token, err
	}
	misc.LogCredentialSeparator()
	return resp.Token, nil
}

func promptCredentials(options *LoginOptions) (string, string, error) {
	if options.UseTUI {
		values, err := tui.PromptForm("PayPay login", "Sign in with your phone number and password.", []tui.Field{
			{Label: "Phone", Placeholder: "09012345678", Value: options.Phone, Required: true},
			{Label: "Password", Secret: true, Required: true},
		}, options.Output)
		if err != nil {
			return "", "", err
		}
		return values[0], values[1], nil
	}

	phone := strings.TrimSpace(options.Phone)
	var err error
	if phone == "" {
		if phone, err = options.Prompt("Phone number: "); err != nil {
			return "", "", err
		}
	}
	password, err := options.PromptSecret("Password: ")
	if err != nil {
		return "", "", err
	}
	return phone, password, nil
}

func promptProof(options *LoginOptions, mode paypay.ChallengeMode) (string, error) {
	label, hint := "Login link", "Paste the URL of the link you opened."
	if mode == paypay.ChallengeOTP {
		label, hint = "Code", "Enter the one-time password you received."
	}

	if options.UseClipboard && mode != paypay.ChallengeOTP {
		if _, err := options.Prompt("Copy the link URL, then press Enter: "); err != nil {
			return "", err
		}
		value, err := options.ReadClipboard()
		if err != nil {
			return "", fmt.Errorf("failed to read clipboard: %w", err)
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
		log.Warn("clipboard is empty, falling back to prompt")
	}

	if options.UseTUI {
		values, err := tui.PromptForm("Confirm login", hint, []tui.Field{{Label: label, Required: true}}, options.Output)
		if err != nil {
			return "", err
		}
		return values[0], nil
	}
	return options.Prompt(label + ": ")
}

func readClipboard() (string, error) {
	if clipboard.Unsupported {
		return "", errors.New("clipboard is not supported on this system")
	}
	return clipboard.ReadAll()
}
