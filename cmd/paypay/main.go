// Package main provides the entry point for the PayPay command line client.
// It signs in to PayPay as the mobile app does and runs account and P2P link
// operations with the resulting access token.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/paypay-go/paypay/internal/buildinfo"
	"github.com/paypay-go/paypay/internal/cmd"
	"github.com/paypay-go/paypay/internal/config"
	"github.com/paypay-go/paypay/internal/logging"
	"github.com/paypay-go/paypay/internal/misc"
	"github.com/paypay-go/paypay/internal/util"
)

var (
	Version           = "dev"
	Commit            = "none"
	BuildDate         = "unknown"
	DefaultConfigPath = ""
)

// init initializes the shared logger setup.
func init() {
	logging.SetupBaseLogger()
	buildinfo.Version = Version
	buildinfo.Commit = Commit
	buildinfo.BuildDate = BuildDate
}

// main parses command-line flags, loads configuration, and runs the selected command.
func main() {
	os.Exit(run())
}

func run() int {
	var login bool
	var balance bool
	var history bool
	var historySize int
	var cashback bool
	var profile bool
	var p2pCode bool
	var sessionID string
	var linkInfo string
	var createLink int64
	var acceptLink string
	var rejectLink string
	var passcode string
	var phone string
	var challengeMode string
	var tuiMode bool
	var useClipboard bool
	var initConfig bool
	var configPath string
	var showVersion bool

	flag.BoolVar(&login, "login", false, "Login to PayPay and print the access token")
	flag.BoolVar(&balance, "balance", false, "Show the wallet balance")
	flag.BoolVar(&history, "history", false, "Show the payment history")
	flag.IntVar(&historySize, "history-size", 20, "Number of history entries")
	flag.BoolVar(&cashback, "cashback", false, "Only show cashback history entries")
	flag.BoolVar(&profile, "profile", false, "Show the account profile")
	flag.BoolVar(&p2pCode, "p2p-code", false, "Create a personal receive code")
	flag.StringVar(&sessionID, "session-id", "", "Session ID for -p2p-code")
	flag.StringVar(&linkInfo, "link-info", "", "Show the state of a P2P link (code or URL)")
	flag.Int64Var(&createLink, "create-link", 0, "Create a send-money link for the given amount")
	flag.StringVar(&acceptLink, "accept-link", "", "Accept a P2P link (code or URL)")
	flag.StringVar(&rejectLink, "reject-link", "", "Reject a P2P link (code or URL)")
	flag.StringVar(&passcode, "passcode", "", "Passcode for -create-link or -accept-link")
	flag.StringVar(&phone, "phone", "", "Phone number for -login")
	flag.StringVar(&challengeMode, "challenge-mode", "", "Second factor delivery for -login: link or otp")
	flag.BoolVar(&tuiMode, "tui", false, "Use terminal forms for -login")
	flag.BoolVar(&useClipboard, "clipboard", false, "Read the login link from the clipboard")
	flag.BoolVar(&initConfig, "init-config", false, "Create the config file from config.example.yaml")
	flag.StringVar(&configPath, "config", DefaultConfigPath, "Configure File Path")
	flag.BoolVar(&showVersion, "version", false, "Print version information")

	flag.Parse()

	if showVersion {
		fmt.Printf("paypay Version: %s, Commit: %s, BuiltAt: %s\n", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)
		return 0
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Errorf("failed to get working directory: %v", err)
		return 1
	}

	// Load environment variables from .env if present.
	if errLoad := godotenv.Load(filepath.Join(wd, ".env")); errLoad != nil {
		if !errors.Is(errLoad, os.ErrNotExist) {
			log.WithError(errLoad).Warn("failed to load .env file")
		}
	}

	optional := configPath == ""
	if optional {
		configPath = filepath.Join(wd, "config.yaml")
	} else if resolved, errResolve := util.ResolvePath(configPath); errResolve == nil {
		configPath = resolved
	}

	if initConfig {
		if err = misc.CopyConfigTemplate(filepath.Join(wd, "config.example.yaml"), configPath); err != nil {
			log.Errorf("failed to create config: %v", err)
			return 1
		}
		fmt.Printf("Created %s\n", configPath)
		return 0
	}
	cfg, err := config.LoadConfigOptional(configPath, optional)
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return 1
	}
	if err = cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Errorf("invalid environment override: %v", err)
		return 1
	}
	if challengeMode != "" {
		cfg.ChallengeMode = challengeMode
		if err = cfg.Validate(); err != nil {
			log.Errorf("invalid -challenge-mode: %v", err)
			return 1
		}
	}

	if err = logging.ConfigureLogOutput(cfg); err != nil {
		log.Errorf("failed to configure log output: %v", err)
		return 1
	}
	util.SetLogLevel(cfg)
	log.Debugf("paypay Version: %s, Commit: %s, BuiltAt: %s", buildinfo.Version, buildinfo.Commit, buildinfo.BuildDate)

	apiOpts := &cmd.APIOptions{
		HistorySize:  historySize,
		CashbackOnly: cashback,
		SessionID:    sessionID,
		Passcode:     passcode,
	}

	switch {
	case login:
		err = cmd.DoPayPayLogin(cfg, &cmd.LoginOptions{
			Phone:        phone,
			UseClipboard: useClipboard,
			UseTUI:       tuiMode,
		})
	case balance:
		err = cmd.DoAPICommand(cfg, "balance", apiOpts)
	case history:
		err = cmd.DoAPICommand(cfg, "history", apiOpts)
	case profile:
		err = cmd.DoAPICommand(cfg, "profile", apiOpts)
	case p2pCode:
		err = cmd.DoAPICommand(cfg, "p2p-code", apiOpts)
	case linkInfo != "":
		apiOpts.LinkCode = linkInfo
		err = cmd.DoAPICommand(cfg, "link-info", apiOpts)
	case createLink != 0:
		apiOpts.Amount = createLink
		err = cmd.DoAPICommand(cfg, "create-link", apiOpts)
	case acceptLink != "":
		apiOpts.LinkCode = acceptLink
		err = cmd.DoAPICommand(cfg, "accept-link", apiOpts)
	case rejectLink != "":
		apiOpts.LinkCode = rejectLink
		err = cmd.DoAPICommand(cfg, "reject-link", apiOpts)
	default:
		flag.Usage()
		return 2
	}
	if err != nil {
		return 1
	}
	return 0
}
