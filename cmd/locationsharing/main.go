package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mmackelprang/locationsharinglib"
)

var (
	cookieFile   string
	browser      string
	profile      string
	email        string
	configFile   string
	maxRetries   int
	disableCache bool
	verbose      bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "locationsharing",
	Short: "Query Google location sharing from the command line",
	Long: `locationsharing prints the positions of people sharing their location
with your Google account, using the session cookies of a signed-in browser
session (either exported to a Netscape cookie file or read directly from a
local browser profile).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config = zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List everyone sharing their location with the account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		svc, err := newService(ctx)
		if err != nil {
			return err
		}
		people, err := svc.GetAllPeople(ctx)
		if err != nil {
			return err
		}
		for _, p := range people {
			fmt.Println(formatPerson(p))
		}
		return nil
	},
}

var locateCmd = &cobra.Command{
	Use:   "locate <name>",
	Short: "Show the position of one person by nickname or full name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		svc, err := newService(ctx)
		if err != nil {
			return err
		}

		name := args[0]
		p, err := svc.GetPersonByNickname(ctx, name)
		if err != nil {
			return err
		}
		if p == nil {
			p, err = svc.GetPersonByFullName(ctx, name)
			if err != nil {
				return err
			}
		}
		if p == nil {
			return fmt.Errorf("no person named %q", name)
		}

		fmt.Println(formatPerson(*p))
		return nil
	},
}

func newService(ctx context.Context) (*locationsharinglib.Service, error) {
	opts := locationsharinglib.Options{
		CookiePath:   cookieFile,
		Browser:      locationsharinglib.Browser(browser),
		Profile:      profile,
		Email:        email,
		MaxRetries:   maxRetries,
		DisableCache: disableCache,
		Logger:       logger,
	}
	if configFile != "" {
		fileOpts, err := locationsharinglib.OptionsFromFile(configFile)
		if err != nil {
			return nil, err
		}
		fileOpts.Logger = logger
		applyFlagOverrides(&fileOpts)
		opts = fileOpts
	}
	return locationsharinglib.New(ctx, opts)
}

// Explicit flags win over the config file.
func applyFlagOverrides(opts *locationsharinglib.Options) {
	if cookieFile != "" {
		opts.CookiePath = cookieFile
	}
	if browser != "" {
		opts.Browser = locationsharinglib.Browser(browser)
	}
	if profile != "" {
		opts.Profile = profile
	}
	if email != "" {
		opts.Email = email
	}
	if maxRetries > 0 {
		opts.MaxRetries = maxRetries
	}
	if disableCache {
		opts.DisableCache = true
	}
}

func formatPerson(p locationsharinglib.Person) string {
	out := p.String()
	if t, ok := p.When(); ok {
		out += " seen " + t.Local().Format(time.RFC3339)
	}
	if p.BatteryLevel != nil {
		out += fmt.Sprintf(" battery %d%%", *p.BatteryLevel)
	}
	if p.Address != nil {
		out += " at " + *p.Address
	}
	return out
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&cookieFile, "cookies", "c", "", "Netscape-format cookie file")
	rootCmd.PersistentFlags().StringVarP(&browser, "browser", "b", "", "read cookies from a local browser profile (chrome, chromium, edge, brave, firefox)")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "browser profile name, directory, or cookie DB path")
	rootCmd.PersistentFlags().StringVarP(&email, "email", "e", "", "account email (used for the self record)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "INI options file")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", 0, "HTTP attempts per fetch (default 3)")
	rootCmd.PersistentFlags().BoolVar(&disableCache, "no-cache", false, "disable the 30s response cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(peopleCmd, locateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
