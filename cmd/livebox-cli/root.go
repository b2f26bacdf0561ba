package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Turgon37/LiveboxTools/env"
	"github.com/Turgon37/LiveboxTools/livebox"
	"github.com/Turgon37/LiveboxTools/logger"
	"github.com/Turgon37/LiveboxTools/str"
	"github.com/Turgon37/LiveboxTools/tui"
)

var (
	flagConfig   string
	flagEnvFile  string
	flagProtocol string
	flagHost     string
	flagPort     int
	flagUsername string
	flagPassword string
	flagTimeout  string
	flagLogLevel string
	flagYes      bool
)

var rootCmd = &cobra.Command{
	Use:           "livebox-cli",
	Short:         "Query and control a Livebox router over its sysbus API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "config file (default ~/.livebox.yaml)")
	flags.StringVar(&flagEnvFile, "env-file", "", "dotenv file holding LIVEBOX_* settings")
	flags.StringVar(&flagProtocol, "protocol", "", "protocol used to reach the router (http or https)")
	flags.StringVar(&flagHost, "host", "", "router hostname or address")
	flags.IntVar(&flagPort, "port", 0, "router port when not the protocol default")
	flags.StringVar(&flagUsername, "username", "", "router admin username")
	flags.StringVar(&flagPassword, "password", "", "router password (prefer the config or env file)")
	flags.StringVar(&flagTimeout, "timeout", "", "request timeout, e.g. 10s or 1m")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.BoolVarP(&flagYes, "yes", "y", false, "do not ask confirmation before physical actions")
}

func newLogger() logger.Logger {
	if flagLogLevel != "" {
		return logger.NewConsoleLogger(logger.ParseLevel(flagLogLevel))
	}
	return logger.NewConsoleLogger()
}

// settings merges the configuration sources: flags beat the YAML config,
// which beats the env file, which beats the process environment.
type settings struct {
	Config
	log logger.Logger
}

func resolveSettings() (*settings, error) {
	path := flagConfig
	explicit := path != ""
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		return os.Getenv(key)
	}
	if flagEnvFile != "" {
		envs, err := env.ParseEnvFile(flagEnvFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read env file %s: %w", flagEnvFile, err)
		}
		lookup = func(key string) string {
			if val, ok := env.Lookup(envs, key); ok {
				return val
			}
			return os.Getenv(key)
		}
	}

	pick := func(flag, cfgVal, envKey string) string {
		if flag != "" {
			return flag
		}
		if cfgVal != "" {
			return cfgVal
		}
		return lookup(envKey)
	}

	cfg.Protocol = pick(flagProtocol, cfg.Protocol, "LIVEBOX_PROTOCOL")
	cfg.Host = pick(flagHost, cfg.Host, "LIVEBOX_HOST")
	cfg.Username = pick(flagUsername, cfg.Username, "LIVEBOX_USERNAME")
	cfg.Password = str.NewMaskedString(pick(flagPassword, cfg.Password.Text(), "LIVEBOX_PASSWORD"))
	cfg.Timeout = pick(flagTimeout, cfg.Timeout, "LIVEBOX_TIMEOUT")
	if flagPort != 0 {
		cfg.Port = flagPort
	}

	return &settings{Config: *cfg, log: newLogger()}, nil
}

func (s *settings) newClient() (*livebox.Client, error) {
	timeout, err := s.RequestTimeout()
	if err != nil {
		return nil, err
	}
	opts := []livebox.Option{livebox.WithTimeout(timeout)}
	if s.Protocol != "" {
		opts = append(opts, livebox.WithProtocol(s.Protocol))
	}
	if s.Host != "" {
		opts = append(opts, livebox.WithHost(s.Host))
	}
	if s.Port != 0 {
		opts = append(opts, livebox.WithPort(s.Port))
	}
	if s.Username != "" {
		opts = append(opts, livebox.WithUsername(s.Username))
	}
	if s.Password != "" {
		opts = append(opts, livebox.WithPassword(s.Password.Text()))
	}
	return livebox.New(s.log, opts...), nil
}

// password returns the configured password, falling back to an interactive
// prompt the way the original tool fell back to getpass.
func (s *settings) password() string {
	if s.Password != "" {
		return s.Password.Text()
	}
	if !tui.HasTTY {
		return ""
	}
	return tui.Password(s.log, "Router password", "Password of the "+defaultString(s.Username, livebox.DefaultUsername)+" user")
}

func defaultString(val, def string) string {
	if val == "" {
		return def
	}
	return val
}

// runOperation executes one catalog operation end to end: login when the
// descriptor requires it, confirmation when it is a physical action, render
// the decoded result, then logout.
func runOperation(cmd *cobra.Command, op livebox.Operation, params string) error {
	s, err := resolveSettings()
	if err != nil {
		return err
	}
	client, err := s.newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if op.Action && !flagYes {
		if !tui.Ask(s.log, fmt.Sprintf("%s acts on the device itself, continue?", op.Name), false) {
			return nil
		}
	}

	if op.Auth {
		password := s.password()
		var loginErr error
		tui.ShowSpinner("Authenticating...", func() {
			loginErr = client.Login(ctx, password)
		})
		if loginErr != nil {
			return loginErr
		}
		defer client.Logout(ctx)
	}

	result, err := client.Invoke(ctx, op, params)
	if err != nil {
		if errors.Is(err, livebox.ErrAuthRequired) {
			tui.ShowWarning("this operation requires authentication")
			return nil
		}
		return err
	}
	if result == nil {
		tui.ShowWarning("the router sent no usable response")
		return nil
	}
	fmt.Print(tui.RenderValue(result))
	return nil
}

// opCommand builds a cobra command that maps one to one onto a catalog
// operation.
func opCommand(use, short string, op livebox.Operation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperation(cmd, op, "")
		},
	}
}
