// housectl manages a Currently house map from the command line.
//
// Settings come from ~/.currently/config.yaml, CURRENTLY_* environment
// variables and flags, in increasing priority:
//
//	api_base    server URL (default http://localhost:8080)
//	token_file  where login stores the bearer token
//	tariff      price per kWh for local estimates
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nerrad567/currently-core/internal/client"
	"github.com/nerrad567/currently-core/internal/infrastructure/logging"
	"github.com/nerrad567/currently-core/internal/session"
	"github.com/nerrad567/currently-core/internal/usage"
)

const (
	defaultAPIBase = "http://localhost:8080"
	requestTimeout = 30 * time.Second
)

func main() {
	root := newRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", client.UserMessage(err))
		os.Exit(1)
	}
}

// app carries settings shared by every command.
type app struct {
	v       *viper.Viper
	out     io.Writer
	cfgFile string
	jsonOut bool
	verbose bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           "housectl",
		Short:         "Map your home and estimate what your appliances cost to run",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.initConfig()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.currently/config.yaml)")
	flags.String("api-base", defaultAPIBase, "Currently server URL")
	flags.String("token-file", "", "token file (default is $HOME/.currently/token)")
	flags.Float64("tariff", usage.DefaultTariff, "price per kWh for estimates")
	flags.BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")
	a.v.BindPFlag("api_base", flags.Lookup("api-base"))     //nolint:errcheck // flag exists
	a.v.BindPFlag("token_file", flags.Lookup("token-file")) //nolint:errcheck // flag exists
	a.v.BindPFlag("tariff", flags.Lookup("tariff"))         //nolint:errcheck // flag exists

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.catalogueCmd(),
		a.houseCmd(),
		a.floorsCmd(),
		a.roomsCmd(),
		a.appliancesCmd(),
		a.activityCmd(),
	)
	return root
}

func (a *app) initConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir := filepath.Join(home, ".currently")

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(dir)
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}
	a.v.SetEnvPrefix("CURRENTLY")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault("token_file", filepath.Join(dir, "token"))

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || a.cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	if a.v.GetString("token_file") == "" {
		a.v.Set("token_file", filepath.Join(dir, "token"))
	}
	return nil
}

func (a *app) tokens() client.FileToken {
	return client.FileToken{Path: a.v.GetString("token_file")}
}

func (a *app) client() *client.Client {
	return client.New(a.v.GetString("api_base"), a.tokens())
}

func (a *app) logger() *logging.Logger {
	if !a.verbose {
		return logging.Nop()
	}
	return logging.Default()
}

// load returns a Session with the house already fetched.
func (a *app) load(ctx context.Context) (*session.Session, error) {
	s := session.New(a.client(), session.Options{
		Tariff: a.v.GetFloat64("tariff"),
		Logger: a.logger(),
	})
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, requestTimeout)
}
