package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/reminderflow/internal/app/authflow"
	"github.com/pratik-mahalle/reminderflow/internal/app/backend"
	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
	"github.com/pratik-mahalle/reminderflow/internal/app/prefs"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/app/toast"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	verbose      bool

	rt *app
)

// app holds what a command needs to talk to the service. It is built once
// per invocation, after configuration is loaded.
type app struct {
	prefs   *prefs.Store
	catalog *i18n.Catalog
	api     *client.Client
	backend *backend.Backend
	store   *session.Store
	toasts  *toast.Queue
	flow    *authflow.Flow
	log     *logger.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reminderflow",
		Short: "ReminderFlow CLI - appointment reminders for service businesses",
		Long: `ReminderFlow CLI provides command-line access to the ReminderFlow service
for managing your business, appointments, reminder settings, calendar
integrations and billing.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			// config commands only touch the config file
			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.reminderflow/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log API traffic to stderr")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newBusinessCmd())
	rootCmd.AddCommand(newAppointmentsCmd())
	rootCmd.AddCommand(newRemindersCmd())
	rootCmd.AddCommand(newIntegrationsCmd())
	rootCmd.AddCommand(newBillingCmd())
	rootCmd.AddCommand(newPrefsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	defer closeApp()
	return NewRootCmd().Execute()
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".reminderflow"), nil
}

func initConfig() error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("REMINDERFLOW")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("output", "table")
	viper.SetDefault("preferences", filepath.Join(dir, "preferences.yaml"))
	viper.SetDefault("timeout", "30s")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func initApp() error {
	if rt != nil {
		return nil
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console", OutputPath: "stderr"})

	p, err := prefs.Open(viper.GetString("preferences"))
	if err != nil {
		return fmt.Errorf("failed to open preferences: %w", err)
	}

	catalog, err := i18n.New()
	if err != nil {
		return err
	}

	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}
	api := client.NewClient(client.Config{
		BaseURL: url,
		Timeout: viper.GetDuration("timeout"),
	})

	b := backend.New(api, p, log)
	store := session.New(b, b, p, nil, log)
	toasts := toast.NewQueue()

	rt = &app{
		prefs:   p,
		catalog: catalog,
		api:     api,
		backend: b,
		store:   store,
		toasts:  toasts,
		flow:    authflow.New(b, store, toasts, catalog, p, log),
		log:     log,
	}
	return nil
}

func closeApp() {
	if rt != nil {
		rt.store.Close()
		rt = nil
	}
}

func getOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	return viper.GetString("output")
}

// requireSession restores the persisted session and fails when nobody is
// signed in
func requireSession(ctx context.Context) (session.State, error) {
	rt.store.Initialize(ctx)
	st := rt.store.State()
	if !st.Authenticated() {
		return st, fmt.Errorf("not signed in. Run 'reminderflow auth login' first")
	}
	return st, nil
}

// requireBusiness is requireSession for commands scoped to a business
func requireBusiness(ctx context.Context) (*client.Business, error) {
	st, err := requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if st.Business == nil {
		return nil, fmt.Errorf("no business is linked to %s", st.User.Email)
	}
	return st.Business, nil
}

// flushToasts prints the notifications posted during a command and empties
// the queue
func flushToasts(w io.Writer) {
	if rt == nil {
		return
	}
	for _, t := range rt.toasts.List() {
		fmt.Fprintln(w, formatToast(t))
	}
	rt.toasts.Clear()
}

func (a *app) t(key string, args ...interface{}) string {
	return a.catalog.T(a.prefs.Language(), key, args...)
}
