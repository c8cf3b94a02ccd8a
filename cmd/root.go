package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hance08/fairshare/cmd/expense"
	"github.com/hance08/fairshare/cmd/member"
	"github.com/hance08/fairshare/internal/app"
	"github.com/hance08/fairshare/internal/config"
	"github.com/hance08/fairshare/internal/errhandler"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	groupID int64
	cfg     *config.Config
)

func Execute() {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	// --config has to be known before the services exist
	pre := pflag.NewFlagSet("fairshare", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	pre.StringVarP(&cfgFile, "config", "c", "", "")
	_ = pre.Parse(os.Args[1:])

	if err := initConfig(); err != nil {
		pterm.Error.Println(err)
		os.Exit(errhandler.ExitFailure)
	}

	application, cleanup, err := app.NewApp(cfg)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(errhandler.ExitFailure)
	}

	rootCmd := &cobra.Command{
		Use:   "fairshare",
		Short: "fairshare tracks shared expenses and settles group debts",
		Long: `fairshare tracks shared expenses inside groups, keeps a running
ledger of who owes whom, and suggests the fewest transfers to settle up.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("group") {
				cfg.Defaults.Group = groupID
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "set the config file path")
	rootCmd.PersistentFlags().Int64VarP(&groupID, "group", "g", cfg.Defaults.Group, "group to operate on")

	svc := application.Service
	rootCmd.AddCommand(member.NewMemberCmd(svc))
	rootCmd.AddCommand(expense.NewExpenseCmd(svc))

	rootCmd.AddCommand(NewLedgerCmd(svc))
	rootCmd.AddCommand(NewSettleCmd(svc))
	rootCmd.AddCommand(NewOwesCmd(svc))
	rootCmd.AddCommand(NewEventsCmd(svc))
	rootCmd.AddCommand(NewTransfersCmd(svc))
	rootCmd.AddCommand(NewConfirmationIDCmd(svc))
	rootCmd.AddCommand(NewInfoCmd(svc))

	err = rootCmd.Execute()
	cleanup()
	errhandler.HandleError(application.Log, err)
}

func initConfig() error {
	// a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := app.AppDataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	defaults := config.NewDefault()
	viper.SetDefault("database.path", defaults.Database.Path)
	viper.SetDefault("database.busy_timeout_ms", defaults.Database.BusyTimeoutMS)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("defaults.group", defaults.Defaults.Group)

	if cfgFile == "" {
		if err := createDefaultConfig(); err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix("FAIRSHARE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	cfg = config.NewDefault()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	dbPath, err := expandPath(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("invalid database path: %w", err)
	}
	cfg.Database.Path = dbPath
	cfg.ConfigPath = viper.ConfigFileUsed()

	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}

func createDefaultConfig() error {
	appDir, err := app.AppDataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := viper.SafeWriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
