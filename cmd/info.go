package cmd

import (
	"os"

	"github.com/hance08/fairshare/internal/app"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/ui/views"
	"github.com/spf13/cobra"
)

type infoRunner struct {
	svc *service.Service
}

func NewInfoCmd(svc *service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database path, and system details.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				svc: svc,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	configPath := r.svc.Config.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	dbPath := r.svc.Config.Database.Path
	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	items := views.SystemInfoItem{
		ConfigPath:   configPath,
		DBPath:       dbPath,
		DBExists:     dbExists,
		DefaultGroup: r.svc.Config.Defaults.Group,
		LogLevel:     r.svc.Config.Log.Level,
		LogFile:      r.svc.Config.Log.File,
		AppDataDir:   appDataDirOrUnknown(),
	}

	return views.RenderSystemInfo(items)
}

func appDataDirOrUnknown() string {
	dir, err := app.AppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
