package views

import (
	"fmt"

	"github.com/pterm/pterm"
)

type SystemInfoItem struct {
	ConfigPath   string
	DBPath       string
	DBExists     bool // true = Found, false = Not Found
	DefaultGroup int64
	LogLevel     string
	LogFile      string
	AppDataDir   string
}

func RenderSystemInfo(data SystemInfoItem) error {
	dbStatus := pterm.Green("Found")
	if !data.DBExists {
		dbStatus = pterm.Red("Not Found (Will be created)")
	}

	logFile := data.LogFile
	if logFile == "" {
		logFile = "(stderr)"
	}

	tableData := pterm.TableData{
		{"Configuration File", data.ConfigPath},
		{"Database Path", data.DBPath},
		{"Database Status", dbStatus},
		{"Default Group", fmt.Sprintf("%d", data.DefaultGroup)},
		{"Log Level", data.LogLevel},
		{"Log File", logFile},
		{"AppData Directory", data.AppDataDir},
	}

	return pterm.DefaultTable.WithData(tableData).Render()
}
