package errhandler

import (
	"errors"
	"os"
	"strings"
	"unicode"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/charmbracelet/huh"
	"github.com/hance08/fairshare/internal/service"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
)

const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
)

// IsCancelled reports whether err comes from the user aborting a prompt.
func IsCancelled(err error) bool {
	return errors.Is(err, terminal.InterruptErr) ||
		errors.Is(err, huh.ErrUserAborted) ||
		strings.Contains(err.Error(), "interrupt")
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsCancelled(err):
		return ExitOK
	case service.IsValidation(err):
		return ExitValidation
	case service.IsNotFound(err):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

// HandleError prints err for the user, logs it, and exits with ExitCode(err).
func HandleError(log logrus.FieldLogger, err error) {
	if err == nil {
		return
	}
	if IsCancelled(err) {
		pterm.Warning.Println("Operation Cancelled")
		os.Exit(ExitOK)
	}

	code := ExitCode(err)
	if log != nil {
		entry := log.WithError(err).WithField("exit_code", code)
		if code == ExitFailure {
			entry.Error("command failed")
		} else {
			entry.Warn("command rejected")
		}
	}

	pterm.Error.Println(Capitalize(err.Error()))
	os.Exit(code)
}

func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
