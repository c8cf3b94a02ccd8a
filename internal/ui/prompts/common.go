package prompts

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hance08/fairshare/internal/money"
)

// PromptDescription prompts for a description text, pre-filled with defaultValue
func PromptDescription(message string, defaultValue string, required bool) (string, error) {
	desc := defaultValue

	input := huh.NewInput().
		Title(message).
		Value(&desc)

	if required {
		input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("description is required")
			}
			return nil
		})
	}

	err := input.Run()
	return desc, err
}

// PromptAmount prompts for a money amount, pre-filled with defaultValue
func PromptAmount(message string, helpText string, defaultValue string) (string, error) {
	amount := defaultValue

	err := huh.NewInput().
		Title(message).
		Description(helpText).
		Value(&amount).
		Validate(func(s string) error {
			_, err := money.Parse(s)
			return err
		}).
		Run()

	return amount, err
}

// PromptSelect prompts for a selection from a list of options
func PromptSelect(message string, options []string, defaultOption string) (string, error) {
	selected := defaultOption

	var opts []huh.Option[string]
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}

	err := huh.NewSelect[string]().
		Title(message).
		Options(opts...).
		Value(&selected).
		Run()

	return selected, err
}
