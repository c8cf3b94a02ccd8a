package prompts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hance08/fairshare/internal/money"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/split"
)

var splitModes = []string{
	string(split.ModeEqual),
	string(split.ModeExact),
	string(split.ModePercentages),
	string(split.ModeShares),
}

// PromptPayer lets the user pick the payer among the group members
func PromptPayer(members []int64, current int64) (int64, error) {
	selected := current
	options := make([]huh.Option[int64], 0, len(members))
	for _, id := range members {
		options = append(options, huh.NewOption(fmt.Sprintf("user %d", id), id))
	}

	err := huh.NewSelect[int64]().
		Title("Who paid?").
		Options(options...).
		Value(&selected).
		Height(10).
		Run()
	return selected, err
}

// PromptParticipants selects who shares the expense, all members by default
func PromptParticipants(members []int64, preselected []int64) ([]int64, error) {
	chosen := make(map[int64]bool, len(preselected))
	for _, id := range preselected {
		chosen[id] = true
	}

	options := make([]huh.Option[int64], 0, len(members))
	for _, id := range members {
		opt := huh.NewOption(fmt.Sprintf("user %d", id), id)
		if len(preselected) == 0 || chosen[id] {
			opt = opt.Selected(true)
		}
		options = append(options, opt)
	}

	var selected []int64
	err := huh.NewMultiSelect[int64]().
		Title("Split between:").
		Description("The payer is always included in an equal split").
		Options(options...).
		Value(&selected).
		Validate(func(ids []int64) error {
			if len(ids) == 0 {
				return errors.New("select at least one participant")
			}
			return nil
		}).
		Run()
	return selected, err
}

// PromptSplit asks for a split mode and the per-participant values it needs,
// filling in the matching field of in.
func PromptSplit(in *service.ExpenseInput) error {
	mode, err := PromptSelect("How should it be split?", splitModes, string(split.ModeEqual))
	if err != nil {
		return err
	}

	switch split.Mode(mode) {
	case split.ModeExact:
		values, err := promptPerUser(in.ParticipantUserIDs, "Amount for user %d:", money.Parse)
		if err != nil {
			return err
		}
		in.ExactAmounts = values
	case split.ModePercentages:
		values, err := promptPerUser(in.ParticipantUserIDs, "Percentage for user %d:", money.Parse)
		if err != nil {
			return err
		}
		in.Percentages = values
	case split.ModeShares:
		values, err := promptPerUser(in.ParticipantUserIDs, "Shares for user %d:", parseWeight)
		if err != nil {
			return err
		}
		in.Shares = values
	}
	return nil
}

func promptPerUser[T any](users []int64, title string, parse func(string) (T, error)) ([]T, error) {
	out := make([]T, 0, len(users))
	for _, id := range users {
		var raw string
		err := huh.NewInput().
			Title(fmt.Sprintf(title, id)).
			Value(&raw).
			Validate(func(s string) error {
				_, err := parse(s)
				return err
			}).
			Run()
		if err != nil {
			return nil, err
		}
		v, _ := parse(raw)
		out = append(out, v)
	}
	return out, nil
}

func parseWeight(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shares must be a whole number")
	}
	return n, nil
}
