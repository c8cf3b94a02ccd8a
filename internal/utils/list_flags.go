package utils

import (
	"fmt"

	"github.com/hance08/fairshare/internal/service"
	"github.com/spf13/cobra"
)

// ListFlags are the window and paging flags shared by every listing command.
type ListFlags struct {
	From   string
	To     string
	Limit  int
	Offset int
}

func (f *ListFlags) Bind(cmd *cobra.Command, defaultLimit int) {
	cmd.Flags().StringVar(&f.From, "from", "", "Only show entries created on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.To, "to", "", "Only show entries created on or before this date (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&f.Limit, "limit", "l", defaultLimit, "Maximum number of entries to display (0 for all)")
	cmd.Flags().IntVar(&f.Offset, "offset", 0, "Number of entries to skip")
}

func (f *ListFlags) Options() (service.ListOptions, error) {
	from, err := ParseDate(f.From, false)
	if err != nil {
		return service.ListOptions{}, err
	}
	to, err := ParseDate(f.To, true)
	if err != nil {
		return service.ListOptions{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return service.ListOptions{}, fmt.Errorf("--to must not be before --from")
	}
	if f.Offset < 0 {
		return service.ListOptions{}, fmt.Errorf("--offset must not be negative")
	}
	return service.ListOptions{From: from, To: to, Limit: f.Limit, Offset: f.Offset}, nil
}
