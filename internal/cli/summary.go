package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"arbeitszeit/internal/models"
	"arbeitszeit/internal/service"
)

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var login string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a user's entries and balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			sess, err := a.svc.Login(cmd.Context(), login)
			if err != nil {
				return err
			}
			ov, err := a.svc.Overview(cmd.Context(), sess)
			if err != nil {
				return err
			}
			printOverview(cmd.OutOrStdout(), ov)
			return nil
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "user login")
	_ = cmd.MarkFlagRequired("login")
	return cmd
}

func printOverview(out io.Writer, ov *service.Overview) {
	fmt.Fprintf(out, "Benutzer: %s\n", ov.Login)
	fmt.Fprintf(out, "Verbleibende Urlaubstage: %s\n", ov.Summary.RemainingVacation.String())
	fmt.Fprintf(out, "Überstunden-Bilanz: %s\n", ov.Summary.OvertimeBalance)
	fmt.Fprintf(out, "Freizeitausgleich-Tage: %d\n\n", ov.Summary.CompLeaveDays)

	if len(ov.Records) == 0 {
		fmt.Fprintln(out, "Keine Einträge vorhanden.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, col := range models.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col)
	}
	fmt.Fprintln(tw)
	for _, r := range ov.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			r.Date, r.Login, r.Start, r.End, r.BreakMinutes, r.Worked, r.Overtime, r.DayType, models.FormatFlag(r.CompLeave))
	}
	_ = tw.Flush()
}
