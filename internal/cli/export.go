package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"arbeitszeit/internal/export"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var login, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's entries and balances to an xlsx file",
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
			if out == "" {
				out = export.GenerateFilename(sess.Login, time.Now())
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := a.svc.Export(cmd.Context(), sess, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Export geschrieben: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&login, "login", "", "user login")
	cmd.Flags().StringVar(&out, "out", "", "output file (default Arbeitszeit_<login>_<date>.xlsx)")
	_ = cmd.MarkFlagRequired("login")
	return cmd
}
