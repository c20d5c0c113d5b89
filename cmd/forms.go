package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// formsCmd lists submitted contact forms. The endpoint rejects non-admin
// tokens, so this stays hidden from the regular help output.
var formsCmd = &cobra.Command{
	Use:    "forms",
	Short:  "List submitted contact forms (admin)",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if st.Token() == "" {
			return errors.New("not signed in: run newsreel and log in first")
		}

		client := newClient(cfg, st)
		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout())
		defer cancel()

		forms, err := client.ContactForms(ctx)
		if err != nil {
			return fmt.Errorf("load contact forms: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(forms) == 0 {
			fmt.Fprintln(out, "no contact forms submitted")
			return nil
		}
		for _, f := range forms {
			fmt.Fprintf(out, "%s  %s <%s>\n  %s\n  %s\n\n", f.Date, f.Name, f.Email, f.Subject, f.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formsCmd)
}
