package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebakir/newsreel/internal/api"
)

// accountCmd prints the signed-in profile and interest scores without
// starting the TUI.
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the signed-in account and interest profile",
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

		acc, err := client.Account(ctx)
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s <%s>\n", acc.Name, acc.Surname, acc.Email)
		if acc.PhoneNumber != "" {
			fmt.Fprintf(out, "phone: %s\n", acc.PhoneNumber)
		}

		scores, err := client.Recommendations(ctx, st.UserID())
		if err != nil {
			// The profile is still useful without scores.
			fmt.Fprintf(out, "interest scores unavailable: %v\n", humanMessage(err))
			return nil
		}
		if len(scores) == 0 {
			fmt.Fprintln(out, "no interest profile yet")
			return nil
		}
		fmt.Fprintln(out, "interests:")
		for _, s := range scores {
			fmt.Fprintf(out, "  %-14s %.0f%%\n", s.Category, s.Score*100)
		}
		return nil
	},
}

func humanMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func init() {
	rootCmd.AddCommand(accountCmd)
}
