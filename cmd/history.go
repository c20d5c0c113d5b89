package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// historyCmd lists the articles the signed-in user has read.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the articles you have read",
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

		items, err := client.ReadHistory(ctx)
		if err != nil {
			return fmt.Errorf("load read history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "no articles read yet")
			return nil
		}
		for _, it := range items {
			fmt.Fprintf(out, "%-12s %s  %s\n", it.Category, it.PublishDate, it.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
