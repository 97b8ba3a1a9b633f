package main

import (
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/paul-ooi/skillet/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available guidance bundles",
	Long:  `List every bundle in the registry with its triggers and description, in registry order.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.Load(cmd.Context()); err != nil {
			presenter.Error(err, "failed to load bundle registry")
			return err
		}

		snap := eng.Registry().Snapshot()
		if snap.Len() == 0 {
			presenter.Info("No bundles found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		defer w.Flush()

		w.Write([]byte("ID\tTRIGGERS\tDESCRIPTION\n"))
		for b := range snap.All() {
			triggers := strings.Join(b.Triggers, ", ")
			if triggers == "" {
				triggers = "-"
			}
			w.Write([]byte(b.ID + "\t" + triggers + "\t" + truncate(b.Description, 60) + "\n"))
		}
		return nil
	},
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
