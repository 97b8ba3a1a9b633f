package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paul-ooi/skillet/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <bundle-id>",
	Short: "Show a bundle's metadata and content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.Load(cmd.Context()); err != nil {
			presenter.Error(err, "failed to load bundle registry")
			return err
		}

		b, err := eng.Registry().Snapshot().Get(args[0])
		if err != nil {
			presenter.Error(err, "")
			return err
		}

		presenter.Section(b.ID)
		presenter.Info("Description: " + b.Description)
		if len(b.Triggers) > 0 {
			presenter.Info("Triggers: " + strings.Join(b.Triggers, ", "))
		}
		if len(b.DefersTo) > 0 {
			presenter.Info("Defers to: " + strings.Join(b.DefersTo, ", "))
		}
		if len(b.References) > 0 {
			refs := make([]string, len(b.References))
			for i, ref := range b.References {
				refs[i] = ref.ID
			}
			presenter.Info("References: " + strings.Join(refs, ", "))
		}
		fmt.Println()
		fmt.Println(b.Content)
		return nil
	},
}
