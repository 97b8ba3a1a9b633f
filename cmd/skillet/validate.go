package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paul-ooi/skillet/pkg/presenter"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the bundle sources",
	Long: `Load the configured bundle sources and report the first structural
problem found: a duplicate bundle id, a dangling defers-to or reference
target, or a deference cycle.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.Load(cmd.Context()); err != nil {
			presenter.Error(err, "validation failed")
			return err
		}

		snap := eng.Registry().Snapshot()
		presenter.Success(fmt.Sprintf("%d bundles valid", snap.Len()))
		return nil
	},
}
