package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/paul-ooi/skillet/pkg/composer"
	"github.com/paul-ooi/skillet/pkg/matcher"
	"github.com/paul-ooi/skillet/pkg/presenter"
)

var composeCmd = &cobra.Command{
	Use:   "compose <task description>",
	Short: "Compose guidance for a task description",
	Long: `Match the task description against every bundle's triggers and
description, resolve deference between the activated bundles, and print the
composed guidance.

Examples:
  skillet compose "write a test for the button's aria attributes"
  skillet compose "refactor the css grid layout" --hint a11y
  skillet compose "set up vitest" --output json`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hints, _ := cmd.Flags().GetStringSlice("hint")
		output, _ := cmd.Flags().GetString("output")

		eng, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.Load(cmd.Context()); err != nil {
			presenter.Error(err, "failed to load bundle registry")
			return err
		}

		query := matcher.Query{
			Text:  strings.Join(args, " "),
			Hints: hints,
		}

		comp, err := eng.Query(cmd.Context(), query)
		if err != nil {
			presenter.Error(err, "")
			return err
		}

		return printComposition(comp, output)
	},
}

func init() {
	composeCmd.Flags().StringSlice("hint", nil, "Explicitly request a bundle by id (repeatable)")
	composeCmd.Flags().StringP("output", "o", "text", "Output format (text, json, yaml)")
}

func printComposition(comp *composer.Composition, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(comp, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal composition")
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(comp)
		if err != nil {
			return errors.Wrap(err, "failed to marshal composition")
		}
		fmt.Print(string(data))
	case "text":
		if comp.Empty() {
			presenter.Warning("No guidance matched the task description")
			return nil
		}
		for _, entry := range comp.Entries {
			presenter.Section(entry.ID)
			fmt.Println(entry.Content)
			fmt.Println()
		}
	default:
		return errors.Errorf("unknown output format '%s'", format)
	}
	return nil
}
