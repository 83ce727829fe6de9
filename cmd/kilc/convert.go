package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"kilc/internal/driver"
	"kilc/internal/ilfile"
)

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Pack a program graph into .ilpk",
	Long:  "Convert decodes src (.toml or .ilpk), checks that it links and writes it as msgpack to dst.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ilfile.Convert(args[0], args[1]); err != nil {
			return err
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
		}
		return nil
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List registered target architectures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := driver.NewRegistry()
		for _, sel := range reg.Selectors() {
			target, err := reg.Load(sel)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s broken: %v\n", sel, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %d opcodes\n", sel, len(target.Opcodes()))
		}
		return nil
	},
}
