package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:          "cafedude",
		Short:        "Read, inspect and rewrite JVM class files",
		SilenceUsage: true,
	}
	g.register(rootCmd)

	rootCmd.AddCommand(newDumpCmd(g))
	rootCmd.AddCommand(newDisasmCmd(g))
	rootCmd.AddCommand(newRoundtripCmd(g))
	rootCmd.AddCommand(newRefsCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
