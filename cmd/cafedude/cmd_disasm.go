package main

import (
	"github.com/spf13/cobra"

	"github.com/Col-E/CAFED00D-sub000/format"
)

func newDisasmCmd(g *globalFlags) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "List the bytecode of a class file's methods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			cf, err := s.decode(cmd, args[0])
			if err != nil {
				return err
			}
			return format.Disassemble(cmd.OutOrStdout(), cf, method)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "only list methods with this name")

	return cmd
}
