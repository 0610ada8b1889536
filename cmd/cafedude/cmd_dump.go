package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Col-E/CAFED00D-sub000/format"
)

func newDumpCmd(g *globalFlags) *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <file>...",
		Short: "Print the structure of one or more class files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !cmd.Flags().Changed("format") {
				dumpFormat = s.config.Output.Format
			}
			out := cmd.OutOrStdout()
			if f, ok := out.(*os.File); ok && dumpFormat == format.CBOR && term.IsTerminal(int(f.Fd())) {
				return fmt.Errorf("refusing to write CBOR to a terminal; redirect the output")
			}
			enc, err := format.New(dumpFormat, out)
			if err != nil {
				return err
			}

			for _, path := range args {
				cf, err := s.decode(cmd, path)
				if err != nil {
					return err
				}
				if err := enc.Encode(cf); err != nil {
					return fmt.Errorf("encode %s: %w", dumpFormat, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", format.Line, "output format (line, json, cbor)")

	return cmd
}
