package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Col-E/CAFED00D-sub000/classfile"
)

func newRoundtripCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "roundtrip <file>",
		Short: "Decode and re-encode a class file",
		Long: `Decode a class file, encode it again and decode the result.
The re-decoded class is equivalent when encoding it once more gives the same
bytes. Attributes dropped by the decoder are logged. With -o the rewritten
class is written to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			path := args[0]
			data, err := readInput(cmd, path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			cf, err := s.decodeData(path, data)
			if err != nil {
				return err
			}
			out, err := cf.EncodeWith(s.opts)
			if err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
			again, err := classfile.Decode(out, s.opts)
			if err != nil {
				return fmt.Errorf("re-decode %s: %w", path, err)
			}
			check, err := again.EncodeWith(s.opts)
			if err != nil {
				return fmt.Errorf("re-encode %s: %w", path, err)
			}
			if !bytes.Equal(out, check) {
				return fmt.Errorf("%s: re-decoded class is not equivalent (%d -> %d bytes)", path, len(out), len(check))
			}

			if output != "" {
				if err := os.WriteFile(output, out, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				log.Noticef("wrote %d bytes to %s", len(out), output)
			}

			w := cmd.OutOrStdout()
			if bytes.Equal(data, out) {
				fmt.Fprintf(w, "%s: equivalent, identical bytes (%d)\n", path, len(out))
			} else {
				fmt.Fprintf(w, "%s: equivalent, bytes changed (%d -> %d)\n", path, len(data), len(out))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the re-encoded class to this file")

	return cmd
}
