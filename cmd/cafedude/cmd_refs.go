package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Col-E/CAFED00D-sub000/classfile"
	"github.com/Col-E/CAFED00D-sub000/format"
)

func newRefsCmd(g *globalFlags) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "refs <file>",
		Short: "List the constant pool entries referenced by each member",
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

			w := cmd.OutOrStdout()
			if method != "" {
				methods := cf.GetMethods(method)
				if len(methods) == 0 {
					return fmt.Errorf("no method named %q in %s", method, cf.ClassName())
				}
				for _, m := range methods {
					writeRefs(w, "method "+m.NameString()+m.DescriptorString(), classfile.CPReferences(m))
				}
				return nil
			}

			writeRefs(w, "class "+cf.ClassName(), classRefs(cf))
			for i := range cf.Fields {
				f := &cf.Fields[i]
				writeRefs(w, "field "+f.NameString()+" "+f.DescriptorString(), classfile.CPReferences(f))
			}
			for i := range cf.Methods {
				m := &cf.Methods[i]
				writeRefs(w, "method "+m.NameString()+m.DescriptorString(), classfile.CPReferences(m))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "only list references made by methods with this name")

	return cmd
}

// classRefs returns the entries referenced by the class header and the
// class-level attributes, leaving out those of fields and methods.
func classRefs(cf *classfile.ClassFile) []classfile.ConstantPoolEntry {
	header := &classfile.ClassFile{
		ConstantPool: cf.ConstantPool,
		ThisClass:    cf.ThisClass,
		SuperClass:   cf.SuperClass,
		Interfaces:   cf.Interfaces,
		Attributes:   cf.Attributes,
	}
	return classfile.CPReferences(header)
}

func writeRefs(w io.Writer, heading string, refs []classfile.ConstantPoolEntry) {
	fmt.Fprintln(w, heading)
	for _, e := range refs {
		fmt.Fprintf(w, "  #%d\t%s\t%s\n", e.Index(), e.Tag(), format.Constant(e))
	}
}
