package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <prototype> [patch files or dirs...]",
	Short: "Show the patch entries, property preview and patched fields of one prototype",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[1:])
		if err != nil {
			return err
		}
		id, ok := s.content.DB.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown prototype %q", args[0])
		}
		reg := s.apply()

		s.out.heading("%s (%d): %d entries", s.content.DB.NameOf(id), id, reg.EntryCount(id))
		for _, e := range reg.Entries(id) {
			mark := " "
			if e.Applied() {
				mark = "✓"
			}
			s.out.printf("%s %s#/%d %-10s %-18s %s\n", mark, e.Source, e.Index, e.Path, e.Value.Kind(), e.Description)
		}
		_, _, text := reg.PreviewPropertyPatch(id)
		s.out.heading("properties")
		s.out.printf("%s\n", text)
		rec, _ := s.content.DB.Record(id)
		s.out.heading("record")
		s.out.printf("%s", rec.Dump())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
