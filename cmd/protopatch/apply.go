package main

import (
	"github.com/spf13/cobra"

	"github.com/reoring/protopatch/content"
)

var applyCmd = &cobra.Command{
	Use:   "apply [patch files or dirs...]",
	Short: "Apply patch files to the content fixture and summarize the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		showDiff, _ := cmd.Flags().GetBool("diff")
		s, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		before := map[content.PrototypeID]string{}
		for _, id := range s.content.DB.IDs() {
			rec, _ := s.content.DB.Record(id)
			before[id] = rec.Dump()
		}

		reg := s.apply()
		for _, id := range reg.Targets() {
			rec, _ := s.content.DB.Record(id)
			applied := 0
			for _, e := range reg.Entries(id) {
				if e.Applied() {
					applied++
				}
			}
			s.out.heading("%s (%d): %d/%d entries applied", rec.Name, id, applied, reg.EntryCount(id))
			if showDiff {
				s.out.diff(before[id], rec.Dump())
			}
			if ok, _, text := reg.PreviewPropertyPatch(id); ok {
				s.out.printf("%s", text)
			}
		}
		s.printIssues()
		if len(s.issues) > 0 {
			return errReported
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().Bool("diff", false, "show a before/after diff of every patched record")
	rootCmd.AddCommand(applyCmd)
}
