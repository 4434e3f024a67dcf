package main

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/reoring/protopatch"
	"github.com/reoring/protopatch/internal/watch"
)

var checkCmd = &cobra.Command{
	Use:   "check [patch files or dirs...]",
	Short: "Decode patch files and report rejected entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := runCheck(cmd, args)
		if w, _ := cmd.Flags().GetBool("watch"); !w {
			return err
		}
		return watchCheck(cmd, args)
	},
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	s.printIssues()
	if len(s.issues) > 0 {
		s.out.printf("%d entries loaded, %d rejected\n", len(s.entries), len(s.issues))
		return errReported
	}
	s.out.ok("%d entries loaded", len(s.entries))
	return nil
}

// watchCheck reruns the check whenever a patch file under the checked
// directories changes, until interrupted.
func watchCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = viper.GetStringSlice("patch_dirs")
	}
	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			p = filepath.Dir(p)
		}
		dirs = append(dirs, p)
	}
	w, err := watch.New(dirs, protopatch.IsPatchFile, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	out := newPrinter(cmd.OutOrStdout(), viper.GetString("color"))
	for {
		select {
		case <-ctx.Done():
			return nil
		case file := <-w.Changes:
			out.heading("changed: %s", file)
			if err := runCheck(cmd, args); err != nil && !errors.Is(err, errReported) {
				out.printf("%v\n", err)
			}
		}
	}
}

func init() {
	checkCmd.Flags().Bool("watch", false, "recheck when patch files change")
	rootCmd.AddCommand(checkCmd)
}
