package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/reoring/protopatch"
	"github.com/reoring/protopatch/i18n"
	"github.com/reoring/protopatch/internal/config"
	"github.com/reoring/protopatch/internal/fixture"
)

// session is one CLI run: configuration, content and the loaded entries.
type session struct {
	cfg     config.Config
	log     hclog.Logger
	out     *printer
	content *fixture.Content
	entries []*protopatch.Entry
	issues  protopatch.Issues
}

// openSession loads the content fixture and the patch files named by paths,
// or by patch_dirs when paths is empty. Property metadata is initialized after
// the patches are loaded, the same order a server starts in.
func openSession(cmd *cobra.Command, paths []string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	i18n.SetLanguage(cfg.Language)
	s := &session{
		cfg: cfg,
		log: cfg.Logger(cmd.ErrOrStderr()),
		out: newPrinter(cmd.OutOrStdout(), cfg.Color),
	}
	s.content, err = fixture.LoadFile(cfg.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	if len(paths) == 0 {
		paths = cfg.PatchDirs
	}
	ld := protopatch.NewLoader(s.content.DB, s.log, cfg.LoadOpt())
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		var entries []*protopatch.Entry
		if fi.IsDir() {
			entries, err = ld.LoadDir(p)
		} else {
			entries, err = ld.LoadFile(p)
		}
		s.entries = append(s.entries, entries...)
		if err != nil {
			iss, ok := protopatch.AsIssues(err)
			if !ok {
				return nil, err
			}
			s.issues = protopatch.AppendIssues(s.issues, iss...)
		}
	}
	if err := s.content.InitProperties(); err != nil {
		return nil, fmt.Errorf("failed to initialize properties: %w", err)
	}
	return s, nil
}

// apply applies every loaded entry and returns the registry.
func (s *session) apply() *protopatch.Registry {
	reg := protopatch.NewRegistry(s.content.Env(), protopatch.RegistryOpt{Logger: s.log})
	if err := reg.ApplyAll(s.entries); err != nil {
		if iss, ok := protopatch.AsIssues(err); ok {
			s.issues = protopatch.AppendIssues(s.issues, iss...)
		}
	}
	return reg
}

func (s *session) printIssues() {
	for _, it := range s.issues {
		s.out.issue(it)
	}
}
