package protopatch

// Package protopatch applies data-driven patches to a loaded prototype
// database:
//
// - Patch files (JSON or YAML) decode into Entries carrying a typed Value
// - Values cover scalars, references, vectors, nested prototypes and
//   parameterized property tables with curve references
// - Property tables resolve lazily through DeferredProperties once the
//   property metadata is initialized
// - A stable error model via Issues (JSON Pointer into the patch file, code,
//   message)
//
// Design policy:
// - Keep only public APIs in the root package; put the token engine under internal/.
// - The record graph lives in content/, property metadata and collections in property/.
// - The CLI lives under cmd/protopatch.
//
// Typical usage:
//
//  ld := protopatch.NewLoader(db, logger)
//  entries, err := ld.LoadDir("patches")
//  reg := protopatch.NewRegistry(protopatch.Env{Graph: db, Properties: infos, Curves: curves})
//  err = reg.ApplyAll(entries)
//  ok, props, text := reg.PreviewPropertyPatch(id)
//
