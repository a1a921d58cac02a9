// Package pkg provides the core libraries for glitchid identity frames.
//
// # Overview
//
// Glitchid turns an avatar and a name into a "corrupted signal" frame. The
// pkg directory is organized into these areas:
//
//  1. [glitch] - The six-stage render (prepare, contrast, shift, scanlines, slices, overlay)
//  2. [surface] and [fonts] - Drawing capability and embedded monospace faces
//  3. [pipeline] - Orchestration (validate, render, encode, cache)
//  4. [cache] and [store] - Artifact cache and render archive backends
//  5. [integrations] - Remote avatar providers (GitHub, GitLab, plain URLs)
//  6. [config], [errors], [observability], [httputil] and [buildinfo] - Shared plumbing
//
// # Architecture
//
// The typical data flow:
//
//	Avatar bytes (file, upload, or remote)
//	         ↓
//	    [pipeline] package (normalize identity, settle seed and time)
//	         ↓
//	    [glitch] package (six stages on one RGBA buffer)
//	         ↓
//	    PNG/JPEG/GIF/TIFF/BMP artifacts (+ [cache], [store])
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Identity: "neo",
//	    Source:   avatar,
//	    Seed:     42,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile(pipeline.DownloadName(result.Identity, "png"), result.Artifacts["png"], 0o644)
//
// [glitch]: github.com/matzehuels/glitchid/pkg/glitch
// [surface]: github.com/matzehuels/glitchid/pkg/surface
// [fonts]: github.com/matzehuels/glitchid/pkg/fonts
// [pipeline]: github.com/matzehuels/glitchid/pkg/pipeline
// [cache]: github.com/matzehuels/glitchid/pkg/cache
// [store]: github.com/matzehuels/glitchid/pkg/store
// [integrations]: github.com/matzehuels/glitchid/pkg/integrations
// [config]: github.com/matzehuels/glitchid/pkg/config
// [errors]: github.com/matzehuels/glitchid/pkg/errors
// [observability]: github.com/matzehuels/glitchid/pkg/observability
// [httputil]: github.com/matzehuels/glitchid/pkg/httputil
// [buildinfo]: github.com/matzehuels/glitchid/pkg/buildinfo
package pkg
