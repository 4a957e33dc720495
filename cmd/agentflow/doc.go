// Package main hosts the agentflow CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into calls against the
// video editor backend through internal/editorapi: project management, render
// jobs, waveform lookups, asset URLs and the live project event stream. It
// resolves configuration and logging once per invocation so subcommands only
// deal with presentation.
package main
