// Package main hosts the skillbox CLI entrypoint and command graph.
//
// Each subcommand is a thin client for one third-party API: transcribe
// (AssemblyAI), image (Gemini directly or through an OpenAI-compatible
// gateway) and email (Resend). The root command centralizes configuration
// resolution and logger setup so subcommands only translate flags into
// requests and write results.
//
// Results go to stdout; progress and diagnostics go to stderr through the
// structured logger.
package main
