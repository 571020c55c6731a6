// Package cli is the imgdrop terminal front end: an interactive REPL over
// the upload orchestrator and a one-shot mode for scripts (-f).
package cli
