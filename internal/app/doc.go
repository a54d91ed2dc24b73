// Package app contains the host application around the graph core: loading
// graph files, evaluating targets, watching files, serving an editor link,
// and the ambient logging, tracing and health check setup. It is decoupled
// from the CLI that drives it.
package app
