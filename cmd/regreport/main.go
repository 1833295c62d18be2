// Package main provides the entry point for the regreport CLI.
//
// regreport composes fixed-width regression reports from fitted spatial
// econometric models and keeps a history of the generated reports.
//
// Usage:
//
//	regreport render <model.yaml>...
//	regreport history [dataset]
//	regreport compare <id> <id>
//
// See --help for all available options.
package main

// main is the entry point for regreport.
func main() {
	Execute()
}
