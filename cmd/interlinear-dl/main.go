// Package main provides the entry point for the interlinear-dl CLI.
//
// interlinear-dl crawls the index pages of the Online Interlinear Bible and
// downloads every linked PDF into a local directory tree.
//
// Usage:
//
//	interlinear-dl crawl --dest ./downloads
//	interlinear-dl crawl --parallel --category OT
//	interlinear-dl links --sizes
//
// See --help for all available options.
package main

// main is the entry point for interlinear-dl.
func main() {
	Execute()
}
