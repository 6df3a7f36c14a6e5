// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// loupe-ctl is a command-line tool for querying a running Loupe instance.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wingedpig/loupe/pkg/client"
)

var (
	version    = "0.9"
	apiURL     = "http://localhost:7870"
	jsonOutput = false

	// API client instance
	apiClient *client.Client
)

func main() {
	// Check for LOUPE_API environment variable
	if env := os.Getenv("LOUPE_API"); env != "" {
		apiURL = strings.TrimSuffix(env, "/")
	}

	// Parse global flags and filter them out
	var filteredArgs []string
	for _, arg := range os.Args[1:] {
		if arg == "-json" {
			jsonOutput = true
		} else {
			filteredArgs = append(filteredArgs, arg)
		}
	}

	apiClient = client.New(apiURL)

	if len(filteredArgs) < 1 {
		printUsage()
		os.Exit(1)
	}

	cmd := filteredArgs[0]
	args := filteredArgs[1:]

	var err error
	switch cmd {
	case "compile":
		err = cmdCompile(args)
	case "filter":
		err = cmdFilter(args)
	case "resolve":
		err = cmdResolve(args)
	case "locate":
		err = cmdLocate(args)
	case "search":
		err = cmdSearch(args)
	case "tree":
		err = cmdTree(args)
	case "open":
		err = cmdOpen(args)
	case "status":
		err = cmdStatus(args)
	case "version", "-v", "--version":
		fmt.Printf("loupe-ctl %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`loupe-ctl - Query a running Loupe instance

Usage:
  loupe-ctl [-json] <command> [arguments]

Global Flags:
  -json          Output in JSON format

Environment:
  LOUPE_API      Base URL of Loupe API (default: http://localhost:7870)

Commands:
  compile <query>            Validate a filter query
  filter <file> <query>      Filter a file's lines with a query
  resolve <file> <expr>      Resolve a JSON path to its value
  locate <file> <expr>       Locate a JSON path's span in raw text
  search <pattern> <file>... Search files with a regex pattern
  tree [path]                List the document tree
  open <file>                Show a file snapshot
  status                     Show server version and health
  version                    Show loupe-ctl version
  help                       Show this help`)
}

func printJSON(v interface{}) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}

func ctlContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func cmdCompile(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: loupe-ctl compile <query>")
	}

	ctx, cancel := ctlContext()
	defer cancel()

	result, err := apiClient.Query.Compile(ctx, args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	if !result.OK {
		return fmt.Errorf("invalid query: %s", result.Error)
	}
	fmt.Printf("OK: %d clause(s), %d term(s)\n", result.ClauseCount, result.TermCount)
	return nil
}

func cmdFilter(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: loupe-ctl filter <file> <query>")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := ctlContext()
	defer cancel()

	result, err := apiClient.Query.FilterFile(ctx, path, args[1])
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	if result.Error != "" {
		return fmt.Errorf("invalid query: %s", result.Error)
	}
	for _, line := range result.FilteredLines {
		fmt.Println(line)
	}
	fmt.Fprintf(os.Stderr, "%d of %d line(s)\n", result.ResultCount, result.TotalCount)
	return nil
}

func cmdResolve(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: loupe-ctl resolve <file> <expr>")
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := ctlContext()
	defer cancel()

	result, err := apiClient.Paths.Resolve(ctx, string(content), args[1])
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	if !result.Found {
		return fmt.Errorf("path not found: %s", args[1])
	}
	printJSON(result.Value)
	return nil
}

func cmdLocate(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: loupe-ctl locate <file> <expr>")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := ctlContext()
	defer cancel()

	result, err := apiClient.Paths.LocateFile(ctx, path, args[1])
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	if result.Selection == nil {
		return fmt.Errorf("path not found: %s", args[1])
	}
	sel := result.Selection
	fmt.Printf("%s:%d:%d  key [%d,%d)  value [%d,%d)\n",
		args[0], sel.Line, sel.Col, sel.From, sel.To, sel.ValueFrom, sel.ValueTo)
	return nil
}

func cmdSearch(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: loupe-ctl search <pattern> <file>...")
	}

	pattern := args[0]
	tabs := make([]client.Tab, 0, len(args)-1)
	for _, path := range args[1:] {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tabs = append(tabs, client.Tab{Name: path, Content: string(content)})
	}

	ctx, cancel := ctlContext()
	defer cancel()

	report, err := apiClient.Search.Scan(ctx, tabs, pattern, "i")
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(report)
		return nil
	}

	for _, m := range report.Matches {
		fmt.Printf("%s:%d:%d: %s\n", m.Tab, m.Line, m.Col, m.Text)
	}
	if report.Truncated {
		fmt.Fprintln(os.Stderr, "(results truncated)")
	}
	return nil
}

func cmdTree(args []string) error {
	ctx, cancel := ctlContext()
	defer cancel()

	var entries []client.TreeEntry
	var err error
	if len(args) > 0 {
		entries, err = apiClient.Documents.TreeAt(ctx, args[0])
	} else {
		entries, err = apiClient.Documents.Tree(ctx)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(entries)
		return nil
	}

	printTree(entries, 0)
	return nil
}

func printTree(entries []client.TreeEntry, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range entries {
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		fmt.Println(indent + name)
		printTree(e.Children, depth+1)
	}
}

func cmdOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: loupe-ctl open <file>")
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := ctlContext()
	defer cancel()

	snap, err := apiClient.Documents.Open(ctx, path)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(snap)
		return nil
	}

	fmt.Fprintf(os.Stderr, "%s (%s, %d bytes, %s line endings)\n",
		snap.Name, snap.Language, snap.Size, snap.LineEnding)
	fmt.Print(snap.Content)
	return nil
}

func cmdStatus(args []string) error {
	ctx, cancel := ctlContext()
	defer cancel()

	info, err := apiClient.System.Version(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(info)
		return nil
	}

	fmt.Printf("loupe %s (api %s, %s) at %s\n",
		info.Version, info.APIVersion, info.GoVersion, apiClient.BaseURL())
	return nil
}
