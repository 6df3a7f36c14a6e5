// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package document loads and caches plain-string snapshots of the files
// under investigation. The query core only ever sees a snapshot, never a
// live editor buffer.
package document

import (
	"path/filepath"
	"strings"
)

// Snapshot is an immutable capture of a file's content at open time.
type Snapshot struct {
	Path       string `json:"path"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	Size       int64  `json:"size"`
	LineEnding string `json:"lineEnding"`
	Language   string `json:"language"`
}

// DetectLineEnding reports the dominant line ending style: CRLF, CR, or LF.
func DetectLineEnding(content string) string {
	if strings.Contains(content, "\r\n") {
		return "CRLF"
	}
	if strings.Contains(content, "\r") {
		return "CR"
	}
	return "LF"
}

var languageByExt = map[string]string{
	"rs":         "rust",
	"js":         "javascript",
	"mjs":        "javascript",
	"cjs":        "javascript",
	"ts":         "typescript",
	"mts":        "typescript",
	"cts":        "typescript",
	"jsx":        "jsx",
	"tsx":        "tsx",
	"py":         "python",
	"pyw":        "python",
	"java":       "java",
	"c":          "c",
	"cpp":        "cpp",
	"cc":         "cpp",
	"cxx":        "cpp",
	"c++":        "cpp",
	"h":          "cpp",
	"hpp":        "cpp",
	"hxx":        "cpp",
	"cs":         "csharp",
	"go":         "go",
	"rb":         "ruby",
	"php":        "php",
	"swift":      "swift",
	"kt":         "kotlin",
	"kts":        "kotlin",
	"scala":      "scala",
	"r":          "r",
	"html":       "html",
	"htm":        "html",
	"css":        "css",
	"scss":       "sass",
	"sass":       "sass",
	"less":       "less",
	"json":       "json",
	"xml":        "xml",
	"xsl":        "xml",
	"xslt":       "xml",
	"svg":        "xml",
	"yaml":       "yaml",
	"yml":        "yaml",
	"toml":       "toml",
	"md":         "markdown",
	"markdown":   "markdown",
	"sql":        "sql",
	"sh":         "shell",
	"bash":       "shell",
	"zsh":        "shell",
	"bat":        "shell",
	"cmd":        "shell",
	"ps1":        "powershell",
	"psm1":       "powershell",
	"lua":        "lua",
	"perl":       "perl",
	"pl":         "perl",
	"pm":         "perl",
	"dockerfile": "dockerfile",
	"makefile":   "cmake",
	"cmake":      "cmake",
	"ini":        "ini",
	"cfg":        "ini",
	"conf":       "ini",
	"csv":        "csv",
	"txt":        "plaintext",
	"log":        "plaintext",
}

// LanguageFor maps a file name to a syntax language identifier, defaulting
// to plaintext.
func LanguageFor(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return "plaintext"
}
