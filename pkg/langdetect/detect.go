// Package langdetect classifies project source files with go-enry: it
// picks the dialect a file is parsed in and flags vendored and generated
// files that discovery should leave alone.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/collation/pkg/tsast"
)

// enry language names.
const (
	enryTypeScript = "TypeScript"
	enryTSX        = "TSX"
	enryJavaScript = "JavaScript"
)

// Info is what detection learned about one file.
type Info struct {
	// Language is the dialect to parse the file in.
	Language tsast.Language

	// Known is false when the file is not TypeScript or JavaScript.
	Known bool

	// Vendored is set for paths under vendored trees such as node_modules.
	Vendored bool

	// Generated is set for minified bundles, source maps and files that
	// carry a generated-code marker.
	Generated bool
}

// Detect classifies the file at path with the given content.
func Detect(path string, content []byte) Info {
	info := Info{
		Vendored:  enry.IsVendor(filepath.ToSlash(path)),
		Generated: len(content) > 0 && enry.IsGenerated(path, content),
	}

	// Strategy 1: the extension decides for every extension we discover.
	if slices.Contains(tsast.Extensions, strings.ToLower(filepath.Ext(path))) {
		info.Language = tsast.LanguageFromPath(path)
		info.Known = true
		if info.Language == tsast.LangJavaScript && hasJSX(content) {
			info.Language = tsast.LangJSX
		}
		return info
	}

	// Strategy 2: a shebang names the interpreter of an extensionless script.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fromEnry(info, lang, content)
	}

	// Strategy 3: ask the classifier to choose between the dialects.
	candidates := []string{enryTypeScript, enryTSX, enryJavaScript}
	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe {
		return fromEnry(info, lang, content)
	}

	return info
}

func fromEnry(info Info, lang string, content []byte) Info {
	switch lang {
	case enryTypeScript:
		info.Language, info.Known = tsast.LangTypeScript, true
	case enryTSX:
		info.Language, info.Known = tsast.LangTSX, true
	case enryJavaScript:
		info.Language, info.Known = tsast.LangJavaScript, true
		if hasJSX(content) {
			info.Language = tsast.LangJSX
		}
	}
	return info
}

// hasJSX looks for markup that only JSX produces: a closing tag or a
// self-closing tag next to a React import.
func hasJSX(content []byte) bool {
	if !bytes.Contains(content, []byte("/>")) && !bytes.Contains(content, []byte("</")) {
		return false
	}
	return bytes.Contains(content, []byte(`from "react"`)) ||
		bytes.Contains(content, []byte(`from 'react'`)) ||
		bytes.Contains(content, []byte("React.")) ||
		bytes.Contains(content, []byte("return (\n"))
}
