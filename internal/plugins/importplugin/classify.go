package importplugin

import (
	"regexp"
	"slices"
	"strings"
)

// Import kinds, as used in the groups option.
const (
	Builtin  = "builtin"
	External = "external"
	Internal = "internal"
	Unknown  = "unknown"
	Parent   = "parent"
	Sibling  = "sibling"
	Index    = "index"
	Object   = "object"
	Type     = "type"
)

var kinds = []string{Builtin, External, Internal, Unknown, Parent, Sibling, Index, Object, Type}

var nodeBuiltins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"timers": true, "tls": true, "trace_events": true, "tty": true, "url": true,
	"util": true, "v8": true, "vm": true, "wasi": true, "worker_threads": true,
	"zlib": true,
}

var externalRe = regexp.MustCompile(`^@?[\w.-]`)

// classifier sorts module specifiers into import kinds using the
// import/internal-regex and import/core-modules settings.
type classifier struct {
	internal *regexp.Regexp
	core     []string
}

func (c classifier) kind(name string) string {
	base, _, _ := strings.Cut(strings.TrimPrefix(name, "node:"), "/")
	switch {
	case strings.HasPrefix(name, "node:") || nodeBuiltins[base] || slices.Contains(c.core, name):
		return Builtin
	case c.internal != nil && c.internal.MatchString(name):
		return Internal
	case isIndex(name):
		return Index
	case name == ".." || strings.HasPrefix(name, "../"):
		return Parent
	case strings.HasPrefix(name, "./"):
		return Sibling
	case strings.HasPrefix(name, "/"):
		return Unknown
	case externalRe.MatchString(name):
		return External
	}
	return Unknown
}

func isIndex(name string) bool {
	switch name {
	case ".", "./", "./index", "./index.js", "./index.ts", "./index.tsx":
		return true
	}
	return false
}
