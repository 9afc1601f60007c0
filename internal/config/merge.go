package config

import (
	"slices"
	"sort"

	"github.com/jeduden/lintstack/internal/lint"
)

// layer is one source, or one of its override blocks, in traversal order.
type layer struct {
	source   *Source
	override *Override
}

func (l layer) rules() map[string]RuleSpec {
	if l.override != nil {
		return l.override.Rules
	}
	return l.source.Rules
}

// applies reports whether the layer contributes to file. Base layers always
// apply; override blocks need a file inside the source's directory that
// their patterns select.
func (l layer) applies(file string) bool {
	if l.override == nil {
		return true
	}
	if file == "" {
		return false
	}
	rel := relativeTo(l.source.Dir, file)
	return rel != "" && l.override.Matches(rel)
}

// apply merges l over acc.
//   - rules: last write wins on severity; a spec without options keeps the
//     earlier options; turning off an already-off rule changes nothing
//   - plugins, env: ordered union (env entries set to false are removed)
//   - settings, parser options: per-key last write wins, nested maps merged
//   - parser: last non-empty value wins
func apply(acc *EffectiveConfig, l layer) {
	src := l.source
	parserName, parserOpts, plugins, env, settings := src.Parser, src.ParserOptions, src.Plugins, src.Env, src.Settings
	if o := l.override; o != nil {
		parserName, parserOpts, plugins, env, settings = o.Parser, o.ParserOptions, o.Plugins, o.Env, o.Settings
	}

	if parserName != "" {
		acc.Parser = parserName
		acc.parserSource = src.ID
	}
	acc.ParserOptions = deepMerge(acc.ParserOptions, parserOpts)
	acc.Settings = deepMerge(acc.Settings, settings)

	for _, p := range plugins {
		if !slices.Contains(acc.Plugins, p) {
			acc.Plugins = append(acc.Plugins, p)
			acc.pluginSource[p] = src.ID
		}
	}

	for _, e := range env {
		i := slices.Index(acc.Env, e.Name)
		switch {
		case e.Enabled && i < 0:
			acc.Env = append(acc.Env, e.Name)
			acc.envSources[e.Name] = src.ID
		case !e.Enabled && i >= 0:
			acc.Env = slices.Delete(acc.Env, i, i+1)
		}
	}

	rules := l.rules()
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		spec := rules[id]
		prev, had := acc.Rules[id]
		if had && spec.Severity == lint.Off && prev.Severity == lint.Off {
			continue
		}
		next := RuleSetting{Severity: spec.Severity, Options: spec.Options, Source: src.ID}
		if spec.Options == nil && had {
			next.Options = prev.Options
		}
		acc.Rules[id] = next
	}

	if l.override == nil {
		for _, p := range src.IgnorePatterns {
			m, err := compilePattern(p)
			if err != nil {
				continue
			}
			acc.IgnorePatterns = append(acc.IgnorePatterns, IgnorePattern{Pattern: p, Dir: src.Dir, m: m})
		}
	}
}

// deepMerge returns a new map with src laid over dst. Nested maps merge
// key by key; every other value in src replaces the one in dst.
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := out[k].(map[string]any); ok {
				out[k] = deepMerge(dm, sm)
				continue
			}
			out[k] = deepMerge(nil, sm)
			continue
		}
		out[k] = v
	}
	return out
}
