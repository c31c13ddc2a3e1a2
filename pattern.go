package main

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

const defaultNameTemplate = "{author} - {title}"

// NamingRule maps a glob over the scan-relative directory to a name template.
type NamingRule struct {
	Pattern  string
	Template string

	matcher glob.Glob
}

// newNamingRule compiles pattern with shell semantics: no separators are
// declared, so "*" also spans "/".
func newNamingRule(pattern, template string) (NamingRule, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return NamingRule{}, fmt.Errorf("invalid path pattern %q: %w", pattern, err)
	}
	return NamingRule{Pattern: pattern, Template: template, matcher: g}, nil
}

// Match reports whether relDir matches the rule's pattern.
func (r NamingRule) Match(relDir string) bool {
	if r.matcher == nil {
		return false
	}
	return r.matcher.Match(relDir)
}

// resolveTemplate returns the template of the first rule matching relDir,
// or the default template.
func resolveTemplate(relDir string, rules []NamingRule) string {
	for _, rule := range rules {
		if rule.Match(relDir) {
			return rule.Template
		}
	}
	return defaultNameTemplate
}

// formatName substitutes the {author} and {title} placeholders. Everything
// else in the template is kept literally.
func formatName(template, author, title string) string {
	return strings.NewReplacer("{author}", author, "{title}", title).Replace(template)
}
