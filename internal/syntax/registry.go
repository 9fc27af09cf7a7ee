package syntax

import "github.com/dshills/inkline/internal/extension"

// All returns the built-in rules in their dispatch order. Block rules
// come first; among inline rules image precedes link so "![" is never
// read as a bracket, and strong precedes emphasis so "**" is never read
// as two "*".
func All() []extension.Extension {
	return []extension.Extension{
		Heading{},
		Blockquote{},
		ListItem{},
		Rule{},
		Image{},
		Link{},
		Strong(),
		Emphasis(),
	}
}

// Default builds a registry over all built-in rules.
func Default() *extension.Registry {
	return extension.NewRegistry(All()...)
}

// Select builds a registry over the built-in rules minus the disabled
// set, preserving dispatch order, with extra rules appended after.
func Select(disabled map[string]bool, extra ...extension.Extension) *extension.Registry {
	var exts []extension.Extension
	for _, e := range All() {
		if disabled[e.Name()] {
			continue
		}
		exts = append(exts, e)
	}
	exts = append(exts, extra...)
	return extension.NewRegistry(exts...)
}
