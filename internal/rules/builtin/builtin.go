// Package builtin lists the rules that ship with playlint.
package builtin

import (
	"github.com/conneroisu/playlint/internal/rules"
	"github.com/conneroisu/playlint/internal/rules/filterspacing"
)

// Rules returns a fresh instance of every built-in rule.
func Rules() []rules.Rule {
	return []rules.Rule{
		filterspacing.New(),
	}
}

// Registry returns a registry with every built-in rule registered.
func Registry() *rules.Registry {
	reg := rules.NewRegistry()
	reg.MustRegister(Rules()...)
	return reg
}
