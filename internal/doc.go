// Package internal contains the implementation packages of the playlint CLI.
//
// # Package Organization
//
//   - value: tagged YAML value tree (text, sequence, mapping, other scalars)
//   - playbook: loading playbooks and task files into tasks with positions and skips
//   - rules: the rule contract, severities and the registry
//   - rules/filterspacing: the filter-surrounded-by-spaces rule
//   - rules/builtin: the set of rules shipped with the binary
//   - linter: the worker-pool engine producing reports
//   - scanner: discovery of YAML files below the given paths
//   - report: text, pep8, json and yaml renderers
//   - watcher: fsnotify watching with debouncing for lint --watch
//   - config, logging, errors, version: ambient support
//
// # Data Flow
//
//	paths -> scanner.Discover -> linter.Engine.LintFiles
//	      -> playbook.Load -> rules (per task) -> linter.Report -> report.Write
//
// Rules only see immutable task values, so the engine lints files in parallel
// without locking.
package internal
