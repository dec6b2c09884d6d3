// Package testutils holds playbook fixtures and filesystem helpers shared by
// the package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/conneroisu/playlint/internal/config"
	"github.com/stretchr/testify/require"
)

// GoodLoopPlaybook has filters spaced correctly in msg and loop.
const GoodLoopPlaybook = `
- hosts: all
  tasks:
    - name: Register a file content as a variable
      ansible.builtin.shell: cat /some/path/to/multidoc-file.yaml
      register: result

    - name: Print the transformed variable
      ansible.builtin.debug:
        msg: '{{ item | list }}'
      loop: '{{ result.stdout | from_yaml_all | list }}'
`

// BadLoopPlaybook has four offending tasks, at lines 8, 13, 18 and 23.
const BadLoopPlaybook = `
- hosts: all
  tasks:
    - name: Register a file content as a variable
      ansible.builtin.shell: cat /some/path/to/multidoc-file.yaml
      register: result

    - name: Bad msg
      ansible.builtin.debug:
        msg: '{{ item|list }}'
      loop: '{{ result.stdout | from_yaml_all | list }}'

    - name: Bad loop 1
      ansible.builtin.debug:
        msg: '{{ item }}'
      loop: '{{ result.stdout|from_yaml_all|list }}'

    - name: Bad loop 2
      ansible.builtin.debug:
        msg: '{{ item }}'
      loop: '{{ result.stdout| from_yaml_all |list }}'

    - name: Bad loop 3
      ansible.builtin.debug:
        msg: '{{ item }}'
      loop: '{{ result.stdout |from_yaml_all| list }}'
`

// GoodCommandPlaybook has one clean task at line 4.
const GoodCommandPlaybook = `
- hosts: all
  tasks:
    - name: handle command output with return code
      ansible.builtin.command: cat {{ my_file | quote }}
      register: my_output
      changed_when: my_output.rc != 0
`

// BadCommandPlaybook has one offending task at line 4.
const BadCommandPlaybook = `
- hosts: all
  tasks:
    - name: handle command output with return code
      ansible.builtin.command: cat {{ my_file|quote }}
      register: my_output
      changed_when: my_output.rc != 0
`

// CommandTaskName is the task name used by the command fixtures.
const CommandTaskName = "handle command output with return code"

// WriteFile writes content below dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// CreateTempProject lays out a small Ansible project:
//
//	site.yml                  clean playbook
//	roles/web/tasks/main.yml  one offending task
//	roles/db/tasks/main.yml   clean playbook
//	.git/hooks.yml            offending, hidden
//	README.md
func CreateTempProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	WriteFile(t, dir, "site.yml", GoodLoopPlaybook)
	WriteFile(t, dir, "roles/web/tasks/main.yml", "- name: web\n  ansible.builtin.command: echo {{ x|quote }}\n")
	WriteFile(t, dir, "roles/db/tasks/main.yml", GoodCommandPlaybook)
	WriteFile(t, dir, ".git/hooks.yml", BadCommandPlaybook)
	WriteFile(t, dir, "README.md", "# project\n")

	return dir
}

// CreateTestConfig returns the configuration Load would produce for a
// project rooted at projectDir with no overrides.
func CreateTestConfig(projectDir string) *config.Config {
	return &config.Config{
		Paths: config.PathsConfig{
			Include: []string{projectDir},
		},
		Output: config.OutputConfig{
			Format: "text",
		},
		Watch: config.WatchConfig{
			Debounce: 20 * time.Millisecond,
		},
	}
}

// WaitFor polls cond until it holds or timeout expires.
func WaitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v", timeout)
}
