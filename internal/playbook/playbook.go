// Package playbook loads playbooks and task files and flattens them into the
// individual tasks that rules are run against.
package playbook

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	lerrors "github.com/conneroisu/playlint/internal/errors"
	"github.com/conneroisu/playlint/internal/value"
	"gopkg.in/yaml.v3"
)

// SkipAllTag is the task tag that disables every rule for that task.
const SkipAllTag = "skip_ansible_lint"

// skipAll marks a task that is excluded from every rule.
const skipAll = "*"

// Sections of a play that hold tasks, in execution order.
var taskSections = []string{"pre_tasks", "tasks", "post_tasks", "handlers"}

// Keys whose values are nested task lists inside a block.
var blockSections = []string{"block", "rescue", "always"}

// Kind describes what a YAML file contains.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlaybook
	KindTasks
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlaybook:
		return "playbook"
	case KindTasks:
		return "tasks"
	default:
		return "unknown"
	}
}

// File is a loaded YAML file and the tasks found in it.
type File struct {
	Path  string
	Kind  Kind
	Tasks []*Task
}

// Task is a single task as seen by rules.
type Task struct {
	// Name is the task's name entry, empty when the task is unnamed.
	Name string
	File string
	Line int
	// Section is the play section the task came from, or "tasks" for task files.
	Section string
	// Value is the full task mapping.
	Value *value.Value
	// Skips lists rule IDs disabled for this task through noqa comments.
	Skips []string
}

// SkipsRule reports whether the task opted out of the given rule.
func (t *Task) SkipsRule(id string) bool {
	for _, s := range t.Skips {
		if s == skipAll || s == id {
			return true
		}
	}
	return false
}

// Load reads and parses the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := lerrors.ErrCodeReadFailed
		if os.IsNotExist(err) {
			code = lerrors.ErrCodeFileNotFound
		}
		return nil, lerrors.NewIOError(code, "failed to read file", err).WithLocation(path, 0, 0)
	}

	return Parse(path, data)
}

// Parse parses YAML content. path is used for task locations and errors only.
func Parse(path string, data []byte) (*File, error) {
	f := &File{Path: path}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, lerrors.NewParseError("invalid YAML", err).WithLocation(path, errorLine(err), 0)
		}

		root := &doc
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
			root = root.Content[0]
		}

		kind := detectKind(root)
		switch kind {
		case KindPlaybook:
			for _, play := range root.Content {
				f.Tasks = append(f.Tasks, playTasks(path, play)...)
			}
		case KindTasks:
			f.Tasks = append(f.Tasks, collectTasks(path, "tasks", root)...)
		}

		if f.Kind == KindUnknown {
			f.Kind = kind
		}
	}

	return f, nil
}

// detectKind decides whether a document is a playbook or a task list.
func detectKind(root *yaml.Node) Kind {
	if root == nil || root.Kind != yaml.SequenceNode || len(root.Content) == 0 {
		return KindUnknown
	}

	mappings := 0
	for _, item := range root.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		mappings++
		if mappingKey(item, "hosts") != nil || mappingKey(item, "import_playbook") != nil ||
			mappingKey(item, "ansible.builtin.import_playbook") != nil {
			return KindPlaybook
		}
	}

	if mappings == 0 {
		return KindUnknown
	}
	return KindTasks
}

func playTasks(path string, play *yaml.Node) []*Task {
	if play.Kind != yaml.MappingNode {
		return nil
	}

	var tasks []*Task
	for _, section := range taskSections {
		if list := mappingKey(play, section); list != nil {
			tasks = append(tasks, collectTasks(path, section, list)...)
		}
	}
	return tasks
}

// collectTasks flattens a task list, descending into block, rescue and always.
func collectTasks(path, section string, list *yaml.Node) []*Task {
	if list.Kind != yaml.SequenceNode {
		return nil
	}

	var tasks []*Task
	for _, item := range list.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}

		if mappingKey(item, "block") != nil {
			for _, key := range blockSections {
				if nested := mappingKey(item, key); nested != nil {
					tasks = append(tasks, collectTasks(path, section, nested)...)
				}
			}
			continue
		}

		tasks = append(tasks, newTask(path, section, item))
	}
	return tasks
}

func newTask(path, section string, node *yaml.Node) *Task {
	v := value.FromNode(node)
	t := &Task{
		File:    path,
		Line:    node.Line,
		Section: section,
		Value:   v,
		Skips:   noqaSkips(node),
	}

	if name, ok := v.Get("name"); ok && name.Kind() == value.KindText {
		t.Name = name.Text()
	}

	if hasTag(v, SkipAllTag) {
		t.Skips = append(t.Skips, skipAll)
	}

	return t
}

func hasTag(task *value.Value, tag string) bool {
	tags, ok := task.Get("tags")
	if !ok {
		return false
	}

	switch tags.Kind() {
	case value.KindText:
		for _, t := range strings.Split(tags.Text(), ",") {
			if strings.TrimSpace(t) == tag {
				return true
			}
		}
	case value.KindSequence:
		for _, t := range tags.Items() {
			if t.Kind() == value.KindText && t.Text() == tag {
				return true
			}
		}
	}
	return false
}

// noqaSkips collects rule IDs from "# noqa" line comments anywhere in the
// task. A bare "# noqa" disables every rule.
func noqaSkips(node *yaml.Node) []string {
	var skips []string
	seen := make(map[string]bool)

	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		if n == nil {
			return
		}
		for _, id := range parseNoqa(n.LineComment) {
			if !seen[id] {
				seen[id] = true
				skips = append(skips, id)
			}
		}
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(node)

	return skips
}

// parseNoqa extracts rule IDs from a comment such as "# noqa: a-rule b-rule".
func parseNoqa(comment string) []string {
	comment = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "#"))
	if !strings.HasPrefix(comment, "noqa") {
		return nil
	}

	rest := strings.TrimPrefix(comment, "noqa")
	if rest != "" && rest[0] != ':' && rest[0] != ' ' && rest[0] != '\t' {
		return nil
	}
	rest = strings.TrimPrefix(rest, ":")

	ids := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(ids) == 0 {
		return []string{skipAll}
	}
	return ids
}

func mappingKey(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// errorLine pulls the line number out of a yaml.v3 syntax error.
func errorLine(err error) int {
	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr != nil {
		return 0
	}
	return line
}
