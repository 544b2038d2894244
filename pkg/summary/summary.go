// Package summary tracks the local or remote artifacts that an invocation
// changed, so that they can be reported to the operator once the command
// finishes. It has no influence on what the command does.
package summary

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Summary is the set of artifacts changed by one invocation.
type Summary struct {
	Command string
	Params  map[string]string
	RunID   string

	changed []string
	seen    map[string]struct{}
}

// newRunID is mocked in the unit tests.
var newRunID = func() string {
	return uuid.New().String()
}

// New creates an empty summary for `command`.
func New(command string, params map[string]string) *Summary {
	return &Summary{
		Command: command,
		Params:  params,
		RunID:   newRunID(),
		seen:    map[string]struct{}{},
	}
}

// Add records that `path` changed. Paths are only recorded once.
func (s *Summary) Add(path string) {
	if _, ok := s.seen[path]; ok {
		return
	}
	s.seen[path] = struct{}{}
	s.changed = append(s.changed, path)
}

// Changed returns the changed paths in the order they were first added.
func (s *Summary) Changed() []string {
	return append([]string(nil), s.changed...)
}

// Len returns the number of distinct changed paths.
func (s *Summary) Len() int {
	return len(s.changed)
}

// Report writes the summary to `w`.
func (s *Summary) Report(w io.Writer) {
	var params []string
	for k, v := range s.Params {
		params = append(params, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(params)

	fmt.Fprintf(w, "\nSummary of %q (%s) [run %s]\n", s.Command, strings.Join(params, ", "), s.RunID)
	if len(s.changed) == 0 {
		fmt.Fprintln(w, "No files changed.")
		return
	}

	fmt.Fprintf(w, "%d file(s) changed:\n", len(s.changed))
	for _, path := range s.changed {
		fmt.Fprintf(w, "  - %s\n", path)
	}
}
