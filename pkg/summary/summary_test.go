package summary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	s := New("pull", nil)
	assert.Equal(t, 0, s.Len())

	s.Add("exp/r.rds.gz")
	s.Add("exp/mock_experiment.json")
	s.Add("exp/r.rds.gz")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"exp/r.rds.gz", "exp/mock_experiment.json"}, s.Changed())

	// Changed returns a copy.
	s.Changed()[0] = "mutated"
	assert.Equal(t, "exp/r.rds.gz", s.Changed()[0])
}

func TestReport(t *testing.T) {
	newRunID = func() string { return "run-id" }

	tests := []struct {
		name    string
		changed []string
		exp     string
	}{
		{
			name: "no changes",
			exp: "\nSummary of \"pull\" (experiment_id=exp, origin=staging) [run run-id]\n" +
				"No files changed.\n",
		},
		{
			name:    "changes",
			changed: []string{"exp/a.json", "exp/b.json"},
			exp: "\nSummary of \"pull\" (experiment_id=exp, origin=staging) [run run-id]\n" +
				"2 file(s) changed:\n" +
				"  - exp/a.json\n" +
				"  - exp/b.json\n",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			s := New("pull", map[string]string{"origin": "staging", "experiment_id": "exp"})
			for _, path := range test.changed {
				s.Add(path)
			}

			var out bytes.Buffer
			s.Report(&out)
			assert.Equal(t, test.exp, out.String())
		})
	}
}
