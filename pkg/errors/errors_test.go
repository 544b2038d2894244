package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContext(t *testing.T) {
	assert.NoError(t, WithContext(nil, "ignored"))

	err := WithContext(WithContext(New("cause"), "inner"), "outer")
	assert.EqualError(t, err, "outer: inner: cause")
	assert.Equal(t, New("cause"), RootCause(err))
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	err := WithContext(NotFound{Bucket: "cell-sets-staging", Key: "exp"}, "get object")

	var notFound NotFound
	assert.True(t, As(err, &notFound))
	assert.Equal(t, "exp", notFound.Key)
	assert.True(t, Is(err, NotFound{Bucket: "cell-sets-staging", Key: "exp"}))
}

func TestGetPrintableMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		exp  string
	}{
		{
			name: "plain",
			err:  WithContext(New("boom"), "pull"),
			exp:  "pull: boom",
		},
		{
			name: "friendly",
			err:  WithContext(NewFriendlyError("Please open a tunnel to %s.", "staging"), "connect"),
			exp:  "Please open a tunnel to staging.",
		},
		{
			name: "typed",
			err:  LookupError{Table: "sample file type", Key: "bam"},
			exp:  `unknown sample file type "bam"`,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, GetPrintableMessage(test.err))
		})
	}
}
