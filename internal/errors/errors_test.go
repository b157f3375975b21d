package errors

import (
	"fmt"
	"testing"

	"github.com/ariel-frischer/blurbs/internal/blurb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsCLIError(t *testing.T) {
	cliErr := NewArgumentError("bad flag")
	wrapped := fmt.Errorf("running: %w", cliErr)

	assert.Same(t, cliErr, AsCLIError(wrapped))
	assert.True(t, IsCLIError(wrapped))
	assert.Nil(t, AsCLIError(fmt.Errorf("plain")))
	assert.Nil(t, Wrap(nil, Runtime))
}

func TestFormatErrorPlain(t *testing.T) {
	tests := map[string]struct {
		err      *CLIError
		expected string
	}{
		"message only": {
			err:      NewRuntimeError("disk full"),
			expected: "Error [Runtime Error]: disk full\n",
		},
		"with usage and remediation": {
			err: NewArgumentErrorWithUsage("blurb directory not found: nope",
				"blurbs generate --input <dir>", "Create the directory"),
			expected: "Error [Argument Error]: blurb directory not found: nope\n" +
				"\n" +
				"Usage: blurbs generate --input <dir>\n" +
				"\n" +
				"To fix this:\n" +
				"  • Create the directory\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatErrorPlain(tt.err))
		})
	}

	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFromBlurbError(t *testing.T) {
	tests := map[string]struct {
		err         error
		category    ErrorCategory
		remediation string
	}{
		"unknown field": {
			err:         &blurb.ValidationError{File: "a.yaml", Entry: 2, Field: "notes", Err: blurb.ErrUnknownField},
			category:    Validation,
			remediation: "type, issue, description",
		},
		"unknown category": {
			err:         fmt.Errorf("loading: %w", &blurb.ValidationError{File: "a.yaml", Field: "type", Value: "fixes", Err: blurb.ErrUnknownCategory}),
			category:    Validation,
			remediation: "new, deprecated, changed, enhanced, fix, improvement, packaging, docs, development",
		},
		"malformed author": {
			err:         &blurb.ValidationError{File: "a.yaml", Field: "author", Value: "Cher", Err: blurb.ErrMalformedAuthor},
			category:    Validation,
			remediation: "First Last",
		},
		"mixed entry": {
			err:         &blurb.ValidationError{File: "a.yaml", Entry: 1, Field: "type", Err: blurb.ErrMixedEntry},
			category:    Validation,
			remediation: "'---'",
		},
		"duplicate key": {
			err:         &blurb.ValidationError{File: "a.yaml", Entry: 2, Field: "description", Err: fmt.Errorf("%w at line 4", blurb.ErrDuplicateKey)},
			category:    Validation,
			remediation: "repeated 'description'",
		},
		"syntax": {
			err:         &blurb.ValidationError{File: "a.yaml", Err: fmt.Errorf("%w: bad", blurb.ErrSyntax)},
			category:    Validation,
			remediation: "'---'",
		},
		"not a blurb error": {
			err:      fmt.Errorf("permission denied"),
			category: Runtime,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cliErr := FromBlurbError(tt.err)
			require.NotNil(t, cliErr)
			assert.Equal(t, tt.category, cliErr.Category)
			assert.Equal(t, tt.err.Error(), cliErr.Message)
			assert.ErrorIs(t, cliErr, tt.err)
			if tt.remediation != "" {
				assert.Contains(t, FormatErrorPlain(cliErr), tt.remediation)
				assert.Contains(t, FormatErrorPlain(cliErr), "No output was written")
			}
		})
	}

	assert.Nil(t, FromBlurbError(nil))
}

func TestMessages(t *testing.T) {
	cfgErr := InvalidConfig(fmt.Errorf("shortlog: must be one of blurbs, git, none"))
	assert.Equal(t, Configuration, cfgErr.Category)
	assert.Contains(t, cfgErr.Message, "invalid configuration: shortlog")

	dirErr := MissingInputDir("blurbs")
	assert.Equal(t, Argument, dirErr.Category)
	assert.Contains(t, dirErr.Message, "blurbs")
	assert.NotEmpty(t, dirErr.Usage)

	flagErr := InvalidFlagValue("shortlog", "svn", []string{"blurbs", "git", "none"})
	assert.Contains(t, FormatErrorPlain(flagErr), "Valid values: blurbs, git, none")
}
