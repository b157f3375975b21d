package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ariel-frischer/blurbs/internal/blurb"
)

// Common error messages for the blurbs CLI.
// These templates ensure consistent, actionable error messages.

// FromBlurbError maps a blurb validation failure to a CLIError with fix
// instructions for the offending file. Errors that are not blurb validation
// errors are returned as runtime errors.
func FromBlurbError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var ve *blurb.ValidationError
	if !stderrors.As(err, &ve) {
		return Wrap(err, Runtime)
	}

	var remediation []string
	switch {
	case stderrors.Is(err, blurb.ErrUnknownField):
		remediation = []string{
			fmt.Sprintf("Change entries may only use: type, issue, description (found %q)", ve.Field),
			"Check the field name for typos",
		}
	case stderrors.Is(err, blurb.ErrMissingField):
		remediation = []string{
			fmt.Sprintf("Add a non-empty '%s' to the entry", ve.Field),
		}
	case stderrors.Is(err, blurb.ErrUnknownCategory):
		remediation = []string{
			"Use one of the release note categories: " + categoryList(),
		}
	case stderrors.Is(err, blurb.ErrMalformedAuthor):
		remediation = []string{
			"Write the author as exactly two words: \"First Last\"",
			"Example: author: Jane Doe",
		}
	case stderrors.Is(err, blurb.ErrMixedEntry):
		remediation = []string{
			"Put the author entry and each change in separate YAML documents",
			"Separate entries with a '---' line",
		}
	case stderrors.Is(err, blurb.ErrDuplicateKey):
		remediation = []string{
			fmt.Sprintf("Remove the repeated '%s' key from the entry", ve.Field),
		}
	case stderrors.Is(err, blurb.ErrMissingAuthor), stderrors.Is(err, blurb.ErrDuplicateAuthor):
		remediation = []string{
			"Each blurb file needs exactly one entry of the form: author: First Last",
		}
	case stderrors.Is(err, blurb.ErrSyntax), stderrors.Is(err, blurb.ErrInvalidValue):
		remediation = []string{
			"Fix the YAML so each entry is a mapping of plain values",
			"Separate entries with '---' or list them in a sequence",
		}
	}

	cliErr := NewValidationError(err.Error(), append(remediation, "No output was written; fix the file and run again")...)
	cliErr.Cause = err
	return cliErr
}

// InvalidConfig creates an error for a configuration file or value that failed validation.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration, "invalid configuration",
		"Check .blurbs.yml (or the file given with --config)",
		"Check BLURBS_* environment variables",
		"Run 'blurbs config init' to write a commented template",
	)
}

// MissingInputDir creates an error for a blurb directory that does not exist.
func MissingInputDir(dir string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("blurb directory not found: %s", dir),
		"blurbs generate --input <dir>",
		"Create the directory and add blurb files to it",
		"Or point --input at the directory holding the blurbs",
	)
}

// InvalidFlagValue creates an error for an invalid flag value.
func InvalidFlagValue(flag, value string, validValues []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid value for --%s: %q", flag, value),
		fmt.Sprintf("Valid values: %s", strings.Join(validValues, ", ")),
		"Use 'blurbs <command> --help' to see valid options",
	)
}

func categoryList() string {
	names := make([]string, 0, len(blurb.Categories()))
	for _, c := range blurb.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}
