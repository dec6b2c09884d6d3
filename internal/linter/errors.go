package linter

import (
	"errors"

	lerrors "github.com/conneroisu/playlint/internal/errors"
)

// errorLine returns the source line recorded on a LintError, or 0.
func errorLine(err error) int {
	var le *lerrors.LintError
	if errors.As(err, &le) {
		return le.Line
	}
	return 0
}
