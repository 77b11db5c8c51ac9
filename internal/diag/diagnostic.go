package diag

import (
	"fmt"

	"ember/internal/source"
)

// Note provides auxiliary context for a diagnostic message.
type Note struct {
	Pos source.Pos
	Msg string
}

// Diagnostic captures a single issue along with optional notes.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Pos      source.Pos
	Notes    []Note
}

// Errorf builds an error diagnostic at pos.
func Errorf(code Code, pos source.Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

// Warnf builds a warning diagnostic at pos.
func Warnf(code Code, pos source.Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Severity: SevWarning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	}
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Code, d.Message)
}
