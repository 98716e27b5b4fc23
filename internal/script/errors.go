package script

import "fmt"

// ExecError describes a script execution failure: a parse error or a
// runtime error raised during statement evaluation. Execute does not
// construct it; Execute writes parse and runtime errors into Result.Stderr
// as plain text.
type ExecError struct {
	Code    string
	Message string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("script error: %s", e.Message)
}

// NameConflictError is returned by InjectTools when a tool name shadows a
// reserved or scaffold name.
type NameConflictError struct {
	Name string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("tool name %q conflicts with reserved name", e.Name)
}

// NameError is raised (as a tagged error, not a panic) by final_value when
// the requested name is absent from the namespace.
type NameError struct {
	Name string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("name %q is not defined", e.Name)
}
