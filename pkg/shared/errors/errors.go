package errors

// CommandError represents a failure of a CLI command, carrying the process
// exit code the boundary should terminate with.
type CommandError struct {
	ExitCode    int
	CommonError string
}

// Error implements the error interface, returning the underlying message.
func (e *CommandError) Error() string {
	return e.CommonError
}

// NewCommandError creates a new CommandError wrapping the given error.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode:    code,
		CommonError: err.Error(),
	}
}
