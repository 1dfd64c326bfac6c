package configscan

import "fmt"

// MalformedMetadataError is returned when a function's conditional metadata
// does not expose a bound-value scope that can be read.
type MalformedMetadataError struct {
	Module    string
	Function  string
	Condition int
	Reason    string
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("malformed conditional metadata on %s.%s (condition #%d): %s",
		e.Module, e.Function, e.Condition, e.Reason)
}

// NotAModuleError is returned when the input cannot be enumerated as a
// collection of named functions.
type NotAModuleError struct {
	Reason string
}

func (e *NotAModuleError) Error() string {
	return "not a module: " + e.Reason
}
