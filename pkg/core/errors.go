package core

import (
	"fmt"
	"strings"
)

// IOError is returned when the filesystem cannot be read.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NotFoundError is returned when a config file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// ParseError is returned when a config file is not a valid JSON object.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid config: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownTypeError is returned when a type name is not registered.
type UnknownTypeError struct {
	Type      string
	Object    string // declaring object, empty for direct lookups
	Available []string
}

func (e *UnknownTypeError) Error() string {
	msg := fmt.Sprintf("unknown type %q", e.Type)
	if e.Object != "" {
		msg = fmt.Sprintf("%s: %s", e.Object, msg)
	}
	if len(e.Available) > 0 {
		msg += fmt.Sprintf("\nAvailable types: %s", strings.Join(e.Available, ", "))
	}
	return msg
}

// UnresolvedDependencyError is returned when no project object satisfies a slot.
type UnresolvedDependencyError struct {
	Object       string
	Slot         string
	RequiredType string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("%s: dependency %q requires an object of type %q, none found in project",
		e.Object, e.Slot, e.RequiredType)
}

// InvalidOptionError is returned when an option does not have the shape its schema describes.
type InvalidOptionError struct {
	Object string
	Option string
	Want   string
	Got    string
}

func (e *InvalidOptionError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s: option %q is required", e.Object, e.Option)
	}
	return fmt.Sprintf("%s: option %q must be %s, got %s", e.Object, e.Option, e.Want, e.Got)
}

// DuplicateObjectError is returned when two files declare the same type and name.
type DuplicateObjectError struct {
	Type  string
	Name  string
	Paths []string
}

func (e *DuplicateObjectError) Error() string {
	return fmt.Sprintf("duplicate %s %q declared in %s", e.Type, e.Name, strings.Join(e.Paths, " and "))
}

// CycleError is returned when dependencies or type ancestry form a cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}
