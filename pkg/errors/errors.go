package errors

import (
	"errors"
	"fmt"
	"time"
)

const (
	CodeConfigNotFound     = "CONFIG_NOT_FOUND"
	CodeConfigurationError = "CONFIGURATION_ERROR"
	CodeFilesystemConflict = "FILESYSTEM_CONFLICT"
	CodeSecurityViolation  = "SECURITY_VIOLATION"
	CodeProcessTimeout     = "PROCESS_TIMEOUT"
	CodeProcessFailure     = "PROCESS_FAILURE"
)

// Types ////////////////////////////////////////

type CodedError interface {
	Code() string
}

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

// TimeoutKind names the timer that stopped a process.
type TimeoutKind string

const (
	IdleTimeout    TimeoutKind = "idle"
	OverallTimeout TimeoutKind = "overall"
)

// ProcessTimeoutError is returned when a process was killed because one of its timers elapsed.
type ProcessTimeoutError struct {
	Kind    TimeoutKind
	Timeout time.Duration
	Command string
}

func (e *ProcessTimeoutError) Error() string {
	if e.Kind == IdleTimeout {
		return fmt.Sprintf("%s produced no output for %s and was stopped", e.Command, e.Timeout)
	}
	return fmt.Sprintf("%s did not finish within %s and was stopped", e.Command, e.Timeout)
}

func (e *ProcessTimeoutError) Code() string {
	return CodeProcessTimeout
}

// ProcessFailureError is returned when a process exited with a non-zero status.
type ProcessFailureError struct {
	ExitCode int
	Command  string
}

func (e *ProcessFailureError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

func (e *ProcessFailureError) Code() string {
	return CodeProcessFailure
}

// Error Creators ///////////////////////////////

// The config file was not found
func ConfigNotFound(msg string) error {
	return &codedError{
		code: CodeConfigNotFound,
		msg:  msg,
	}
}

// The caller passed an unusable image name, source path or option
func ConfigurationError(msg string) error {
	return &codedError{
		code: CodeConfigurationError,
		msg:  msg,
	}
}

func ConfigurationErrorf(format string, v ...interface{}) error {
	return ConfigurationError(fmt.Sprintf(format, v...))
}

// A regular file occupies a path where a directory has to be created
func FilesystemConflict(msg string) error {
	return &codedError{
		code: CodeFilesystemConflict,
		msg:  msg,
	}
}

// A path that is about to be deleted resolves outside of the project directory
func SecurityViolation(msg string) error {
	return &codedError{
		code: CodeSecurityViolation,
		msg:  msg,
	}
}

func ProcessTimeout(kind TimeoutKind, timeout time.Duration, command string) error {
	return &ProcessTimeoutError{Kind: kind, Timeout: timeout, Command: command}
}

func ProcessFailure(exitCode int, command string) error {
	return &ProcessFailureError{ExitCode: exitCode, Command: command}
}

// Helpers //////////////////////////////////////

func IsConfigNotFound(err error) bool {
	return Code(err) == CodeConfigNotFound
}

func IsConfigurationError(err error) bool {
	return Code(err) == CodeConfigurationError
}

func IsFilesystemConflict(err error) bool {
	return Code(err) == CodeFilesystemConflict
}

func IsSecurityViolation(err error) bool {
	return Code(err) == CodeSecurityViolation
}

func IsProcessTimeout(err error) bool {
	return Code(err) == CodeProcessTimeout
}

func IsProcessFailure(err error) bool {
	return Code(err) == CodeProcessFailure
}

// TimeoutKindOf returns which timer stopped the process, or the empty string
func TimeoutKindOf(err error) TimeoutKind {
	var terr *ProcessTimeoutError
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return ""
}

// ExitCode returns the exit status carried by a ProcessFailure, or -1
func ExitCode(err error) int {
	var ferr *ProcessFailureError
	if errors.As(err, &ferr) {
		return ferr.ExitCode
	}
	return -1
}

// Return the error code, or the empty string
func Code(err error) string {
	var cerr CodedError
	if errors.As(err, &cerr) {
		return cerr.Code()
	}

	return ""
}
