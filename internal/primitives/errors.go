package primitives

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is matched by every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// Configuration issue codes.
const (
	CodeNoStates            = "NO_STATES"
	CodeEmptyStateID        = "EMPTY_STATE_ID"
	CodeDuplicateState      = "DUPLICATE_STATE"
	CodeUnknownParent       = "UNKNOWN_PARENT"
	CodeCycle               = "CYCLE"
	CodeMissingInitial      = "MISSING_INITIAL"
	CodeForeignInitial      = "FOREIGN_INITIAL"
	CodeHistoryOnLeaf       = "HISTORY_ON_LEAF"
	CodeFinalWithChildren   = "FINAL_WITH_CHILDREN"
	CodeUnknownSource       = "UNKNOWN_SOURCE"
	CodeUnknownTarget       = "UNKNOWN_TARGET"
	CodeInternalTarget      = "INTERNAL_TARGET"
	CodeLocalUnrelated      = "LOCAL_UNRELATED"
	CodeEmptyEvent          = "EMPTY_EVENT"
	CodeUnknownInitialState = "UNKNOWN_INITIAL_STATE"
	CodeUnknownState        = "UNKNOWN_STATE"
	CodeUnboundAction       = "UNBOUND_ACTION"
	CodeUnboundGuard        = "UNBOUND_GUARD"
)

// ConfigurationIssue is a single problem found while building a chart.
type ConfigurationIssue struct {
	Code    string
	Message string
	Path    []string
}

func (i ConfigurationIssue) String() string {
	if len(i.Path) > 0 {
		return fmt.Sprintf("[%s] %s (at %s)", i.Code, i.Message, strings.Join(i.Path, "."))
	}
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// ConfigurationError reports every issue found in an invalid definition.
type ConfigurationError struct {
	Issues []ConfigurationIssue
}

func (e *ConfigurationError) Error() string {
	switch len(e.Issues) {
	case 0:
		return "invalid configuration"
	case 1:
		return "invalid configuration: " + e.Issues[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invalid configuration: %d issues:", len(e.Issues))
	for i, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, issue.String())
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Add records an issue.
func (e *ConfigurationError) Add(code, message string, path ...string) {
	e.Issues = append(e.Issues, ConfigurationIssue{Code: code, Message: message, Path: path})
}

// Addf records an issue with a formatted message.
func (e *ConfigurationError) Addf(code string, path []string, format string, args ...any) {
	e.Add(code, fmt.Sprintf(format, args...), path...)
}

// HasIssues reports whether any issue was recorded.
func (e *ConfigurationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// HasCode reports whether an issue with the given code was recorded.
func (e *ConfigurationError) HasCode(code string) bool {
	for _, i := range e.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

// OrNil returns e when it has issues and nil otherwise.
func (e *ConfigurationError) OrNil() error {
	if e.HasIssues() {
		return e
	}
	return nil
}

func unknownState(id StateID) error {
	e := &ConfigurationError{}
	e.Addf(CodeUnknownState, nil, "state %q is not part of the graph", id)
	return e
}
