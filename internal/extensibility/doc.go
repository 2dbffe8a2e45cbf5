// Package extensibility holds pluggable add-ons for machines: action
// listeners for logging, timing and metrics, guard combinators, and an event
// source that drives a machine from a channel.
package extensibility
