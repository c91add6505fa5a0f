// Package mcp provides an MCP (Model Context Protocol) server adapter for sniff.
// It lets AI assistants identify the binary format of data files and browse
// the classification history.
package mcp

import "errors"

// ErrMissingClassifier is returned when the classifier service is not provided.
var ErrMissingClassifier = errors.New("mcp: classifier service is required")
