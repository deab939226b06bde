// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Retrace. It lets AI assistants search the local screenshot corpus
// through the same driving ports the CLI uses.
package mcp

import "errors"

// Errors returned when required ports are not provided.
var (
	ErrMissingParserService = errors.New("mcp: parser service is required")
	ErrMissingSearchService = errors.New("mcp: search service is required")
)
