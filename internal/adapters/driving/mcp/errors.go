// Package mcp exposes the portfolio assistant as an MCP (Model Context
// Protocol) server, so AI clients can search and question the portfolio.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrChatUnavailable is returned by ask_portfolio when no chat service is wired.
var ErrChatUnavailable = errors.New("mcp: chat service is not configured")
