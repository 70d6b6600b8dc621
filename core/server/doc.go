// Package server holds the HTTP server configuration.
//
// While the start command handles the server lifecycle, this package defines the
// listen port and the API key protecting every route.
package server
