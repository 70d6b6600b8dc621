// Package middleware groups the Fiber middleware in front of the booking sync API.
//
// Subpackages:
//   - rayid: reuses the X-Ray-ID request header or generates one, stores it in
//     the request locals and echoes it on the response.
//   - auth: rejects requests whose X-API-Key header does not match the configured
//     key. The metrics endpoint is mounted before it and stays open.
package middleware
