// Package integrity provides health checks for the synchronization setup.
//
// # Checks Provided
//
//   - Structure: the feed and archive prefixes, and one feed folder per account, exist in the bucket.
//   - Schema: every column of the booking models exists in the connected database.
//   - References: each reference table holds at least one of its fallback codes.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
//   - GET /integrity/references : Runs reference data check.
package integrity
