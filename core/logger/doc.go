// Package logger builds the zap logger shared by the sync service, its CLI
// commands and the HTTP API.
//
// Level and Format come from the log section of the configuration. The debug
// level switches to zap's development preset; console format is meant for a
// terminal, json for log shipping.
//
// # Fields
//
// Two helpers attach correlation fields:
//   - WithRayID tags request logs with the ray_id set by the rayid middleware.
//   - WithRun tags reconciliation logs with run_id and account, so every line of
//     one batch can be grepped together with its parked records and report.
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	l := logger.WithRun(log, run.ID, account.Code)
//	l.Info("Batch committed", zap.Int("created", summary.Created))
package logger
