// Package audit writes RFC5424 audit records for security-relevant and
// data-changing operations.
//
// # Event Types
//
//   - authn: authentication attempts (success/failure)
//   - entry-create, entry-import, entry-delete: changes to daily entries
//   - goal-update: weekly target changes
//
// # Usage
//
//	auditor := audit.New(audit.NewLogger(), audit.NewStore(sqlDB), logger)
//	auditor.Log(ctx, audit.GoalUpdateEvent{UserID: id, WeeklyTarget: 15})
//
// Lines go to stdout; when a Store is configured they are also inserted into
// the audit_messages table. Persistence errors are logged, never returned.
package audit
