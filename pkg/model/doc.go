// Package model defines the database models for footprint.
//
// # Models
//
//   - Entry: a day of activity and its computed emissions (daily_emissions)
//   - Goal: weekly emission target per user (user_goals)
//   - Alias: public leaderboard name per user (leaderboard_aliases)
//   - User: registered account with a bcrypt-hashed API key (users)
//   - AuditMessage: persisted audit event (audit_messages)
//
// Dates are stored as YYYY-MM-DD text so that sqlite and PostgreSQL
// compare them the same way.
package model
