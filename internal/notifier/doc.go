// Package notifier announces newly captured data points.
//
// Announcements are optional and best-effort: the Twitter notifier posts one
// status per data point, and the dry-run notifier prints what would be posted.
package notifier
