// Package notifier reports the outcome of a concert update run.
//
// Implementations append a step summary and key=value outputs for GitHub
// Actions, print announcements in dry-run mode, or post them to Twitter.
package notifier
