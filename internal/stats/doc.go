// Package stats derives productivity analytics from session and task history.
//
// Every function is pure: it takes the full history, the current time and the
// location whose midnight delimits calendar days, and returns value objects.
// Nothing here is persisted.
package stats
