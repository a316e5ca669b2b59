// Package sweeper implements the periodic task that forces expiry of
// overdue pending approval requests.
package sweeper
