// Package model defines the approval-request entity shared by the store,
// the lifecycle engine and the notification sinks.
package model
