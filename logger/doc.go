// Package logger is the central log for the engine and the command line
// player. Log entries are tagged with the component that made them. Repeated
// entries are folded into a single entry with a repeat count.
//
// Whether a log entry is made at all is decided by the Permission value
// passed to Log() and Logf(). The player.Player type implements Permission
// so that an engine rendering in the background can be kept quiet.
package logger
