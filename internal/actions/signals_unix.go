//go:build !windows

package actions

import "syscall"

// Signals offered by the kill dialog, default first.
var Signals = []NamedSignal{
	{"TERM", syscall.SIGTERM},
	{"KILL", syscall.SIGKILL},
	{"INT", syscall.SIGINT},
	{"HUP", syscall.SIGHUP},
	{"STOP", syscall.SIGSTOP},
	{"CONT", syscall.SIGCONT},
}
