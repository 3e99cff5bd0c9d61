package actions

import (
	"strconv"
	"syscall"
)

// NamedSignal pairs a signal with its short name.
type NamedSignal struct {
	Name   string
	Signal syscall.Signal
}

// SignalName returns the short name of sig, or its number.
func SignalName(sig syscall.Signal) string {
	for _, s := range Signals {
		if s.Signal == sig {
			return s.Name
		}
	}
	return strconv.Itoa(int(sig))
}
