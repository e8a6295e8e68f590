// Package netif finds the network interface the host is currently using.
package netif

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrNoInterfaceUp is returned when no interface is operationally up.
var ErrNoInterfaceUp = errors.New("no network interface is up")

// Interface identifies a network interface.
type Interface struct {
	Name        string
	Description string
}

// Link is the platform-neutral view of an interface used to pick the active one.
type Link struct {
	Name         string
	Alias        string
	Type         string
	HardwareAddr net.HardwareAddr
	Up           bool
}

// Lister enumerates the host's links in kernel order.
type Lister interface {
	Links() ([]Link, error)
}

// Inspector returns the first interface that is operationally up.
// Results are never cached so reconnections show up on the next call.
type Inspector struct {
	lister Lister
}

// New returns an Inspector backed by the platform lister.
func New() *Inspector {
	return &Inspector{lister: systemLister{}}
}

// NewWithLister returns an Inspector backed by l (for testing).
func NewWithLister(l Lister) *Inspector {
	return &Inspector{lister: l}
}

// FirstUp returns the first interface whose operational state is up.
func (i *Inspector) FirstUp() (Interface, error) {
	links, err := i.lister.Links()
	if err != nil {
		return Interface{}, fmt.Errorf("listing network interfaces: %w", err)
	}
	for _, l := range links {
		if l.Up {
			return Interface{Name: l.Name, Description: describe(l)}, nil
		}
	}
	return Interface{}, ErrNoInterfaceUp
}

func describe(l Link) string {
	if l.Alias != "" {
		return l.Alias
	}
	parts := make([]string, 0, 2)
	if l.Type != "" {
		parts = append(parts, l.Type)
	}
	if len(l.HardwareAddr) > 0 {
		parts = append(parts, l.HardwareAddr.String())
	}
	if len(parts) == 0 {
		return l.Name
	}
	return strings.Join(parts, " ")
}
