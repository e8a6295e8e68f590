//go:build linux

package netif

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// systemLister reads links over netlink so the kernel's IFLA_OPERSTATE is
// used rather than the administrative IFF_UP flag.
type systemLister struct{}

func (systemLister) Links() ([]Link, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("netlink: %w", err)
	}
	out := make([]Link, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		out = append(out, Link{
			Name:         attrs.Name,
			Alias:        attrs.Alias,
			Type:         link.Type(),
			HardwareAddr: attrs.HardwareAddr,
			Up:           attrs.OperState == netlink.OperUp,
		})
	}
	return out, nil
}
