//go:build !linux

package netif

import "net"

type systemLister struct{}

func (systemLister) Links() ([]Link, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Link, 0, len(ifaces))
	for _, iface := range ifaces {
		out = append(out, Link{
			Name:         iface.Name,
			HardwareAddr: iface.HardwareAddr,
			Up:           iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagRunning != 0,
		})
	}
	return out, nil
}
