package utilities

import (
	"context"
	"net"
	"slices"

	psnet "github.com/shirou/gopsutil/v4/net"
)

// PhysicalMacAddrs lists the hardware addresses of interfaces that are up,
// skipping locally administered (virtual) ones.
func PhysicalMacAddrs(ctx context.Context) ([]string, error) {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	var macs []string
	for _, ifa := range ifaces {
		if isPhysicalMac(ifa.HardwareAddr, ifa.Flags) {
			macs = append(macs, ifa.HardwareAddr)
		}
	}
	return macs, nil
}

func isPhysicalMac(addr string, flags []string) bool {
	if !slices.Contains(flags, "up") {
		return false
	}
	hw, err := net.ParseMAC(addr)
	if err != nil || len(hw) == 0 {
		return false
	}
	return hw[0]&2 == 0
}

// OutboundIP reports the local address used to reach target. No packet is sent.
func OutboundIP(ctx context.Context, target string) (net.IP, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", target)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = conn.Close()
	}()

	return conn.LocalAddr().(*net.UDPAddr).IP, nil
}
