package net

import (
	"log/slog"
	"net"
)

// OutgoingIP finds the preferred local IP address for the host to share.
// Without a route to the internet it falls back to the first non-loopback
// IPv4 interface address, then to loopback.
func OutgoingIP(logger *slog.Logger) net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP
		}
	}
	ip := firstIPv4()
	if ip.IsLoopback() {
		logger.Warn("net: no LAN address found, sharing loopback")
	}
	return ip
}

// firstIPv4 returns the first IPv4 address of an interface that is up and
// not a loopback.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
