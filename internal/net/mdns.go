// Package net exposes the board to other processes: a websocket frame feed
// with remote input, and mDNS advertisement and discovery of feed servers.
package net

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

// Advertisement describes the feed server announced on the LAN.
type Advertisement struct {
	Instance string
	Service  string
	Port     int
	IP       net.IP
}

// Advertise announces the feed server over mDNS. Shutdown the returned
// server to withdraw it.
func Advertise(ad Advertisement) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	instance := ad.Instance
	if instance == "" {
		instance = host
	}
	var ips []net.IP
	if ad.IP != nil {
		ips = []net.IP{ad.IP}
	}

	service, err := mdns.NewMDNSService(instance, ad.Service, "", "", ad.Port, ips, []string{"LocalBoard", "path=/ws"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Host is a feed server found on the LAN.
type Host struct {
	Name string `json:"name"`
	Addr string `json:"addr"`
}

// query is replaced in tests.
var query = mdns.Query

// Browse queries the LAN for service and calls found for every server with
// an IPv4 address. It returns after timeout or when ctx is done; found is
// never called after Browse returns.
func Browse(ctx context.Context, service string, timeout time.Duration, logger *slog.Logger, found func(Host)) error {
	var (
		mu      sync.Mutex
		stopped bool
	)
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				logger.Debug("net: skipping entry without IPv4", slog.String("name", e.Name))
				continue
			}
			mu.Lock()
			if !stopped {
				found(Host{Name: e.Name, Addr: fmt.Sprintf("%s:%d", e.AddrV4, e.Port)})
			}
			mu.Unlock()
		}
	}()

	params := mdns.DefaultParams(service)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	queried := make(chan error, 1)
	go func() {
		err := query(params)
		close(entries)
		queried <- err
	}()

	select {
	case err := <-queried:
		<-done
		return err
	case <-ctx.Done():
		// The query runs until its timeout; drop whatever it still finds.
		mu.Lock()
		stopped = true
		mu.Unlock()
		return ctx.Err()
	}
}
