package net

import (
	"fmt"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_collaboard._tcp"

// Discover browses the LAN for advertised Collaboard servers and
// returns host:port candidates found within the window. Used when no
// server address is configured.
func Discover(window time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var found []string
	done := make(chan struct{})

	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found = append(found, fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = window
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns lookup: %w", err)
	}
	return found, nil
}
