package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/enbility/zeroconf/v3"

	"github.com/Hansen8601/home-assistant/pkg/discovery"
)

// Domain is the mDNS domain browsed by default.
const Domain = "local"

// DefaultServiceTypes maps well-known mDNS/DNS-SD service types to the
// service identifiers the registry routes on. Only services that announce
// themselves over mDNS appear here; other mechanisms need their own backend.
func DefaultServiceTypes() map[string]string {
	return map[string]string{
		"_sonos._tcp":      "sonos",
		"_googlecast._tcp": "google_cast",
		"_hue._tcp":        "philips_hue",
		"_plex._tcp":       "plex_mediaserver",
		"_roku._tcp":       "roku",
		"_viera._tcp":      "panasonic_viera",
	}
}

// MDNSConfig configures the mDNS backend.
type MDNSConfig struct {
	// ServiceTypes maps mDNS service types to service identifiers.
	// Nil means DefaultServiceTypes.
	ServiceTypes map[string]string

	// Interface restricts browsing to a single network interface.
	// Empty means all interfaces.
	Interface string

	// Domain is the mDNS domain. Empty means Domain ("local").
	Domain string
}

// MDNSBackend discovers services by browsing mDNS/DNS-SD announcements.
// All configured service types are browsed concurrently within the round's
// context; the round ends when the context expires.
type MDNSBackend struct {
	config MDNSConfig
}

// NewMDNSBackend creates an mDNS scan backend.
func NewMDNSBackend(config MDNSConfig) *MDNSBackend {
	if config.ServiceTypes == nil {
		config.ServiceTypes = DefaultServiceTypes()
	}
	if config.Domain == "" {
		config.Domain = Domain
	}
	return &MDNSBackend{config: config}
}

// Scan browses all configured service types once.
// A context deadline is the normal end of a round, not an error.
func (b *MDNSBackend) Scan(ctx context.Context) ([]Found, error) {
	var (
		mu      sync.Mutex
		results []Found
		errs    []error
		wg      sync.WaitGroup
	)

	for mdnsType, service := range b.config.ServiceTypes {
		wg.Add(1)
		go func(mdnsType, service string) {
			defer wg.Done()
			found, err := b.browse(ctx, mdnsType, service)

			mu.Lock()
			defer mu.Unlock()
			results = append(results, found...)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", mdnsType, err))
			}
		}(mdnsType, service)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// browse collects all answers for one service type until the context ends.
func (b *MDNSBackend) browse(ctx context.Context, mdnsType, service string) ([]Found, error) {
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	var found []Found
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				if entry == nil {
					continue
				}
				found = append(found, b.entryToFound(entry, mdnsType, service))
			case <-removed:
				// Departures are irrelevant within a single round.
			case <-ctx.Done():
				return
			}
		}
	}()

	err := zeroconf.Browse(ctx, mdnsType, b.config.Domain, entries, removed, b.clientOptions()...)
	<-done

	if err != nil && ctx.Err() == nil {
		return found, err
	}
	return found, nil
}

// clientOptions returns zeroconf client options based on config.
func (b *MDNSBackend) clientOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToFound converts a zeroconf answer into a classified endpoint.
func (b *MDNSBackend) entryToFound(entry *zeroconf.ServiceEntry, mdnsType, service string) Found {
	host := entry.HostName
	if len(entry.AddrIPv4) > 0 {
		host = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		host = entry.AddrIPv6[0].String()
	}

	info := discovery.Info{
		"host":     host,
		"port":     entry.Port,
		"hostname": entry.HostName,
		"name":     entry.Instance,
	}
	if props := parseTXT(entry.Text); len(props) > 0 {
		info["properties"] = props
	}

	return Found{
		Service: service,
		Key:     mdnsType + "/" + entry.Instance + "/" + host,
		Info:    info,
	}
}

// parseTXT converts "key=value" TXT records to a map. Records without an
// equals sign become keys with an empty value.
func parseTXT(records []string) map[string]any {
	if len(records) == 0 {
		return nil
	}
	props := make(map[string]any, len(records))
	for _, record := range records {
		if record == "" {
			continue
		}
		key, value, _ := strings.Cut(record, "=")
		props[key] = value
	}
	return props
}

// Compile-time interface satisfaction check.
var _ Backend = (*MDNSBackend)(nil)
