package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/fcurrie/ledmatrix-golang/internal/types"
)

const maxParallel = 64

// Scanner represents a network scanner for discovering display daemons
type Scanner struct {
	config types.DiscoveryConfig
	client *http.Client
}

// NewScanner creates a new network scanner
func NewScanner(config types.DiscoveryConfig) *Scanner {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.TimeoutMS <= 0 {
		config.TimeoutMS = 500
	}
	timeout := time.Duration(config.TimeoutMS) * time.Millisecond
	return &Scanner{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

// ScanResult represents a daemon that answered
type ScanResult struct {
	Address string
	Status  types.DisplayStatus
}

// ScanNetwork scans the local IPv4 networks for display daemons
func (s *Scanner) ScanNetwork(ctx context.Context) ([]ScanResult, error) {
	// Get all network interfaces
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	var hosts []net.IP
	for _, iface := range interfaces {
		// Skip loopback and down interfaces
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addresses, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addresses {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil || ipNet.IP.IsLinkLocalUnicast() {
				continue
			}
			hosts = append(hosts, Hosts(ipNet)...)
		}
	}
	return s.ScanHosts(ctx, hosts)
}

// ScanHosts probes every host, a bounded number at a time
func (s *Scanner) ScanHosts(ctx context.Context, hosts []net.IP) ([]ScanResult, error) {
	var (
		mu      sync.Mutex
		results []ScanResult
		wg      sync.WaitGroup
		sem     = make(chan struct{}, maxParallel)
	)

	for _, ip := range hosts {
		select {
		case <-ctx.Done():
			wg.Wait()
			return results, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(ip net.IP) {
			defer wg.Done()
			defer func() { <-sem }()
			addr := net.JoinHostPort(ip.String(), strconv.Itoa(s.config.Port))
			if st, ok := s.Probe(ctx, addr); ok {
				mu.Lock()
				results = append(results, ScanResult{Address: addr, Status: st})
				mu.Unlock()
			}
		}(ip)
	}
	wg.Wait()
	return results, ctx.Err()
}

// Probe checks whether a display daemon answers at addr (host:port)
func (s *Scanner) Probe(ctx context.Context, addr string) (types.DisplayStatus, bool) {
	var st types.DisplayStatus
	var health struct {
		Status string `json:"status"`
	}
	if err := s.getJSON(ctx, "http://"+addr+"/health", &health); err != nil || health.Status != "ok" {
		return st, false
	}
	if err := s.getJSON(ctx, "http://"+addr+"/status", &st); err != nil {
		return st, false
	}
	return st, true
}

func (s *Scanner) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Hosts lists the host addresses of ipNet, excluding the network and
// broadcast addresses. Networks larger than a /24 are narrowed to the /24
// around the interface address.
func Hosts(ipNet *net.IPNet) []net.IP {
	ip := ipNet.IP.To4()
	if ip == nil {
		return nil
	}
	mask := net.IPMask(ipNet.Mask)
	if len(mask) == net.IPv6len {
		mask = mask[12:]
	}
	if ones, _ := mask.Size(); ones < 24 {
		mask = net.CIDRMask(24, 32)
	}

	network := ip.Mask(mask)
	broadcast := make(net.IP, 4)
	for i := range broadcast {
		broadcast[i] = network[i] | ^mask[i]
	}

	var hosts []net.IP
	for n := ipToUint(network) + 1; n < ipToUint(broadcast); n++ {
		hosts = append(hosts, uintToIP(n))
	}
	return hosts
}

func ipToUint(ip net.IP) uint32 {
	return uint32(ip[0])<<24 | uint32(ip[1])<<16 | uint32(ip[2])<<8 | uint32(ip[3])
}

func uintToIP(n uint32) net.IP {
	return net.IPv4(byte(n>>24), byte(n>>16), byte(n>>8), byte(n)).To4()
}
