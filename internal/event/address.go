package event

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/netip"
)

// WeightedPrefix is an IPv4 network and the share of addresses drawn from it
type WeightedPrefix struct {
	Prefix netip.Prefix
	Weight float64
}

// AddressPool draws IPv4 host addresses from a set of weighted networks.
// Prefix lengths must be whole octets no longer than /24; the last octet of
// a generated address is always in 1..254.
type AddressPool struct {
	prefixes   []netip.Prefix
	cumulative []float64
}

var (
	privatePrefix = netip.MustParsePrefix("10.0.0.0/8")
	testNetPrefix = netip.MustParsePrefix("192.0.2.0/24")
)

// DefaultAddressPool is 70% 10.0.0.0/8 and 30% TEST-NET-1
func DefaultAddressPool() *AddressPool {
	p, _ := NewAddressPool(
		WeightedPrefix{Prefix: privatePrefix, Weight: 0.7},
		WeightedPrefix{Prefix: testNetPrefix, Weight: 0.3},
	)
	return p
}

// NewAddressPool builds a pool from weighted prefixes. Weights are
// normalized, so they need not sum to one.
func NewAddressPool(entries ...WeightedPrefix) (*AddressPool, error) {
	if len(entries) == 0 {
		return nil, errors.New("must specify at least one prefix")
	}

	var total float64
	for _, e := range entries {
		if !e.Prefix.IsValid() || !e.Prefix.Addr().Is4() {
			return nil, fmt.Errorf("prefix %v is not an IPv4 network", e.Prefix)
		}
		if bits := e.Prefix.Bits(); bits%8 != 0 || bits > 24 {
			return nil, fmt.Errorf("prefix %v: length must be /0, /8, /16 or /24", e.Prefix)
		}
		if e.Weight <= 0 {
			return nil, fmt.Errorf("prefix %v: weight must be positive", e.Prefix)
		}
		total += e.Weight
	}

	p := &AddressPool{}
	var acc float64
	for _, e := range entries {
		acc += e.Weight / total
		p.prefixes = append(p.prefixes, e.Prefix.Masked())
		p.cumulative = append(p.cumulative, acc)
	}
	p.cumulative[len(p.cumulative)-1] = 1
	return p, nil
}

// Addr returns a random host address
func (p *AddressPool) Addr(r *rand.Rand) netip.Addr {
	f := r.Float64()
	idx := len(p.prefixes) - 1
	for i, c := range p.cumulative {
		if f < c {
			idx = i
			break
		}
	}

	prefix := p.prefixes[idx]
	octets := prefix.Addr().As4()
	for i := prefix.Bits() / 8; i < 4; i++ {
		if i == 3 {
			octets[i] = byte(1 + r.IntN(254))
		} else {
			octets[i] = byte(r.IntN(256))
		}
	}
	return netip.AddrFrom4(octets)
}
