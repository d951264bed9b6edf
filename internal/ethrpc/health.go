package ethrpc

import (
	"time"

	"github.com/you/eth-multirpc/internal/pkg"
	"github.com/you/eth-multirpc/internal/provider"
)

// newHealthRegistry builds one BaseDataSource per configured provider so
// /api/health can report per-provider status without the core engine (which
// stays pure and I/O-free) knowing anything about health at all — dispatch
// records outcomes as a side effect of real calls, the same way beacon and
// relay already do for their single endpoints.
func newHealthRegistry(providers []providerEndpoint) map[provider.ID]*pkg.BaseDataSource {
	reg := make(map[provider.ID]*pkg.BaseDataSource, len(providers))
	for _, p := range providers {
		reg[p.id] = pkg.NewBaseDataSource(p.id.String(), "ethrpc_"+p.id.String(), 30*time.Second)
	}
	return reg
}

// recordHealth updates the per-provider BaseDataSource after one dispatched
// call. A nil err is success; anything else (transport, JSON-RPC, or decode
// failure) marks the provider unhealthy until its next success. parallelCall
// invokes this concurrently across providers (never for the same provider
// twice at once within one query, but distinct queries can overlap), so
// writes to one provider's BaseDataSource are serialized through healthMu.
func (c *Client) recordHealth(p provider.ID, err error) {
	ds, ok := c.health[p]
	if !ok {
		return
	}
	c.healthMu.Lock()
	defer c.healthMu.Unlock()
	if err != nil {
		ds.SetError(err)
		return
	}
	ds.SetSuccess()
}

// Health reports the last-known health of every configured provider, in
// provider order, independent of any in-flight query.
func (c *Client) Health() []pkg.HealthStatus {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()
	statuses := make([]pkg.HealthStatus, len(c.providers))
	for i, p := range c.providers {
		statuses[i] = pkg.StatusFromSource(c.health[p.id])
	}
	return statuses
}
