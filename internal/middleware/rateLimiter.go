package middleware

import (
	"sync"
	"time"

	"github.com/akolanti/DocIngest/internal/config"
	"golang.org/x/time/rate"
)

var limiterInstance = NewIPRateLimiter(rate.Limit(config.RATE_LIMIT_PER_SECOND), config.BURST_RATE_LIMIT_PER_SECOND)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client ip. Buckets idle for longer than
// idleTTL are evicted and at most maxClients are tracked.
type IPRateLimiter struct {
	ips        map[string]*clientLimiter
	mu         sync.Mutex
	rateLimit  rate.Limit
	burstRate  int
	idleTTL    time.Duration
	maxClients int
	lastSweep  time.Time
	now        func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:        make(map[string]*clientLimiter),
		rateLimit:  r,
		burstRate:  b,
		idleTTL:    config.RateLimiterIdleTTL,
		maxClients: config.RateLimiterMaxClients,
		now:        time.Now,
	}
}

func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= i.idleTTL {
		i.evictIdle(now)
	}

	client, exists := i.ips[ip]
	if !exists {
		if len(i.ips) >= i.maxClients {
			i.evictIdle(now)
		}
		if len(i.ips) >= i.maxClients {
			i.evictOldest()
		}
		client = &clientLimiter{limiter: rate.NewLimiter(i.rateLimit, i.burstRate)}
		i.ips[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

func (i *IPRateLimiter) tracked() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ips)
}

func (i *IPRateLimiter) evictIdle(now time.Time) {
	i.lastSweep = now
	for ip, client := range i.ips {
		if now.Sub(client.lastSeen) > i.idleTTL {
			delete(i.ips, ip)
		}
	}
}

func (i *IPRateLimiter) evictOldest() {
	var oldestIp string
	var oldest time.Time
	for ip, client := range i.ips {
		if oldestIp == "" || client.lastSeen.Before(oldest) {
			oldestIp, oldest = ip, client.lastSeen
		}
	}
	delete(i.ips, oldestIp)
}
