// Package ratelimit limits requests per client IP.
package ratelimit // import "github.com/Xunop/book-manager/internal/http/ratelimit"

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Xunop/book-manager/internal/http/request"
	"github.com/Xunop/book-manager/internal/http/response"
	"github.com/Xunop/book-manager/internal/log"
)

const idleTimeout = 5 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	rate  rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*client
	done    chan struct{}
	once    sync.Once
}

// New allows rps requests per second with bursts of burst for every client
// IP. Idle clients are forgotten in the background until Stop is called.
func New(rps float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	l := &Limiter{
		rate:    rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*client),
		done:    make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(idleTimeout)
	defer ticker.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.forget(time.Now().Add(-idleTimeout))
		}
	}
}

func (l *Limiter) forget(before time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.clients {
		if c.lastSeen.Before(before) {
			delete(l.clients, ip)
		}
	}
}

func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.done) })
}

// Allow reports whether the client at ip may make a request now.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	l.mu.Unlock()

	return c.limiter.Allow()
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := request.ClientIP(r)
		if !l.Allow(ip) {
			log.Debug("Rate limit exceeded", zap.String("client_ip", ip), zap.String("path", r.URL.Path))
			response.TooManyRequests(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
