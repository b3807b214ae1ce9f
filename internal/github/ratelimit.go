package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimit follows the GitHub API rate limit reported in response headers
// and holds requests back once the window is spent or the server asked for a
// pause with Retry-After.
type RateLimit struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	cooldown  time.Time
	trialSent bool
	notify    chan struct{}
	now       func() time.Time
}

// NewRateLimit starts optimistic; the first response replaces the guess.
func NewRateLimit() *RateLimit {
	return &RateLimit{
		remaining: 60,
		reset:     time.Now().Add(time.Hour),
		notify:    make(chan struct{}),
		now:       time.Now,
	}
}

func (l *RateLimit) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining
}

// Wait blocks until one request may be sent or ctx is done.
func (l *RateLimit) Wait(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("rate limit: nil context")
	}
	for {
		l.mu.Lock()
		now := l.now()
		ch := l.notify

		var until time.Time
		switch {
		case now.Before(l.cooldown):
			until = l.cooldown
		case l.remaining > 0:
			l.remaining--
			l.mu.Unlock()
			return nil
		case !now.Before(l.reset):
			// The window has reset but no response has confirmed it yet: let
			// one request through to find out, the rest wait for it.
			if !l.trialSent {
				l.trialSent = true
				l.mu.Unlock()
				return nil
			}
		default:
			until = l.reset
		}
		l.mu.Unlock()

		if err := sleep(ctx, until.Sub(now), until.IsZero(), ch); err != nil {
			return err
		}
	}
}

// sleep returns after d, when ch is closed, or with ctx's error. With
// forever set only ch or ctx end it.
func sleep(ctx context.Context, d time.Duration, forever bool, ch <-chan struct{}) error {
	if forever {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			return nil
		}
	}
	timer := time.NewTimer(max(d, 0))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
	case <-timer.C:
	}
	return nil
}

// Observe updates the limit from the rate limit headers of resp. Headers that
// do not parse are ignored.
func (l *RateLimit) Observe(resp *http.Response) {
	if l == nil || resp == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	changed := false
	if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
		if until := l.now().Add(time.Duration(s) * time.Second); until.After(l.cooldown) {
			l.cooldown = until
			changed = true
		}
	}
	if n, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil && n >= 0 && n != l.remaining {
		l.remaining = n
		changed = true
	}
	if s, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil && s > 0 {
		if reset := time.Unix(s, 0); !reset.Equal(l.reset) {
			l.reset = reset
			l.trialSent = false
			changed = true
		}
	}

	if changed {
		close(l.notify)
		l.notify = make(chan struct{})
	}
}

type rateLimitRoundTripper struct {
	base  http.RoundTripper
	limit *RateLimit
}

func (t *rateLimitRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limit.Wait(req.Context()); err != nil {
		return nil, err
	}
	resp, err := t.base.RoundTrip(req)
	t.limit.Observe(resp)
	return resp, err
}
