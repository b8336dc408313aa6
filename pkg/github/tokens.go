package github

import (
	"math/rand"
	"sync"
)

// TokenPool holds the API tokens available to the transport and tracks
// which one is currently in use. Rotation happens when the API reports a
// rate limit; workers issue requests concurrently, so every access goes
// through the mutex.
type TokenPool struct {
	mu        sync.Mutex
	tokens    []string
	current   string
	rotations int
}

// NewTokenPool creates a pool from the given tokens. With one token it is
// pinned; with several the initial token is picked at random; with none
// requests go out unauthenticated.
func NewTokenPool(tokens []string) *TokenPool {
	p := &TokenPool{tokens: tokens}
	switch len(tokens) {
	case 0:
	case 1:
		p.current = tokens[0]
	default:
		p.current = tokens[rand.Intn(len(tokens))]
	}
	return p
}

// Current returns the token in use, or "" when the pool is empty.
func (p *TokenPool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Rotate switches to a pseudo-random token different from the current one
// and reports whether a switch happened. With zero or one tokens there is
// nothing to rotate to.
func (p *TokenPool) Rotate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tokens) < 2 {
		return false
	}

	others := make([]string, 0, len(p.tokens)-1)
	for _, t := range p.tokens {
		if t != p.current {
			others = append(others, t)
		}
	}
	if len(others) == 0 {
		return false
	}
	p.current = others[rand.Intn(len(others))]
	p.rotations++
	return true
}

// Size returns the number of tokens in the pool.
func (p *TokenPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokens)
}

// Rotations returns how many times the pool has rotated.
func (p *TokenPool) Rotations() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rotations
}
