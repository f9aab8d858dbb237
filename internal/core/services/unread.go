package services

import (
	"maps"
	"sync"
)

// UnreadService tracks, per recipient, how many messages each sender has
// delivered since the recipient last opened that conversation.
type UnreadService struct {
	mu     sync.RWMutex
	counts map[string]map[string]int // recipient → sender → pending
}

func NewUnreadService() *UnreadService {
	return &UnreadService{counts: make(map[string]map[string]int)}
}

func (u *UnreadService) RecordDelivery(recipient, sender string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	bucket := u.counts[recipient]
	if bucket == nil {
		bucket = make(map[string]int)
		u.counts[recipient] = bucket
	}
	bucket[sender]++
}

func (u *UnreadService) Reset(recipient, sender string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if bucket := u.counts[recipient]; bucket != nil {
		bucket[sender] = 0
	}
}

// Snapshot returns a copy of the recipient's per-sender counts, never nil.
func (u *UnreadService) Snapshot(recipient string) map[string]int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if bucket := u.counts[recipient]; bucket != nil {
		return maps.Clone(bucket)
	}
	return map[string]int{}
}

// Discard drops the recipient's whole bucket, called on disconnect.
func (u *UnreadService) Discard(recipient string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.counts, recipient)
}
