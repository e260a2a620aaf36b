package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/honorwa/honor-wallet/models"
)

// SessionCache holds live sessions until logout or expiry.
type SessionCache struct {
	cache *gocache.Cache
}

func NewSessionCache(ttl, purgeInterval time.Duration) *SessionCache {
	return &SessionCache{cache: gocache.New(ttl, purgeInterval)}
}

func (s *SessionCache) Put(session models.Session) {
	s.cache.Set(session.ID, session, time.Until(session.ExpiresAt))
}

func (s *SessionCache) Get(id string) (models.Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return models.Session{}, false
	}
	return v.(models.Session), true
}

func (s *SessionCache) Delete(id string) {
	s.cache.Delete(id)
}

// ActiveUsers lists the distinct user ids holding an unexpired session.
func (s *SessionCache) ActiveUsers() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, item := range s.cache.Items() {
		session := item.Object.(models.Session)
		if !seen[session.UserID] {
			seen[session.UserID] = true
			ids = append(ids, session.UserID)
		}
	}
	return ids
}
