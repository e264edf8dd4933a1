package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// ProviderSession is the search provider's conversational session state,
// kept so follow-up questions thread into the same provider session.
type ProviderSession struct {
	Name      string
	QueryId   string
	UpdatedAt time.Time
}

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Provider sessions go stale quickly; 30 minutes matches the
	// provider's own session window.
	c := cache.New(30*time.Minute, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(sessionId string, session *ProviderSession) {
	session.UpdatedAt = time.Now()
	r.cache.Set(sessionId, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionId string) (*ProviderSession, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*ProviderSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
