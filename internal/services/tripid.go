package services

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// TripIDGenerator builds the short human-legible correlation IDs used for
// trip requests and trips: the first three letters of each username
// uppercased, followed by a millisecond timestamp.
//
// The raw timestamp alone is not collision-safe under concurrent requests,
// so the numeric suffix is floored at one past the previously issued value.
// Sequential calls therefore always produce strictly increasing suffixes,
// even within the same millisecond.
type TripIDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewTripIDGenerator() *TripIDGenerator {
	return &TripIDGenerator{now: time.Now}
}

// ForRequest returns a trip-request ID such as "ALI1704103200000".
func (g *TripIDGenerator) ForRequest(userName string) string {
	return usernamePrefix(userName) + g.next()
}

// ForTrip returns a trip ID carrying both parties' prefixes, requester first.
func (g *TripIDGenerator) ForTrip(userName, companionName string) string {
	return usernamePrefix(userName) + usernamePrefix(companionName) + g.next()
}

func (g *TripIDGenerator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return strconv.FormatInt(n, 10)
}

// usernamePrefix uppercases the first three characters of a username.
// Shorter usernames contribute whatever they have; no padding.
func usernamePrefix(userName string) string {
	userName = strings.TrimSpace(userName)
	if len(userName) > 3 {
		userName = userName[:3]
	}
	return strings.ToUpper(userName)
}
