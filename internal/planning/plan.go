package planning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// TripRequest is the shape the web app sends. Bounds match what the
// planning engine will accept.
type TripRequest struct {
	Destination string   `json:"destination" binding:"required"`
	Budget      int      `json:"budget" binding:"required,min=50"`
	Duration    int      `json:"duration" binding:"required,min=1,max=14"`
	Interests   []string `json:"interests" binding:"required,min=1"`
}

// TripPlan is the engine's answer, passed through to the client. Days are
// kept as raw JSON; the gateway has no reason to interpret them.
type TripPlan struct {
	Destination string          `json:"destination"`
	TotalCost   int             `json:"total_cost"`
	Days        json.RawMessage `json:"days"`
}

// CacheKey is stable across field order and interest order, so identical
// trips hit the same cache entry.
func (r TripRequest) CacheKey() string {
	interests := append([]string(nil), r.Interests...)

	sort.Strings(interests)

	var b strings.Builder

	b.WriteString(strings.ToLower(strings.TrimSpace(r.Destination)))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(r.Budget))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(r.Duration))
	b.WriteByte('|')
	b.WriteString(strings.Join(interests, ","))

	sum := sha256.Sum256([]byte(b.String()))

	return "plan:" + hex.EncodeToString(sum[:])
}
