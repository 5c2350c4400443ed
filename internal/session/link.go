// Package session mints shareable join links for confirmed bookings.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Link is an opaque session token and the URL that carries it. Immutable once
// minted; not persisted beyond the process lifetime.
type Link struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// Minter composes join links against a fixed base URL.
type Minter struct {
	baseURL string
	now     func() time.Time
}

// NewMinter creates a minter for the given public base URL. Any query string
// on the base is stripped, mirroring how the widget derives its own address.
func NewMinter(baseURL string) *Minter {
	if i := strings.IndexByte(baseURL, '?'); i >= 0 {
		baseURL = baseURL[:i]
	}
	return &Minter{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		now:     time.Now,
	}
}

// WithClock overrides the timestamp source (tests).
func (m *Minter) WithClock(now func() time.Time) *Minter {
	m.now = now
	return m
}

// Generate mints a new link. The token combines a base36 timestamp with random
// hex, unique enough to avoid accidental collision within a demo session. It
// is not cryptographically meaningful and carries no authorization.
func (m *Minter) Generate() Link {
	token := strconv.FormatInt(m.now().UnixMilli(), 36) + "-" + randomSuffix()
	return Link{
		Token: token,
		URL:   fmt.Sprintf("%s/?session=%s", m.baseURL, token),
	}
}

func randomSuffix() string {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()[:10]
	}
	return hex.EncodeToString(b)
}
