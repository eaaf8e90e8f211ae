// internal/httpapi/fakes_test.go
package httpapi

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
)

type memoryUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	m.seq++
	u.ID = "u-" + strconv.Itoa(m.seq)
	u.CreatedAt = time.Now().UTC()
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) UpdateProfile(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

type memoryListings struct {
	mu       sync.Mutex
	seq      int
	listings []models.Listing
}

func (m *memoryListings) snapshot(keep func(models.Listing) bool) []models.Listing {
	out := make([]models.Listing, 0)
	for _, l := range m.listings {
		if keep(l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memoryListings) ListActive(_ context.Context) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(func(l models.Listing) bool { return l.IsActive }), nil
}

func (m *memoryListings) ListActiveExcludingOwner(_ context.Context, userID string) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(func(l models.Listing) bool { return l.IsActive && l.UserID != userID }), nil
}

func (m *memoryListings) ListByOwner(_ context.Context, userID string) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(func(l models.Listing) bool { return l.UserID == userID }), nil
}

func (m *memoryListings) GetByID(_ context.Context, id string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.listings {
		if l.ID == id {
			out := l
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryListings) Search(_ context.Context, f models.ListingSearch) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(func(l models.Listing) bool {
		if !l.IsActive || (f.ExcludeUserID != "" && l.UserID == f.ExcludeUserID) {
			return false
		}
		if f.City != "" && (l.Location == nil || !strings.EqualFold(l.Location.City, f.City)) {
			return false
		}
		if f.MaxRent != nil && l.RentAmount > *f.MaxRent {
			return false
		}
		return true
	}), nil
}

func (m *memoryListings) Create(_ context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	l.ID = "l-" + strconv.Itoa(m.seq)
	l.CreatedAt = time.Now().UTC().Add(time.Duration(m.seq) * time.Second)
	m.listings = append(m.listings, *l)
	return nil
}

func (m *memoryListings) Update(_ context.Context, l *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.listings {
		if m.listings[i].ID == l.ID {
			m.listings[i] = *l
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memoryListings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.listings {
		if m.listings[i].ID == id {
			m.listings = append(m.listings[:i], m.listings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memoryMessages struct {
	mu       sync.Mutex
	seq      int
	messages []models.Message
}

func (m *memoryMessages) Create(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	msg.ID = "m-" + strconv.Itoa(m.seq)
	msg.CreatedAt = time.Now().UTC().Add(time.Duration(m.seq) * time.Second)
	m.messages = append(m.messages, *msg)
	return nil
}

func between(msg models.Message, a, b string) bool {
	return (msg.SenderID == a && msg.RecipientID == b) || (msg.SenderID == b && msg.RecipientID == a)
}

func (m *memoryMessages) Thread(_ context.Context, a, b string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Message, 0)
	for _, msg := range m.messages {
		if between(msg, a, b) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memoryMessages) MarkThreadRead(_ context.Context, reader, other string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.messages {
		msg := &m.messages[i]
		if msg.SenderID == other && msg.RecipientID == reader && !msg.Read {
			msg.Read = true
			n++
		}
	}
	return n, nil
}

func (m *memoryMessages) Conversations(_ context.Context, userID string) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byPeer := make(map[string]*models.Conversation)
	order := make([]string, 0)
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		peer := ""
		switch userID {
		case msg.SenderID:
			peer = msg.RecipientID
		case msg.RecipientID:
			peer = msg.SenderID
		default:
			continue
		}
		c, ok := byPeer[peer]
		if !ok {
			c = &models.Conversation{User: models.PublicUser{ID: peer}, LastMessage: msg}
			byPeer[peer] = c
			order = append(order, peer)
		}
		if msg.RecipientID == userID && !msg.Read {
			c.UnreadCount++
		}
	}
	out := make([]models.Conversation, 0, len(order))
	for _, peer := range order {
		out = append(out, *byPeer[peer])
	}
	return out, nil
}

func (m *memoryMessages) UnreadCount(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.RecipientID == userID && !msg.Read {
			n++
		}
	}
	return n, nil
}

type recordingIndexer struct {
	mu      sync.Mutex
	indexed map[string]interface{}
	deleted []string
}

func newRecordingIndexer() *recordingIndexer {
	return &recordingIndexer{indexed: make(map[string]interface{})}
}

func (r *recordingIndexer) IndexDocument(_ context.Context, index, id string, doc interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed[index+"/"+id] = doc
	return nil
}

func (r *recordingIndexer) DeleteDocument(_ context.Context, index, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, index+"/"+id)
	return nil
}

type channelNotifier struct {
	sent chan *models.Message
}

func (c *channelNotifier) MessageSent(_ context.Context, m *models.Message) error {
	c.sent <- m
	return nil
}
