// internal/httpapi/server.go
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/validation"
	"roommate-finder/internal/matching"
	"roommate-finder/internal/models"
)

const tracerName = "roommate-finder/internal/httpapi"

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
}

type ListingStore interface {
	ListActive(ctx context.Context) ([]models.Listing, error)
	ListActiveExcludingOwner(ctx context.Context, userID string) ([]models.Listing, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Listing, error)
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Search(ctx context.Context, f models.ListingSearch) ([]models.Listing, error)
	Create(ctx context.Context, l *models.Listing) error
	Update(ctx context.Context, l *models.Listing) error
	Delete(ctx context.Context, id string) error
}

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	Thread(ctx context.Context, a, b string) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, reader, other string) (int64, error)
	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
}

type SessionStore interface {
	Issue(ctx context.Context, userID string) (*models.Session, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// ProfileSource serves the profiles used for scoring, usually through the Redis cache.
type ProfileSource interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Invalidate(ctx context.Context, userID string)
}

// Notifier is told about every stored message. Failures never fail the request.
type Notifier interface {
	MessageSent(ctx context.Context, m *models.Message) error
}

// Indexer mirrors listing writes into the search index.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) error
	DeleteDocument(ctx context.Context, index, id string) error
}

// Check is a named readiness probe.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

type Options struct {
	Version        string
	CORSOrigins    []string
	RatePerSecond  float64
	RateBurst      int
	TrustedProxies []string
	BcryptCost     int
	ListingIndex   string
	RequestTimeout time.Duration
}

type Deps struct {
	Users    UserStore
	Listings ListingStore
	Messages MessageStore
	Sessions SessionStore
	Profiles ProfileSource
	Ranker   *matching.Ranker
	Notifier Notifier
	Indexer  Indexer
	Checks   []Check
	Gatherer prometheus.Gatherer
	Logger   logger.Logger
	Options  Options
}

type Server struct {
	deps    Deps
	schemas *validation.Validator
	proxies proxySet
	tracer  trace.Tracer
	logger  logger.Logger
}

// New builds the API handler. Missing optional dependencies fall back to
// no-ops: no notifier, no indexer, the default prometheus registry.
func New(deps Deps) (http.Handler, error) {
	schemas, err := requestSchemas()
	if err != nil {
		return nil, err
	}
	proxies, err := parseProxies(deps.Options.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if deps.Ranker == nil {
		deps.Ranker = matching.NewRanker(1)
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}

	s := &Server{
		deps:    deps,
		schemas: schemas,
		proxies: proxies,
		tracer:  otel.Tracer(tracerName),
		logger:  logger.Component(deps.Logger, "httpapi"),
	}
	return s.routes(), nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", s.requireAuth(s.handleMe))
	mux.Handle("PUT /api/auth/update-profile", s.requireAuth(s.handleUpdateProfile))
	mux.HandleFunc("GET /api/auth/user/{id}", s.handleUserProfile)
	mux.Handle("POST /api/auth/logout", s.requireAuth(s.handleLogout))

	mux.HandleFunc("GET /api/listings", s.handleListListings)
	mux.Handle("GET /api/listings/search", s.optionalAuth(s.handleSearchListings))
	mux.HandleFunc("GET /api/listings/{id}", s.handleGetListing)
	mux.Handle("POST /api/listings", s.requireAuth(s.handleCreateListing))
	mux.Handle("GET /api/listings/user/me", s.requireAuth(s.handleMyListings))
	mux.Handle("GET /api/listings/matches/me", s.requireAuth(s.handleMatches))
	mux.Handle("PUT /api/listings/{id}", s.requireAuth(s.handleUpdateListing))
	mux.Handle("DELETE /api/listings/{id}", s.requireAuth(s.handleDeleteListing))

	mux.Handle("POST /api/messages", s.requireAuth(s.handleSendMessage))
	mux.Handle("GET /api/messages/conversations", s.requireAuth(s.handleConversations))
	mux.Handle("GET /api/messages/unread-count", s.requireAuth(s.handleUnreadCount))
	mux.Handle("GET /api/messages/{userId}", s.requireAuth(s.handleThread))

	mux.HandleFunc("/", s.handleNotFound)

	opts := s.deps.Options
	return chain(capturePattern(mux),
		requestID,
		s.recoverer,
		s.accessLog,
		s.traced,
		instrumented,
		cors(opts.CORSOrigins),
		newRateLimiter(opts.RatePerSecond, opts.RateBurst, s.proxies.clientIP).middleware,
		timeout(opts.RequestTimeout),
	)
}
