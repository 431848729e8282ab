package stub

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/okian/painel/pkg/logger"
)

// Handler answers GET ?token=... like the spreadsheet web app.
type Handler struct {
	token   string
	mu      sync.Mutex
	gen     *Generator
	fixture []byte
	log     logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithGenerator sets the row generator used when there is no fixture.
func WithGenerator(g *Generator) Option {
	return func(h *Handler) {
		if g != nil {
			h.gen = g
		}
	}
}

// WithFixture serves body verbatim instead of generated rows. The body need
// not be JSON, which is how soft failures are reproduced.
func WithFixture(body []byte) Option {
	return func(h *Handler) {
		h.fixture = body
	}
}

// NewHandler creates a stub endpoint accepting token.
func NewHandler(token string, opts ...Option) (*Handler, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	h := &Handler{token: token, log: logger.Named("stub")}
	for _, opt := range opts {
		opt(h)
	}
	if h.gen == nil {
		h.gen = NewGenerator(1)
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	got := r.URL.Query().Get("token")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		h.log.Warn(r.Context(), "rejected request with a wrong token", logger.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	if h.fixture != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(h.fixture)
		return
	}

	h.mu.Lock()
	doc := h.gen.Document()
	h.mu.Unlock()
	h.log.Debug(r.Context(), "served generated sheet",
		logger.Int("rows", len(doc.Rows)),
		logger.String("revision", doc.Revision),
	)
	writeJSON(w, http.StatusOK, doc)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
