// Package sandbox is an in-memory implementation of the inventory REST
// backend. It backs the integration tests and the `stockroom sandbox`
// command. Data lives for the lifetime of the process.
package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/marshallshelly/stockroom/pkg/inventory"
	"golang.org/x/sync/errgroup"
)

type user struct {
	id       int64
	username string
	email    string
	password string
}

type product struct {
	inventory.Product
	owner int64
}

type order struct {
	inventory.Order
	owner int64
}

type category struct {
	inventory.Category
	owner int64
}

// stockLog records one change of on-hand stock.
type stockLog struct {
	owner   int64
	product int64
	change  int
	at      time.Time
}

// Server holds the sandbox state.
type Server struct {
	logger *slog.Logger
	now    func() time.Time
	tokens func() string

	mu         sync.Mutex
	seq        int64
	users      map[string]*user
	sessions   map[string]int64
	categories map[int64]*category
	products   map[int64]*product
	orders     map[int64]*order
	logs       []stockLog
}

// New creates an empty sandbox. A nil logger uses slog.Default.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:     logger,
		now:        time.Now,
		tokens:     newToken,
		users:      map[string]*user{},
		sessions:   map[string]int64{},
		categories: map[int64]*category{},
		products:   map[int64]*product{},
		orders:     map[int64]*order{},
	}
}

// Handler returns the router serving the API under /api.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	// /products/1/ and /products/1 route the same way
	router.Use(chimiddleware.StripSlashes)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.logRequests)

	router.Mount("/api", s.apiRouter())
	return router
}

func (s *Server) apiRouter() chi.Router {
	r := chi.NewRouter()

	r.Post("/register", s.register)
	r.Post("/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/categories", s.listCategories)
		r.Post("/categories", s.createCategory)
		r.Get("/categories/{id}", s.getCategory)
		r.Delete("/categories/{id}", s.deleteCategory)

		r.Get("/products", s.listProducts)
		r.Post("/products", s.createProduct)
		r.Get("/products/{id}", s.getProduct)
		r.Put("/products/{id}", s.updateProduct)
		r.Delete("/products/{id}", s.deleteProduct)

		r.Get("/orders", s.listOrders)
		r.Post("/orders", s.createOrder)
		r.Get("/orders/{id}", s.getOrder)
		r.Put("/orders/{id}", s.updateOrder)
		r.Patch("/orders/{id}", s.patchOrder)
		r.Delete("/orders/{id}", s.deleteOrder)

		r.Get("/dashboard/stats", s.dashboardStats)
		r.Get("/dashboard/stock-chart", s.stockChart)
	})

	return r
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("sandbox listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start sandbox: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("sandbox failed to shut down: %w", err)
		}
		s.logger.Info("sandbox stopped")
		return nil
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("sandbox request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get("X-Request-ID"),
			"duration", time.Since(start),
		)
	})
}

type ctxKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}

		s.mu.Lock()
		uid, found := s.sessions[token]
		s.mu.Unlock()
		if !found {
			writeDetail(w, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, uid)))
	})
}

func owner(r *http.Request) int64 {
	uid, _ := r.Context().Value(ctxKey{}).(int64)
	return uid
}

// nextID must be called with s.mu held.
func (s *Server) nextID() int64 {
	s.seq++
	return s.seq
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fieldErrors accumulates per-field validation messages.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) write(w http.ResponseWriter) bool {
	if len(f) == 0 {
		return false
	}
	writeJSON(w, http.StatusBadRequest, f)
	return true
}

func notFound(w http.ResponseWriter) {
	writeDetail(w, http.StatusNotFound, "Not found.")
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}
