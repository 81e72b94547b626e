package handler

import (
	"context"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sangkips/optica-api/internal/application/service"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/request"
	"github.com/sangkips/optica-api/internal/presentation/http/dto/response"
	"github.com/sangkips/optica-api/pkg/apperror"
	"github.com/sangkips/optica-api/pkg/debounce"
)

// SearchHandler serves prescription suggestions, both as a plain lookup and
// as a type-ahead websocket
type SearchHandler struct {
	searchService *service.SearchService
	debounce      time.Duration
	upgrader      websocket.Upgrader
}

// NewSearchHandler creates a new search handler. An empty origin list or
// "*" accepts any websocket origin.
func NewSearchHandler(searchService *service.SearchService, debounceDelay time.Duration, allowedOrigins []string) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		debounce:      debounceDelay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 ||
					slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Search handles GET /suggestions?field=&q=
func (h *SearchHandler) Search(c *gin.Context) {
	var req request.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	field, ok := service.ParseSearchField(req.Field)
	if !ok {
		response.BadRequest(c, "Unknown search field: "+req.Field)
		return
	}

	suggestions, err := h.searchService.Search(c.Request.Context(), field, req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Suggestions retrieved successfully", suggestions)
}

// liveQuery is one keystroke sent over the live search socket
type liveQuery struct {
	Field string `json:"field"`
	Query string `json:"q"`
}

// liveResult answers the latest query only. Seq lets the client drop
// anything older than what it last sent.
type liveResult struct {
	Seq         uint64              `json:"seq"`
	Field       string              `json:"field"`
	Query       string              `json:"q"`
	Suggestions []record.Suggestion `json:"suggestions"`
	Error       string              `json:"error,omitempty"`
}

// liveWriter serialises writes to the socket and drops any that arrive
// after the connection is done.
type liveWriter struct {
	mu     sync.Mutex
	conn   interface{ WriteJSON(v any) error }
	closed bool
}

func (w *liveWriter) write(res liveResult) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	if err := w.conn.WriteJSON(res); err != nil {
		log.Printf("Live search write failed: %v", err)
	}
	return true
}

// close waits out a write in flight; nothing is written after it returns
func (w *liveWriter) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Live handles GET /suggestions/live. Each message restarts the debounce
// delay; when it fires the previous lookup is cancelled and only a result
// that is still the latest is written back.
func (h *SearchHandler) Live(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Live search upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var (
		seq       debounce.Sequence
		debouncer = debounce.New(h.debounce)
		out       = &liveWriter{conn: conn}
		cancelMu  sync.Mutex
		cancel    context.CancelFunc = func() {}
	)
	parent, stop := context.WithCancel(c.Request.Context())
	// runs before conn.Close; a callback already past Stop sees closed
	defer func() {
		debouncer.Stop()
		stop()
		out.close()
	}()

	for {
		var q liveQuery
		if err := conn.ReadJSON(&q); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Live search read failed: %v", err)
			}
			return
		}

		n := seq.Next()
		field, ok := service.ParseSearchField(q.Field)
		if !ok {
			out.write(liveResult{Seq: n, Field: q.Field, Query: q.Query, Error: "Unknown search field: " + q.Field})
			continue
		}

		debouncer.Do(func() {
			ctx, cancelLookup := context.WithCancel(parent)
			cancelMu.Lock()
			cancel()
			cancel = cancelLookup
			cancelMu.Unlock()
			defer cancelLookup()

			suggestions, err := h.searchService.Search(ctx, field, q.Query)
			if !seq.IsLatest(n) || ctx.Err() != nil || parent.Err() != nil {
				return
			}
			res := liveResult{Seq: n, Field: q.Field, Query: q.Query, Suggestions: suggestions}
			if err != nil {
				res.Error = apperror.GetAppError(err).Message
			}
			out.write(res)
		})
	}
}
