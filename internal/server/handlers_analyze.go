package server

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/abhisek/snipbox/internal/complexity"
	"github.com/abhisek/snipbox/internal/snippets"
	"github.com/abhisek/snipbox/internal/watch"
)

type analyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// liveReadLimit bounds one websocket frame: the longest accepted code with
// every character JSON-escaped, plus the envelope.
const liveReadLimit = int64(snippets.MaxCodeLength)*6 + 1024

var msgCodeTooLong = fmt.Sprintf("code cannot be more than %d characters", snippets.MaxCodeLength)

// liveResult is one websocket message. Result is null for blank or
// rejected code; Error says why code was rejected.
type liveResult struct {
	Seq    int             `json:"seq"`
	Result *complexityView `json:"result"`
	Error  string          `json:"error,omitempty"`
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "", errBadBody)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "code is required"})
		return
	}
	if utf8.RuneCountInString(req.Code) > snippets.MaxCodeLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgCodeTooLong})
		return
	}
	r := complexity.Estimate(req.Code, req.Language)
	s.deps.Metrics.ObserveEstimate(r)
	c.JSON(http.StatusOK, displayFor(c).complexity(r))
}

// analyzeLive upgrades to a websocket. Each incoming {code, language}
// message restarts the debounce timer; when input settles the latest code
// is analyzed and the result sent back tagged with the message sequence.
func (s *Server) analyzeLive(c *gin.Context) {
	d := displayFor(c)
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()
	ws.SetReadLimit(liveReadLimit)

	s.deps.Metrics.LiveSessions.Inc()
	defer s.deps.Metrics.LiveSessions.Dec()

	var writeMu sync.Mutex
	send := func(v any) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := ws.WriteJSON(v); err != nil {
			s.logger.Debug("websocket write failed", "error", err)
		}
	}

	debouncer := watch.NewDebouncer(s.opts.Debounce)
	defer debouncer.Stop()

	seq := 0
	for {
		var req analyzeRequest
		if err := ws.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read ended", "error", err)
			}
			return
		}
		seq++
		n := seq
		debouncer.Trigger(func() {
			if strings.TrimSpace(req.Code) == "" {
				send(liveResult{Seq: n})
				return
			}
			if utf8.RuneCountInString(req.Code) > snippets.MaxCodeLength {
				send(liveResult{Seq: n, Error: msgCodeTooLong})
				return
			}
			r := complexity.Estimate(req.Code, req.Language)
			s.deps.Metrics.ObserveEstimate(r)
			v := d.complexity(r)
			send(liveResult{Seq: n, Result: &v})
		})
	}
}
