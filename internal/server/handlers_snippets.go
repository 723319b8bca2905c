package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/snipbox/internal/snippets"
	"github.com/abhisek/snipbox/internal/store"
)

func (s *Server) listSnippets(c *gin.Context) {
	q := store.ListQuery{
		Page:       queryInt(c, "page"),
		Limit:      queryInt(c, "limit"),
		Language:   c.Query("language"),
		AuthorID:   c.Query("author"),
		Tag:        c.Query("tag"),
		Search:     c.Query("search"),
		Complexity: c.Query("complexity"),
	}
	page, err := s.deps.Snippets.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, "snippet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snippets":   displayFor(c).snippets(page.Items),
		"pagination": page.Pagination,
	})
}

func (s *Server) createSnippet(c *gin.Context) {
	var in snippets.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, "", errBadBody)
		return
	}
	sn, err := s.deps.Snippets.Create(c.Request.Context(), CurrentUser(c), in)
	if err != nil {
		s.fail(c, "snippet", err)
		return
	}
	c.JSON(http.StatusCreated, displayFor(c).snippet(sn))
}

func (s *Server) getSnippet(c *gin.Context) {
	sn, err := s.deps.Snippets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, "snippet", err)
		return
	}
	c.JSON(http.StatusOK, displayFor(c).snippet(sn))
}

func (s *Server) updateSnippet(c *gin.Context) {
	var p snippets.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		s.fail(c, "", errBadBody)
		return
	}
	sn, err := s.deps.Snippets.Update(c.Request.Context(), CurrentUser(c), c.Param("id"), p)
	if err != nil {
		s.fail(c, "snippet", err)
		return
	}
	c.JSON(http.StatusOK, displayFor(c).snippet(sn))
}

func (s *Server) deleteSnippet(c *gin.Context) {
	if err := s.deps.Snippets.Delete(c.Request.Context(), CurrentUser(c), c.Param("id")); err != nil {
		s.fail(c, "snippet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "snippet deleted"})
}

func (s *Server) shareSnippet(c *gin.Context) {
	links, err := s.deps.Snippets.Share(c.Request.Context(), c.Param("id"), s.opts.BaseURL)
	if err != nil {
		s.fail(c, "snippet", err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (s *Server) listTags(c *gin.Context) {
	tags, err := s.deps.Snippets.Tags(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		s.fail(c, "tag", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (s *Server) health(c *gin.Context) {
	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(c.Request.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// queryInt parses a query parameter, returning 0 when absent or malformed.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
