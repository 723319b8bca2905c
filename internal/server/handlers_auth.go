package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/snipbox/internal/auth"
)

func (s *Server) register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, "", errBadBody)
		return
	}
	u, token, err := s.deps.Auth.Register(c.Request.Context(), in)
	if err != nil {
		s.fail(c, "user", err)
		return
	}
	s.setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    newUserView(u),
		"token":   token,
	})
}

func (s *Server) login(c *gin.Context) {
	var in auth.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, "", errBadBody)
		return
	}
	u, token, err := s.deps.Auth.Login(c.Request.Context(), in)
	if err != nil {
		s.fail(c, "user", err)
		return
	}
	s.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    newUserView(u),
		"token":   token,
	})
}

func (s *Server) logout(c *gin.Context) {
	s.clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": newUserView(CurrentUser(c))})
}

func (s *Server) getUser(c *gin.Context) {
	u, err := s.deps.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, "user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newUserView(u)})
}

func (s *Server) setAuthCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.deps.Auth.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearAuthCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
