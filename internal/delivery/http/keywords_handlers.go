package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConnectSearchConsole hands the client the consent-screen URL for
// connecting Google Search Console.
func (h *Handler) ConnectSearchConsole(c *gin.Context) {
	url, err := h.keywords.ConnectURL(currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": url})
}

// SearchConsoleCallback finishes the connection flow. It is hit by
// Google's redirect, so it is not behind the auth middleware; the cached
// state ties the request back to the user.
func (h *Handler) SearchConsoleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing state or code"})
		return
	}

	conn, err := h.keywords.ConnectCallback(c.Request.Context(), state, code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "search console connected",
		"properties": conn.Properties,
	})
}

// SearchConsoleStatus reports the user's connection and its properties.
func (h *Handler) SearchConsoleStatus(c *gin.Context) {
	status, err := h.keywords.Status(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// DisconnectSearchConsole removes the user's connection.
func (h *Handler) DisconnectSearchConsole(c *gin.Context) {
	if err := h.keywords.Disconnect(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "search console disconnected"})
}

// RunKeywords looks up the keywords a URL ranks for.
func (h *Handler) RunKeywords(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := h.keywords.Run(c.Request.Context(), currentUser(c).ID, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, analysis)
}

// KeywordsDetail returns one stored lookup.
func (h *Handler) KeywordsDetail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	analysis, err := h.keywords.Detail(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// ListKeywords pages through the lookup history.
func (h *Handler) ListKeywords(c *gin.Context) {
	opts := listOptions(c)
	analyses, total, err := h.keywords.List(c.Request.Context(), currentUser(c).ID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, analyses, total, opts)
}

// DeleteKeywords removes one stored lookup.
func (h *Handler) DeleteKeywords(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.keywords.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}
