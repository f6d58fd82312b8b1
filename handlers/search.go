package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripscout/models"
	"tripscout/services/search"
	"tripscout/services/session"
	"tripscout/utils"
)

// SearchHandler returns the handler for the single search endpoint. The
// request's action field selects the operation.
func SearchHandler(svc search.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body", err.Error())
			return
		}

		switch req.Action {
		case models.ActionSearch, "":
			handleSearch(c, svc, req)
		case models.ActionContinue:
			handleContinue(c, svc, req)
		case models.ActionAutocomplete:
			handleAutocomplete(c, svc, req)
		case models.ActionTrending:
			handleTrending(c, svc, req)
		default:
			utils.JSONError(c, http.StatusBadRequest, "UNKNOWN_ACTION", "unknown search action", string(req.Action))
		}
	}
}

func handleSearch(c *gin.Context, svc search.Service, req models.SearchRequest) {
	resp, err := svc.Search(c.Request.Context(), req)
	if err != nil {
		respondSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func handleContinue(c *gin.Context, svc search.Service, req models.SearchRequest) {
	resp, err := svc.Continue(c.Request.Context(), req)
	if err != nil {
		respondSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func handleAutocomplete(c *gin.Context, svc search.Service, req models.SearchRequest) {
	prefix := ""
	if req.Destination != nil {
		prefix = req.Destination.Query
	}
	if prefix == "" {
		utils.JSONError(c, http.StatusBadRequest, "INVALID_REQUEST", "autocomplete requires destination text", "")
		return
	}
	limit := 0
	if req.Options != nil {
		limit = req.Options.Limit
	}
	suggestions, err := svc.Autocomplete(c.Request.Context(), prefix, limit)
	if err != nil {
		respondSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SearchResponse{
		Status:      models.SessionCompleted,
		Suggestions: suggestions,
	})
}

func handleTrending(c *gin.Context, svc search.Service, req models.SearchRequest) {
	limit := 0
	if req.Options != nil {
		limit = req.Options.Limit
	}
	trending, err := svc.Trending(c.Request.Context(), limit)
	if err != nil {
		respondSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SearchResponse{
		Status:   models.SessionCompleted,
		Trending: trending,
	})
}

// respondSearchError maps service errors onto wire status codes.
func respondSearchError(c *gin.Context, err error) {
	var vErr search.ValidationError
	if errors.As(err, &vErr) {
		utils.JSONError(c, http.StatusBadRequest, "VALIDATION_FAILED", vErr.Message, vErr.Field)
		return
	}
	if errors.Is(err, session.ErrSessionNotFound) {
		utils.JSONError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found or expired", "")
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "SEARCH_FAILED", "search failed", err.Error())
}
