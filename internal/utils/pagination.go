package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pupskillswap/skillswap-api/internal/constants"
)

// PageParams holds cursor pagination parameters extracted from a
// request.
type PageParams struct {
	Limit     int
	PageToken string
}

// PageResponse is the pagination metadata attached to list responses
type PageResponse struct {
	Count         int     `json:"count"`
	NextPageToken *string `json:"next_page_token"`
	HasMore       bool    `json:"has_more"`
}

// GetPageParams extracts and clamps pagination parameters from the
// request query.
func GetPageParams(c *gin.Context) PageParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PageParams{
		Limit:     limit,
		PageToken: c.Query("page_token"),
	}
}
