package helper_util

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 0, 0, err
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// GetTimeRangeParams reads the from/to query params, defaulting to the
// last 24 hours.
func GetTimeRangeParams(c *gin.Context) (from time.Time, to time.Time, err error) {
	now := time.Now()
	from = now.Add(-24 * time.Hour)
	to = now

	if raw := c.Query("from"); raw != "" {
		from, err = ParseTime(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = ParseTime(raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
