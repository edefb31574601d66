package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

// uint64Query returns the parsed value, whether the key was present, and
// whether it parsed.
func uint64Query(c *gin.Context, key string) (uint64, bool, bool) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return 0, false, false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, true, false
	}
	return id, true, true
}

func uint64QueryPtr(c *gin.Context, key string) *uint64 {
	if id, _, ok := uint64Query(c, key); ok {
		return &id
	}
	return nil
}

func descending(dir string) bool {
	return strings.EqualFold(strings.TrimSpace(dir), "desc")
}
