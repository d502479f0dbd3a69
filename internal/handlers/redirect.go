package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ForwardToTarget handles GET /:key. Active mappings 302 to their target and
// count the visit; anything else is a uniform 404, so an expired key looks
// exactly like one that never existed.
func ForwardToTarget(c *gin.Context) {
	key := c.Param("key")

	target, err := MappingSvc.Resolve(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}

	c.Redirect(http.StatusFound, target)
}
