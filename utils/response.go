package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errCode,
			"message": message,
		},
	})
}

// JSONValidationError is JSONError plus the offending fields.
func JSONValidationError(c *gin.Context, code int, message string, fields map[string][]string) {
	c.JSON(code, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "error.validation",
			"message": message,
			"fields":  fields,
		},
	})
}
