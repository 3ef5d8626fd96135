package response

import "github.com/gin-gonic/gin"

// ErrorBody is the single error envelope every endpoint returns.
type ErrorBody struct {
	Error string `json:"error"`
}

func Error(status int, msg string) ErrorBody {
	return ErrorBody{Error: Msg(status, msg)}
}

// Abort stops the chain and writes the error envelope with status.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(status, msg))
}

// Message is the success shape for endpoints that only report an outcome.
type Message struct {
	Message string `json:"message"`
}
