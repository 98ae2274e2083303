package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the body of every 4xx and 5xx response.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Message is the body of a successful delete.
type Message struct {
	Message string `json:"message"`
}

func newErrorBody(httpCode int, msg string) ErrorBody {
	return ErrorBody{StatusCode: httpCode, Error: http.StatusText(httpCode), Message: msg}
}

// Success sends data as the JSON body with status 200.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Deleted sends {"message":"Success."}.
func Deleted(c *gin.Context) {
	c.JSON(http.StatusOK, Message{Message: MsgDeleted})
}

// HTTPError sends an error body with the given status.
func HTTPError(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, newErrorBody(httpCode, msg))
}

// Abort sends an error body and stops the handler chain; for middleware.
func Abort(c *gin.Context, httpCode int, msg string) {
	c.AbortWithStatusJSON(httpCode, newErrorBody(httpCode, msg))
}

// 用于 Gin ShouldBindJSON、ShouldBindQuery 等绑定参数失败时返回错误
func BadRequestError(c *gin.Context, msg string) {
	HTTPError(c, http.StatusBadRequest, msg)
}

func NotFound(c *gin.Context, msg string) {
	HTTPError(c, http.StatusNotFound, msg)
}

// Error reports a store or internal failure as 500 carrying err's message.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)
	HTTPError(c, http.StatusInternalServerError, err.Error())
}
