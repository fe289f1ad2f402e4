package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every API route answers with.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Redirect tells the client where to navigate instead of rendering.
type Redirect struct {
	To     string `json:"to"`
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "success", Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: "created", Data: data})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{Code: code, Message: message})
}

func failWith(c *gin.Context, code int, message string, data any) {
	c.AbortWithStatusJSON(code, Response{Code: code, Message: message, Data: data})
}

func redirect(c *gin.Context, r Redirect) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: "redirect", Data: gin.H{"redirect": r}})
}

func badRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, message)
}

func notFound(c *gin.Context) {
	fail(c, http.StatusNotFound, "Resource not found")
}

func internalError(c *gin.Context) {
	fail(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
}
