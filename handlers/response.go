package handlers

import "github.com/gin-gonic/gin"

// Envelope is the shared response shape for every endpoint: the HTTP status
// is repeated in the body alongside a human-readable message.
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes the envelope with the given status. Pass nil data to omit
// the data field.
func Respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Status: status, Message: message, Data: data})
}
