package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
)

// MakeEventsHandler streams processed-transaction events over SSE.
func MakeEventsHandler(container HandlerDependencies) gin.HandlerFunc {
	broker := container.GetEventBroker()

	return func(c *gin.Context) {
		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		c.Stream(func(w io.Writer) bool {
			if evt, ok := <-ch; ok {
				c.SSEvent("transaction", evt)
				return true
			}
			return false
		})
	}
}
