package handlers

import (
	"net/http"
	"strconv"

	"ledger-api/internal/domain/models"
	"ledger-api/internal/pkg/errors"
	"ledger-api/internal/pkg/logging"

	"github.com/gin-gonic/gin"
)

// MakeListAccountsHandler handles GET /accounts.
func MakeListAccountsHandler(container HandlerDependencies) gin.HandlerFunc {
	eng := container.GetEngine()

	return func(c *gin.Context) {
		snapshots := make([]models.AccountSnapshot, 0, eng.AccountCount())
		for snap := range eng.Accounts() {
			snapshots = append(snapshots, snap)
		}
		c.JSON(http.StatusOK, snapshots)
	}
}

// MakeGetAccountHandler handles GET /accounts/:id.
func MakeGetAccountHandler(container HandlerDependencies) gin.HandlerFunc {
	eng := container.GetEngine()

	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 16)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client ID format"})
			return
		}

		snapshot, ok := eng.GetAccount(models.ClientID(id))
		if !ok {
			apiErr := errors.ErrTransactionNotFound
			logging.Debug("Account not found", map[string]interface{}{
				"client": id,
			})
			c.JSON(apiErr.Status, gin.H{"error": "Account not found"})
			return
		}

		c.JSON(http.StatusOK, snapshot)
	}
}
