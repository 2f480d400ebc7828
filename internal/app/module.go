package app

import "github.com/gin-gonic/gin"

// Module defines the contract for a self-registering business module.
// Each module registers its API routes on the group it is mounted on; the
// group decides which guard applies.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}
