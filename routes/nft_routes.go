// routes/nft_routes.go
package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mintora/mintora_backend/controllers"
	"github.com/mintora/mintora_backend/middleware"
	ws "github.com/mintora/mintora_backend/websocket"
)

// RegisterNFTRoutes sets up marketplace listing routes
func RegisterNFTRoutes(e *echo.Echo, db *mongo.Client, hub *ws.Hub) {
	nftController := controllers.NewNFTController(db, hub)

	nfts := e.Group("/api/nfts")
	nfts.GET("", nftController.ListNFTs)
	nfts.GET("/trending", nftController.Trending)
	nfts.GET("/:id", nftController.GetNFT)
	nfts.GET("/:id/share-qr", nftController.ShareQR)

	nfts.POST("", nftController.CreateNFT, middleware.JWTMiddleware())
	nfts.PATCH("/:id", nftController.UpdateNFT, middleware.JWTMiddleware())
	nfts.DELETE("/:id", nftController.DeleteNFT, middleware.JWTMiddleware())
	nfts.POST("/upload", nftController.UploadMedia, middleware.JWTMiddleware())
}
