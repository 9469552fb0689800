// controllers/nft_controller.go
package controllers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mintora/mintora_backend/config"
	"github.com/mintora/mintora_backend/middleware"
	"github.com/mintora/mintora_backend/models"
	"github.com/mintora/mintora_backend/repositories"
	"github.com/mintora/mintora_backend/utils"
	ws "github.com/mintora/mintora_backend/websocket"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type NFTController struct {
	DB       *mongo.Client
	Hub      *ws.Hub
	profiles *repositories.ProfileRepository
	logger   *log.Logger
}

func NewNFTController(db *mongo.Client, hub *ws.Hub) *NFTController {
	return &NFTController{
		DB:       db,
		Hub:      hub,
		profiles: repositories.NewProfileRepository(db),
		logger:   log.New(os.Stdout, "[NFT] ", log.LstdFlags),
	}
}

func (nc *NFTController) collection() *mongo.Collection {
	return config.GetCollection(nc.DB, "nfts")
}

// ListNFTs returns listings newest first, optionally filtered by owner.
func (nc *NFTController) ListNFTs(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if owner := c.QueryParam("owner"); owner != "" {
		ownerID, err := primitive.ObjectIDFromHex(owner)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				OK:    false,
				Error: "Invalid owner ID",
			})
		}
		filter["ownerId"] = ownerID
	}

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	limit := defaultPageSize
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= maxPageSize {
		limit = l
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := nc.collection().Find(ctx, filter, opts)
	if err != nil {
		nc.logger.Printf("Error listing NFTs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to fetch listings",
		})
	}
	defer cursor.Close(ctx)

	nfts := []models.NFT{}
	if err := cursor.All(ctx, &nfts); err != nil {
		nc.logger.Printf("Error decoding NFTs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to fetch listings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true, Data: nfts})
}

// Trending returns the most recent listings capped at a small fixed
// count for the landing page carousel.
func (nc *NFTController) Trending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(8)

	cursor, err := nc.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		nc.logger.Printf("Error fetching trending NFTs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to fetch trending listings",
		})
	}
	defer cursor.Close(ctx)

	nfts := []models.NFT{}
	if err := cursor.All(ctx, &nfts); err != nil {
		nc.logger.Printf("Error decoding trending NFTs: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to fetch trending listings",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true, Data: nfts})
}

// GetNFT returns a single listing by ID.
func (nc *NFTController) GetNFT(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid listing ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var nft models.NFT
	if err := nc.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&nft); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "Listing not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true, Data: nft})
}

// CreateNFT creates a listing owned by the caller and announces it on
// the activity feed.
func (nc *NFTController) CreateNFT(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid user ID",
		})
	}

	var req models.CreateNFTRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid request format",
		})
	}

	name := utils.SanitizeInput(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Name is required",
		})
	}
	if req.MediaURL == "" {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Media URL is required",
		})
	}
	if !strings.HasPrefix(req.MediaType, "image/") && !strings.HasPrefix(req.MediaType, "video/") {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Media type must be an image or video",
		})
	}

	chain := utils.SanitizeInput(req.Chain)
	if chain == "" {
		chain = "ethereum"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ownerUsername := ""
	if profile, err := nc.profiles.FindByUserID(ctx, ownerID); err == nil {
		ownerUsername = profile.Username
	}

	now := time.Now()
	nft := models.NFT{
		Name:          name,
		Description:   utils.SanitizeInput(req.Description),
		MediaURL:      req.MediaURL,
		MediaType:     req.MediaType,
		PriceEth:      req.PriceEth,
		Chain:         chain,
		OwnerID:       ownerID,
		OwnerUsername: ownerUsername,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := nc.collection().InsertOne(ctx, nft)
	if err != nil {
		nc.logger.Printf("Error creating NFT: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to create listing",
		})
	}
	nft.ID = result.InsertedID.(primitive.ObjectID)

	nc.Hub.Broadcast(ws.Event{
		Type:    ws.EventListingCreated,
		Message: fmt.Sprintf("%s listed %s", ownerUsername, nft.Name),
		Data:    nft,
	})

	return c.JSON(http.StatusCreated, models.Response{OK: true, Data: nft})
}

// UpdateNFT patches a listing. Only the owner may modify it.
func (nc *NFTController) UpdateNFT(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid user ID",
		})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid listing ID",
		})
	}

	var req models.UpdateNFTRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid request format",
		})
	}

	update := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		name := utils.SanitizeInput(*req.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, models.Response{
				OK:    false,
				Error: "Name cannot be empty",
			})
		}
		update["name"] = name
	}
	if req.Description != nil {
		update["description"] = utils.SanitizeInput(*req.Description)
	}
	if req.PriceEth != nil {
		update["priceEth"] = *req.PriceEth
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var nft models.NFT
	err = nc.collection().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "ownerId": ownerID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&nft)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "Listing not found or not owned by you",
		})
	}
	if err != nil {
		nc.logger.Printf("Error updating NFT: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to update listing",
		})
	}

	return c.JSON(http.StatusOK, models.Response{OK: true, Data: nft})
}

// DeleteNFT removes a listing. Only the owner may delete it.
func (nc *NFTController) DeleteNFT(c echo.Context) error {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid user ID",
		})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid listing ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var nft models.NFT
	err = nc.collection().FindOneAndDelete(ctx, bson.M{"_id": id, "ownerId": ownerID}).Decode(&nft)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "Listing not found or not owned by you",
		})
	}
	if err != nil {
		nc.logger.Printf("Error deleting NFT: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to delete listing",
		})
	}

	nc.Hub.Broadcast(ws.Event{
		Type:    ws.EventListingDeleted,
		Message: fmt.Sprintf("%s was delisted", nft.Name),
		Data:    map[string]string{"id": nft.ID.Hex()},
	})

	return c.JSON(http.StatusOK, models.Response{OK: true})
}

// UploadMedia accepts a multipart media file for a listing, stores it,
// and generates a thumbnail (or video poster frame).
func (nc *NFTController) UploadMedia(c echo.Context) error {
	if _, err := middleware.ExtractUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			OK:    false,
			Error: "Unauthorized",
		})
	}

	file, err := c.FormFile("media")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Media file is required",
		})
	}

	mediaType := c.FormValue("mediaType")
	if mediaType != "image" && mediaType != "video" {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Media type must be 'image' or 'video'",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Failed to read file",
		})
	}
	defer src.Close()

	fileData, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Failed to read file",
		})
	}

	mediaURL, err := utils.SaveListingMedia(fileData, file.Filename, mediaType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: err.Error(),
		})
	}

	var thumbnailURL string
	if mediaType == "video" {
		thumbnailURL, err = utils.GenerateVideoThumbnail(mediaURL)
	} else {
		thumbnailURL, err = utils.GenerateImageThumbnail(mediaURL)
	}
	if err != nil {
		// Listing can still exist without a thumbnail
		nc.logger.Printf("Error generating thumbnail for %s: %v", mediaURL, err)
		thumbnailURL = ""
	}

	return c.JSON(http.StatusOK, models.Response{
		OK: true,
		Data: map[string]string{
			"mediaUrl":     mediaURL,
			"thumbnailUrl": thumbnailURL,
		},
	})
}

// ShareQR renders a QR code pointing at the listing's public page.
func (nc *NFTController) ShareQR(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			OK:    false,
			Error: "Invalid listing ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var nft models.NFT
	if err := nc.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&nft); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			OK:    false,
			Error: "Listing not found",
		})
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	shareURL := fmt.Sprintf("%s/nft/%s", frontendURL, nft.ID.Hex())

	png, err := utils.GenerateShareQR(shareURL)
	if err != nil {
		nc.logger.Printf("Error generating QR code: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			OK:    false,
			Error: "Failed to generate QR code",
		})
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
