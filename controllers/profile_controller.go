package controllers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"fitroom/middlewares"
	"fitroom/models"
	"fitroom/services"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	users services.UserStore
}

func NewProfileController(users services.UserStore) *ProfileController {
	return &ProfileController{users: users}
}

func (pc *ProfileController) Get(c *gin.Context) {
	user, err := pc.users.GetUserByID(c.Request.Context(), middlewares.UserID(c))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching user profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":   user.Name,
		"email":  user.Email,
		"images": user.Images,
	})
}

// Update replaces the user's reference images with the retained existing
// data URLs plus the newly uploaded files, each encoded as a data URL. The
// combined count may not exceed models.MaxProfileImages.
func (pc *ProfileController) Update(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	existingImages := []string{}
	if raw := c.PostForm("existingImages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &existingImages); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "existingImages must be a JSON array"})
			return
		}
	}

	finalImages := existingImages
	for _, fileHeader := range form.File["newImages"] {
		file, err := fileHeader.Open()
		if err != nil {
			log.Printf("Error opening uploaded image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			log.Printf("Error reading uploaded image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
		finalImages = append(finalImages, dataURL)
	}

	if len(finalImages) > models.MaxProfileImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("You can upload a maximum of %d images.", models.MaxProfileImages)})
		return
	}

	user, err := pc.users.UpdateUserImages(c.Request.Context(), middlewares.UserID(c), finalImages)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Printf("Error updating user profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":   user.Name,
		"email":  user.Email,
		"images": user.Images,
	})
}
