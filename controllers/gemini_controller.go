package controllers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"fitroom/models"
	"fitroom/services"

	"github.com/gin-gonic/gin"
)

const describePrompt = "Describe the outfit and the scene in this image in detail in 500 words."

type GeminiController struct {
	generator services.Generator
}

func NewGeminiController(generator services.Generator) *GeminiController {
	return &GeminiController{generator: generator}
}

// Generate assembles the trial history plus the new turn into one
// generateContent request and returns the parsed assistant message. The
// caller persists the result via PUT /trials/:id; nothing is written here.
func (gc *GeminiController) Generate(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	prompt := c.PostForm("prompt")
	description := c.PostForm("description")

	history := []models.Message{}
	if raw := c.PostForm("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "history must be a JSON array of messages"})
			return
		}
	}

	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		fileHeaders = form.File["image"]
	}

	if strings.TrimSpace(prompt) == "" && len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	uploads := make([]services.ImageUpload, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		upload, err := readUpload(fileHeader)
		if err != nil {
			log.Printf("Error reading uploaded image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
			return
		}
		uploads = append(uploads, upload)
	}

	contents := services.BuildContents(history, prompt, description, uploads)

	resp, err := gc.generator.GenerateContent(c.Request.Context(), contents)
	if err != nil {
		log.Printf("Error in generate endpoint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, services.ParseReply(resp))
}

// Describe sends one image with a fixed descriptive prompt and returns the
// concatenated text of the reply.
func (gc *GeminiController) Describe(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	upload, err := readUpload(fileHeader)
	if err != nil {
		log.Printf("Error reading uploaded image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	contents := []services.Content{
		{
			Role: "user",
			Parts: []services.Part{
				{InlineData: &services.InlineData{
					MimeType: upload.MimeType,
					Data:     base64.StdEncoding.EncodeToString(upload.Data),
				}},
				{Text: describePrompt},
			},
		},
	}

	resp, err := gc.generator.GenerateContent(c.Request.Context(), contents)
	if err != nil {
		log.Printf("Error in describe endpoint: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": services.ParseReply(resp).Text})
}

func readUpload(fileHeader *multipart.FileHeader) (services.ImageUpload, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return services.ImageUpload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.ImageUpload{}, err
	}

	return services.ImageUpload{
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}
