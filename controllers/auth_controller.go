package controllers

import (
	"errors"
	"log"
	"net/http"

	"fitroom/middlewares"
	"fitroom/services"

	"github.com/gin-gonic/gin"
)

// Session tokens live for a week, matching the typical browser session.
const sessionMaxAge = 7 * 24 * 60 * 60

type AuthController struct {
	users services.UserStore
	auth  *services.AuthService
}

func NewAuthController(users services.UserStore, auth *services.AuthService) *AuthController {
	return &AuthController{users: users, auth: auth}
}

func (ac *AuthController) Register(c *gin.Context) {
	var request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	hash, err := ac.auth.HashPassword(request.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	_, err = ac.users.CreateUser(c.Request.Context(), request.Name, request.Email, hash)
	if errors.Is(err, services.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}
	if err != nil {
		log.Printf("Error registering user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := ac.users.GetUserByEmail(c.Request.Context(), request.Email)
	if errors.Is(err, services.ErrNotFound) || (err == nil && !ac.auth.CheckPassword(user.PasswordHash, request.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		log.Printf("Error logging in: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	token, err := ac.auth.IssueToken(user.ID)
	if err != nil {
		log.Printf("Error issuing session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.SetCookie(middlewares.SessionCookie, token, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
