package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	repo      repository.UserRepositoryInterface
	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewUserHandler(repo repository.UserRepositoryInterface, jwtSecret string, jwtTTL time.Duration) *UserHandler {
	return &UserHandler{repo: repo, jwtSecret: []byte(jwtSecret), jwtTTL: jwtTTL}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Email = strings.ToLower(req.Email)

	existing, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err, "Failed to check email")
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err, "Failed to hash password")
		return
	}

	user := &model.User{
		Email:          req.Email,
		Name:           strings.TrimSpace(req.Name),
		HashedPassword: string(hash),
	}
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		respondError(c, err, "Failed to find user")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.respondWithToken(c, http.StatusOK, user)
}

// DeleteMe removes the authenticated account. It is refused while the user
// still owns boards.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrOwnerProtected) {
			log.WithField("user_id", userID).Info("refused to delete board owner")
		}
		respondError(c, err, "Failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (h *UserHandler) respondWithToken(c *gin.Context, status int, user *model.User) {
	token, err := auth.GenerateToken(h.jwtSecret, user.ID.String(), h.jwtTTL)
	if err != nil {
		respondError(c, err, "Failed to generate token")
		return
	}

	c.JSON(status, AuthResponse{Token: token, User: newUserResponse(*user)})
}
