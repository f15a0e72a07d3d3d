package handler

import (
	"net/http"
	"strings"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BoardHandler struct {
	boardRepo *repository.BoardRepository
	userRepo  repository.UserRepositoryInterface
	access    boardAccess
}

func NewBoardHandler(boardRepo *repository.BoardRepository, userRepo repository.UserRepositoryInterface) *BoardHandler {
	return &BoardHandler{
		boardRepo: boardRepo,
		userRepo:  userRepo,
		access:    boardAccess{boards: boardRepo},
	}
}

type CreateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type TransferOwnershipRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// Create creates a new board owned by the authenticated user
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board := &model.Board{
		Name:    strings.TrimSpace(req.Name),
		OwnerID: ownerID,
	}
	if err := h.boardRepo.Create(c.Request.Context(), board); err != nil {
		respondError(c, err, "Failed to create board")
		return
	}

	c.JSON(http.StatusCreated, newBoardResponse(*board))
}

// GetAll lists the boards the user is a member of, owned or not. With
// ?owned=true only the boards the user owns are returned.
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var boards []model.Board
	var err error
	if c.Query("owned") == "true" {
		boards, err = h.boardRepo.GetOwned(c.Request.Context(), userID)
	} else {
		boards, err = h.boardRepo.GetForMember(c.Request.Context(), userID)
	}
	if err != nil {
		respondError(c, err, "Failed to retrieve boards")
		return
	}

	response := make([]BoardResponse, len(boards))
	for i, board := range boards {
		response[i] = newBoardResponse(board)
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns the board with its members, columns, tasks, projects and labels.
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	if !h.access.member(c, boardID, userID) {
		return
	}

	board, err := h.boardRepo.GetDetail(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve board")
		return
	}

	c.JSON(http.StatusOK, newBoardDetailResponse(*board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	board, ok := h.access.owner(c, boardID, userID)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board.Name = strings.TrimSpace(req.Name)
	if err := h.boardRepo.Update(c.Request.Context(), board); err != nil {
		respondError(c, err, "Failed to update board")
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(*board))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := h.access.owner(c, boardID, userID); !ok {
		return
	}

	if err := h.boardRepo.Delete(c.Request.Context(), boardID); err != nil {
		respondError(c, err, "Failed to delete board")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

func (h *BoardHandler) GetMembers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	if !h.access.member(c, boardID, userID) {
		return
	}

	members, err := h.boardRepo.GetMembers(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve members")
		return
	}

	response := make([]UserResponse, len(members))
	for i, m := range members {
		response[i] = newUserResponse(m)
	}
	c.JSON(http.StatusOK, response)
}

// AddMember invites a registered user by email. Only the owner can invite.
func (h *BoardHandler) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := h.access.owner(c, boardID, userID); !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		respondError(c, err, "Failed to find user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.boardRepo.AddMember(c.Request.Context(), boardID, user.ID); err != nil {
		respondError(c, err, "Failed to add member")
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(*user))
}

// RemoveMember drops a member. The owner may remove anyone but themself; any
// other member may only leave.
func (h *BoardHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "user_id", "user")
	if !ok {
		return
	}

	if memberID != userID {
		if _, ok := h.access.owner(c, boardID, userID); !ok {
			return
		}
	} else if !h.access.member(c, boardID, userID) {
		return
	}

	if err := h.boardRepo.RemoveMember(c.Request.Context(), boardID, memberID); err != nil {
		respondError(c, err, "Failed to remove member")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// TransferOwnership hands the board to another user, who becomes a member.
func (h *BoardHandler) TransferOwnership(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	boardID, ok := pathID(c, "id", "board")
	if !ok {
		return
	}
	if _, ok := h.access.owner(c, boardID, userID); !ok {
		return
	}

	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	newOwnerID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.boardRepo.TransferOwnership(c.Request.Context(), boardID, newOwnerID); err != nil {
		respondError(c, err, "Failed to transfer ownership")
		return
	}

	board, err := h.boardRepo.GetByID(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err, "Failed to retrieve board")
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(*board))
}
