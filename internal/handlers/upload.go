package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jFurkan/katil-oyunu-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves the multipart photo endpoints: profile photos for
// players and character photos for the admin.
type UploadHandler struct {
	users     *services.UserService
	uploadDir string
}

func NewUploadHandler(users *services.UserService, uploadDir string) *UploadHandler {
	return &UploadHandler{users: users, uploadDir: uploadDir}
}

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

func (h *UploadHandler) saveFile(c *gin.Context) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unsupported file format"})
		return "", false
	}
	if file.Size > 10<<20 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file too large (max 10MB)"})
		return "", false
	}

	filename := fmt.Sprintf("%d_%d%s", time.Now().UnixNano(), rand.Intn(100000), ext)
	dst := filepath.Join(h.uploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to save file"})
		return "", false
	}

	return "/uploads/" + filename, true
}

// UploadProfilePhoto stores a photo and binds it to the user in the form.
func (h *UploadHandler) UploadProfilePhoto(c *gin.Context) {
	userID, err := parseUintField(c.PostForm("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		return
	}

	url, ok := h.saveFile(c)
	if !ok {
		return
	}

	user, err := h.users.SetPhoto(userID, url)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url, "user": user})
}

// UploadAdminPhoto stores a photo for later use on a character. Admin
// JWT-guarded by middleware.
func (h *UploadHandler) UploadAdminPhoto(c *gin.Context) {
	url, ok := h.saveFile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// DeletePhoto removes an uploaded file by its public URL. Admin only.
func (h *UploadHandler) DeletePhoto(c *gin.Context) {
	url := c.Query("url")
	if !strings.HasPrefix(url, "/uploads/") || strings.Contains(url, "..") {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid url"})
		return
	}

	path := filepath.Join(h.uploadDir, filepath.Base(url))
	if err := os.Remove(path); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "file not found"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "file deleted"})
}

func parseUintField(s string) (uint, error) {
	var v uint64
	_, err := fmt.Sscanf(s, "%d", &v)
	return uint(v), err
}
