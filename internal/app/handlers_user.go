package app

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thelocalstore/store-api/internal/imaging"
	"github.com/thelocalstore/store-api/internal/middleware"
	"github.com/thelocalstore/store-api/internal/storage"
)

func (a *App) HandleMe(c *gin.Context) {
	respondData(c, http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

// updateMeRequest whitelists the self-editable profile fields.
type updateMeRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
	Password    *string `json:"password"`
}

func (a *App) HandleUpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == nil && req.Email == nil && req.PhoneNumber == nil && req.Password == nil {
		respondFail(c, http.StatusBadRequest, "nothing to update")
		return
	}

	upd := storage.UserUpdate{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if req.Password != nil {
		hash, err := a.auth.HashPassword(*req.Password)
		if err != nil {
			a.respondError(c, err)
			return
		}
		upd.PasswordHash = &hash
	}

	user := middleware.CurrentUser(c)
	updated, err := a.store.UpdateUser(c.Request.Context(), user.ID, upd)
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": updated})
}

func (a *App) HandleGetAvatar(c *gin.Context) {
	user := middleware.CurrentUser(c)

	avatar, err := a.store.GetUserAvatar(c.Request.Context(), user.ID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	if len(avatar) == 0 {
		respondFail(c, http.StatusNotFound, "no avatar set")
		return
	}

	c.Data(http.StatusOK, "image/jpeg", avatar)
}

func (a *App) HandleUploadAvatar(c *gin.Context) {
	raw, err := readUpload(c)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	resized, err := a.resizer.Resize(c.Request.Context(), raw, imaging.AvatarWidth)
	if err != nil {
		a.respondError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	if err := a.store.SetUserAvatar(c.Request.Context(), user.ID, resized); err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"avatarSet": true})
}

func (a *App) HandleDeleteAvatar(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := a.store.SetUserAvatar(c.Request.Context(), user.ID, nil); err != nil {
		a.respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"avatarDeleted": true})
}

var errUnsupportedImage = errors.New("only jpg, jpeg and png uploads are accepted")

// readUpload pulls the image bytes from a multipart "image" field, or
// from the raw body when the client posts the bytes directly.
func readUpload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		switch strings.ToLower(path.Ext(file.Filename)) {
		case ".jpg", ".jpeg", ".png":
		default:
			return nil, errUnsupportedImage
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, imaging.MaxUploadBytes))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, imaging.MaxUploadBytes))
}
