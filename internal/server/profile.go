package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/storage"
	"lexdesk/pkg/types"
)

type profileResponse struct {
	*types.User
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

func (s *Service) profileResponse(r *http.Request, user *types.User) profileResponse {
	resp := profileResponse{User: user}

	if user.ProfileImageKey != nil {
		url, err := s.objects.SignedReadURL(r.Context(), *user.ProfileImageKey, storage.SignedURLTTL)
		if err != nil {
			s.logger.WithError(err).Warn("failed to sign profile image url")
		}
		resp.ProfileImageURL = url
	}

	return resp
}

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := s.principalFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := s.users.UserByID(ctx, principal.ID)
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, s.profileResponse(r, user))
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (s *Service) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := s.principalFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := s.users.UserByID(ctx, principal.ID)
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSONBody(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			s.respondError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		s.respondMappedError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, s.profileResponse(r, user))
}

// handleUploadProfileImage replaces the caller's profile image. The old
// object is deleted best effort after the new one is in place.
func (s *Service) handleUploadProfileImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, err := s.principalFromContext(ctx)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := s.users.UserByID(ctx, principal.ID)
	if err != nil {
		s.respondMappedError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, types.MaxProfileImageBytes+uploadBodySlack)

	if err := r.ParseMultipartForm(types.MaxProfileImageBytes + uploadBodySlack); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.respondError(w, http.StatusBadRequest, "image exceeds the 2MB limit")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing required field: image")
		return
	}
	defer file.Close()

	if header.Size > types.MaxProfileImageBytes {
		s.respondError(w, http.StatusBadRequest, "image exceeds the 2MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		s.respondError(w, http.StatusBadRequest, "only image uploads are accepted")
		return
	}

	body, err := io.ReadAll(file)
	if err != nil {
		s.logger.WithError(err).Error("failed to read uploaded image")
		s.internalServerError(w)
		return
	}

	newKey := storage.ProfileImageKey(user.ID, header.Filename, time.Now())

	if err := s.objects.Save(ctx, newKey, body, contentType); err != nil {
		s.logger.WithError(err).WithField("storage_key", newKey).Error("failed to write profile image to storage")
		s.respondError(w, http.StatusBadGateway, "file storage unavailable")
		return
	}

	oldKey := user.ProfileImageKey
	user.ProfileImageKey = &newKey

	if err := s.users.UpdateUser(ctx, user); err != nil {
		s.respondMappedError(w, err)
		return
	}

	if oldKey != nil && *oldKey != newKey {
		if err := s.objects.Delete(ctx, *oldKey); err != nil {
			s.logger.WithError(err).WithField("storage_key", *oldKey).Warn("failed to delete previous profile image")
		}
	}

	s.respondJSON(w, http.StatusOK, s.profileResponse(r, user))
}
