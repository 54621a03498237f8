package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"lexdesk/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	advocate := env.seedAdvocate(t, "adv-1")
	cookie := env.sessionCookie(t, advocate)

	rec := env.do(t, http.MethodPut, "/api/profile", map[string]string{
		"name":  "Priya R.",
		"phone": "+91-98400-11111",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[profileResponse](t, rec)
	assert.Equal(t, "Priya R.", resp.Name)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "+91-98400-11111", *resp.Phone)

	t.Run("EmptyNameRejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/profile", map[string]string{"name": " "}, cookie)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUploadProfileImage(t *testing.T) {
	env := newTestEnv(t)
	advocate := env.seedAdvocate(t, "adv-1")
	cookie := env.sessionCookie(t, advocate)

	postImage := func(t *testing.T, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodPost, "/api/profile/image", body)
		req.Header.Set("Content-Type", contentType)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		env.service.server.Handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("NonImageRejected", func(t *testing.T) {
		body, contentType := multipartImage(t, "resume.pdf", "application/pdf", []byte("pdf"))
		rec := postImage(t, body, contentType)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("OversizedImageRejected", func(t *testing.T) {
		big := bytes.Repeat([]byte("x"), types.MaxProfileImageBytes+256*1024)
		body, contentType := multipartImage(t, "big.png", "image/png", big)
		rec := postImage(t, body, contentType)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, env.objects.saved)
	})

	t.Run("UploadAndReplace", func(t *testing.T) {
		body, contentType := multipartImage(t, "me.png", "image/png", []byte("png-1"))
		rec := postImage(t, body, contentType)
		require.Equal(t, http.StatusOK, rec.Code)

		first := decodeBody[profileResponse](t, rec)
		assert.NotEmpty(t, first.ProfileImageURL)

		stored := env.store.users["adv-1"]
		require.NotNil(t, stored.ProfileImageKey)
		firstKey := *stored.ProfileImageKey
		assert.True(t, strings.HasPrefix(firstKey, "profiles/adv-1/"))

		// A second upload replaces the stored key and deletes the old
		// object.
		body, contentType = multipartImage(t, "me2.png", "image/png", []byte("png-2"))
		rec = postImage(t, body, contentType)
		require.Equal(t, http.StatusOK, rec.Code)

		stored = env.store.users["adv-1"]
		require.NotNil(t, stored.ProfileImageKey)
		assert.NotEqual(t, firstKey, *stored.ProfileImageKey)
		assert.NotContains(t, env.objects.saved, firstKey)
		assert.Contains(t, env.objects.saved, *stored.ProfileImageKey)
	})
}
