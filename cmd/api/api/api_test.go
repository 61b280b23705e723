package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mockstack/mockstack/cmd/api/config"
	"github.com/mockstack/mockstack/lib/attachments"
	"github.com/mockstack/mockstack/lib/identity"
	"github.com/mockstack/mockstack/lib/images"
	mw "github.com/mockstack/mockstack/lib/middleware"
	"github.com/mockstack/mockstack/lib/paths"
	"github.com/mockstack/mockstack/lib/servers"
	"github.com/mockstack/mockstack/lib/store"
	"github.com/mockstack/mockstack/lib/volumes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouterAt(t, t.TempDir())
}

// newTestRouterAt builds a full router over a real store in dir. OTel and
// metrics stay off; logs are discarded.
func newTestRouterAt(t *testing.T, dir string) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(paths.New(dir), log)
	require.NoError(t, err)

	identityManager := identity.NewManager(st)
	svc := New(
		&config.Config{},
		identityManager,
		images.NewManager(st),
		volumes.NewManager(st),
		servers.NewManager(st),
		attachments.NewManager(st),
	)
	return NewRouter(svc, RouterConfig{
		Logger:       log,
		AccessLogger: log,
		Auth:         identityManager,
	})
}

func doRequest(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set(mw.AuthTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, name, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"auth":{"identity":{"password":{"user":{"name":%q,"password":%q}}}}}`, name, password)
	rec := doRequest(t, h, http.MethodPost, "/v3/auth/tokens", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Header().Get("X-Subject-Token")
	require.NotEmpty(t, token)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestCreateToken(t *testing.T) {
	h := newTestRouter(t)

	t.Run("issues token for seeded admin", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v3/auth/tokens", "",
			`{"auth":{"identity":{"password":{"user":{"name":"admin","password":"secret"}}}}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var sess identity.Session
		decodeBody(t, rec, &sess)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, sess.Token, rec.Header().Get("X-Subject-Token"))
		assert.Equal(t, "user-1", sess.User.Id)
		assert.Equal(t, "admin", sess.User.Name)
		assert.Equal(t, "admin", sess.User.Role)
		assert.Equal(t, "mock-project", sess.Project.Id)
		assert.Equal(t, "MockProject", sess.Project.Name)
	})

	t.Run("issues token for demo user", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v3/auth/tokens", "",
			`{"auth":{"identity":{"password":{"user":{"name":"demo","password":"test"}}}}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var sess identity.Session
		decodeBody(t, rec, &sess)
		assert.Equal(t, "user-2", sess.User.Id)
		assert.Equal(t, "user", sess.User.Role)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v3/auth/tokens", "",
			`{"auth":{"identity":{"password":{"user":{"name":"admin","password":"nope"}}}}}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail":"Bad credentials"}`, rec.Body.String())
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v3/auth/tokens", "",
			`{"auth":{"identity":{"password":{"user":{"name":"ghost","password":"secret"}}}}}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail":"Bad credentials"}`, rec.Body.String())
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v3/auth/tokens", "", `{"auth":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail":"Malformed authentication body"}`, rec.Body.String())
	})

	t.Run("rejects missing credential path", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v3/auth/tokens", "", `{"auth":{"identity":{}}}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail":"Malformed authentication body"}`, rec.Body.String())
	})
}

func TestTokenGate(t *testing.T) {
	h := newTestRouter(t)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v2/images"},
		{http.MethodPost, "/v3/volumes"},
		{http.MethodGet, "/v2.1/servers"},
		{http.MethodDelete, "/v2.1/servers/abc"},
		{http.MethodPost, "/v2.1/servers/abc/os-volume_attachments"},
	}

	t.Run("rejects missing token", func(t *testing.T) {
		for _, e := range endpoints {
			rec := doRequest(t, h, e.method, e.path, "", "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", e.method, e.path)
			assert.JSONEq(t, `{"detail":"Invalid or missing token"}`, rec.Body.String())
		}
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/v2/images", "not-a-real-token", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"detail":"Invalid or missing token"}`, rec.Body.String())
	})

	t.Run("accepts issued token", func(t *testing.T) {
		token := login(t, h, "demo", "test")
		rec := doRequest(t, h, http.MethodGet, "/v2/images", token, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Cirros")
	})
}

func TestLogout(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "admin", "secret")

	rec := doRequest(t, h, http.MethodGet, "/v3/volumes", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/v3/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"detail":"Logged out"}`, rec.Body.String())

	// The revoked token no longer passes the gate
	rec = doRequest(t, h, http.MethodGet, "/v3/volumes", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout without a token still acknowledges
	rec = doRequest(t, h, http.MethodPost, "/v3/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"detail":"Logged out"}`, rec.Body.String())
}

func TestImages(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "admin", "secret")

	t.Run("list includes seed image with self link", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/v2/images", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var out struct {
			Images []struct {
				images.Image
				Links []struct {
					Rel  string `json:"rel"`
					Href string `json:"href"`
				} `json:"links"`
			} `json:"images"`
		}
		decodeBody(t, rec, &out)
		require.Len(t, out.Images, 1)

		img := out.Images[0]
		assert.Equal(t, "Cirros", img.Name)
		assert.Equal(t, "active", img.Status)
		assert.Equal(t, int64(13287936), img.Size)
		assert.Equal(t, "public", img.Visibility)
		require.Len(t, img.Links, 1)
		assert.Equal(t, "self", img.Links[0].Rel)
		assert.Equal(t, "/v2/images/"+img.Id, img.Links[0].Href)
	})

	t.Run("create applies defaults", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v2/images", token,
			`{"name":"ubuntu-22.04","size":2361393152,"visibility":"shared"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var img images.Image
		decodeBody(t, rec, &img)
		assert.NotEmpty(t, img.Id)
		assert.Equal(t, "ubuntu-22.04", img.Name)
		assert.Equal(t, "queued", img.Status)
		assert.Equal(t, int64(2361393152), img.Size)
		assert.Equal(t, "shared", img.Visibility)
		assert.Equal(t, "bare", img.ContainerFormat)
		assert.Equal(t, "qcow2", img.DiskFormat)
		_, err := time.Parse(time.RFC3339, img.CreatedAt)
		assert.NoError(t, err)

		// Get renders the stored entity without list links
		rec = doRequest(t, h, http.MethodGet, "/v2/images/"+img.Id, token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var raw map[string]any
		decodeBody(t, rec, &raw)
		assert.Equal(t, img.Id, raw["id"])
		_, hasLinks := raw["links"]
		assert.False(t, hasLinks)
	})

	t.Run("rejects malformed create body", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v2/images", token, `{"name":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail":"Malformed request body"}`, rec.Body.String())
	})

	t.Run("get unknown returns 404", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/v2/images/missing", token, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Image not found"}`, rec.Body.String())
	})

	t.Run("delete acknowledges then 404s", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v2/images", token, `{"name":"scratch"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		var img images.Image
		decodeBody(t, rec, &img)

		rec = doRequest(t, h, http.MethodDelete, "/v2/images/"+img.Id, token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"detail":"Deleted"}`, rec.Body.String())

		rec = doRequest(t, h, http.MethodGet, "/v2/images/"+img.Id, token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doRequest(t, h, http.MethodDelete, "/v2/images/"+img.Id, token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Image not found"}`, rec.Body.String())
	})
}

func TestVolumes(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "admin", "secret")

	t.Run("list includes seed volume", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/v3/volumes", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var out struct {
			Volumes []volumes.Volume `json:"volumes"`
		}
		decodeBody(t, rec, &out)
		require.Len(t, out.Volumes, 1)
		assert.Equal(t, "vol-1", out.Volumes[0].Name)
		assert.Equal(t, 1, out.Volumes[0].Size)
		assert.Equal(t, "available", out.Volumes[0].Status)
	})

	t.Run("create get delete", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v3/volumes", token, `{"name":"data","size":20}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var vol volumes.Volume
		decodeBody(t, rec, &vol)
		assert.NotEmpty(t, vol.Id)
		assert.Equal(t, "data", vol.Name)
		assert.Equal(t, 20, vol.Size)
		assert.Equal(t, "available", vol.Status)

		rec = doRequest(t, h, http.MethodGet, "/v3/volumes/"+vol.Id, token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, h, http.MethodDelete, "/v3/volumes/"+vol.Id, token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"detail":"Deleted"}`, rec.Body.String())

		rec = doRequest(t, h, http.MethodGet, "/v3/volumes/"+vol.Id, token, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Volume not found"}`, rec.Body.String())
	})
}

func TestServers(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "admin", "secret")

	t.Run("list includes seed server", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/v2.1/servers", token, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var out struct {
			Servers []servers.Server `json:"servers"`
		}
		decodeBody(t, rec, &out)
		require.Len(t, out.Servers, 1)
		assert.Equal(t, "server-1", out.Servers[0].Name)
		assert.Equal(t, "ACTIVE", out.Servers[0].Status)
	})

	t.Run("create without flavor renders null flavor_id", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v2.1/servers", token,
			`{"name":"web","image_id":"img-1"}`)
		require.Equal(t, http.StatusAccepted, rec.Code)

		var raw map[string]any
		decodeBody(t, rec, &raw)
		assert.Equal(t, "web", raw["name"])
		assert.Equal(t, "BUILD", raw["status"])
		assert.Equal(t, "img-1", raw["image_id"])
		flavor, present := raw["flavor_id"]
		assert.True(t, present)
		assert.Nil(t, flavor)
	})

	t.Run("create with flavor keeps it", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/v2.1/servers", token,
			`{"name":"db","image_id":"img-1","flavor_id":"m1.small"}`)
		require.Equal(t, http.StatusAccepted, rec.Code)

		var srv servers.Server
		decodeBody(t, rec, &srv)
		require.NotNil(t, srv.FlavorId)
		assert.Equal(t, "m1.small", *srv.FlavorId)

		rec = doRequest(t, h, http.MethodDelete, "/v2.1/servers/"+srv.Id, token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"detail":"Deleted"}`, rec.Body.String())

		rec = doRequest(t, h, http.MethodGet, "/v2.1/servers/"+srv.Id, token, "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"detail":"Server not found"}`, rec.Body.String())
	})
}

type attachmentEnvelope struct {
	VolumeAttachment attachments.Attachment `json:"volumeAttachment"`
}

func TestVolumeAttachments_Flow(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "admin", "secret")
	base := "/v2.1/servers/srv-1/os-volume_attachments"

	// First attachment gets the default device
	rec := doRequest(t, h, http.MethodPost, base, token, `{"volumeId":"vol-a"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	var first attachmentEnvelope
	decodeBody(t, rec, &first)
	assert.NotEmpty(t, first.VolumeAttachment.Id)
	assert.Equal(t, "srv-1", first.VolumeAttachment.ServerId)
	assert.Equal(t, "vol-a", first.VolumeAttachment.VolumeId)
	assert.Equal(t, "/dev/vdb", first.VolumeAttachment.Device)
	_, err := time.Parse(time.RFC3339, first.VolumeAttachment.AttachedAt)
	assert.NoError(t, err)

	// volume_id spelling and explicit device both honored
	rec = doRequest(t, h, http.MethodPost, base, token, `{"volume_id":"vol-b","device":"/dev/vdc"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	var second attachmentEnvelope
	decodeBody(t, rec, &second)
	assert.Equal(t, "vol-b", second.VolumeAttachment.VolumeId)
	assert.Equal(t, "/dev/vdc", second.VolumeAttachment.Device)

	// Same pair again conflicts; the same volume on another server does not
	rec = doRequest(t, h, http.MethodPost, base, token, `{"volumeId":"vol-a"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"detail":"Already attached"}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodPost, "/v2.1/servers/srv-2/os-volume_attachments", token, `{"volumeId":"vol-a"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Listing is scoped to the server in the path
	rec = doRequest(t, h, http.MethodGet, base, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		VolumeAttachments []attachments.Attachment `json:"volumeAttachments"`
	}
	decodeBody(t, rec, &listed)
	require.Len(t, listed.VolumeAttachments, 2)
	assert.Equal(t, "vol-a", listed.VolumeAttachments[0].VolumeId)
	assert.Equal(t, "vol-b", listed.VolumeAttachments[1].VolumeId)

	// Detach answers 204 with no body, then the id is gone
	rec = doRequest(t, h, http.MethodDelete, base+"/"+first.VolumeAttachment.Id, token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec = doRequest(t, h, http.MethodDelete, base+"/"+first.VolumeAttachment.Id, token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Attachment not found"}`, rec.Body.String())
}

func TestVolumeAttachments_Validation(t *testing.T) {
	h := newTestRouter(t)
	token := login(t, h, "admin", "secret")
	base := "/v2.1/servers/srv-1/os-volume_attachments"

	t.Run("missing volumeId", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, base, token, `{"device":"/dev/vdz"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail":"Missing volumeId"}`, rec.Body.String())
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, base, token, `{"volumeId":`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"detail":"Malformed request body"}`, rec.Body.String())
	})
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSpecEndpoints(t *testing.T) {
	h := newTestRouter(t)

	t.Run("spec.yaml", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/spec.yaml", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/vnd.oai.openapi", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "openapi:")
	})

	t.Run("spec.json", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/spec.json", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var doc map[string]any
		decodeBody(t, rec, &doc)
		assert.Contains(t, doc, "openapi")
		assert.Contains(t, doc, "paths")
	})

	t.Run("swagger ui", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/swagger", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "swagger-ui")
	})
}

func TestStateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	h1 := newTestRouterAt(t, dir)
	token := login(t, h1, "admin", "secret")
	rec := doRequest(t, h1, http.MethodPost, "/v3/volumes", token, `{"name":"persisted","size":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var vol volumes.Volume
	decodeBody(t, rec, &vol)

	// A second stack over the same directory sees the volume and the token
	h2 := newTestRouterAt(t, dir)
	rec = doRequest(t, h2, http.MethodGet, "/v3/volumes/"+vol.Id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got volumes.Volume
	decodeBody(t, rec, &got)
	assert.Equal(t, "persisted", got.Name)
	assert.Equal(t, 5, got.Size)
}
