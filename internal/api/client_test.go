package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 0, nil)
}

func TestRegisterRoundTrip(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/register", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]string{"email": "ana@example.com", "password": "secret1"}, body)

		_ = json.NewEncoder(w).Encode(RegisterResponse{Message: "Usuario registrado", Email: body["email"]})
	})

	resp, err := c.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "Usuario registrado", resp.Message)
	require.Equal(t, "ana@example.com", resp.Email)
	require.False(t, resp.HasErrorPrefix())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"user with the provided email already exists"}`, http.StatusInternalServerError)
	})

	_, err := c.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Equal(t, KindServer, KindOf(err))
	require.Equal(t, "Error: El email ya está registrado. Intenta con otro email.", Message(err))
}

func TestRegisterGenericServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database down", http.StatusInternalServerError)
	})

	_, err := c.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrEmailTaken)
	require.Equal(t, KindServer, KindOf(err))
	require.Equal(t, "Error en el servidor: Internal Server Error", Message(err))
}

func TestRegisterOtherStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	require.Equal(t, KindRejected, KindOf(err))
	require.Equal(t, "Error: Bad Request", Message(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestRegisterDecodeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	require.Equal(t, KindDecode, KindOf(err))
	require.True(t, HasErrorPrefix(Message(err)))
}

func TestRegisterNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base, time.Second, nil)
	_, err := c.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	require.Equal(t, KindNetwork, KindOf(err))
	require.True(t, HasErrorPrefix(Message(err)))
}

func TestRegisterCancelled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := c.Register(ctx, RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, KindNetwork, KindOf(err))
}

func TestRegisterTwiceAgainstDuplicateRejectingServer(t *testing.T) {
	var seen atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if seen.Add(1) > 1 {
			http.Error(w, "user with the provided email already exists", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(RegisterResponse{Message: "ok"})
	})

	req := RegisterRequest{Email: "ana@example.com", Password: "secret1"}
	first, err := c.Register(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "ok", first.Message)

	_, err = c.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateOrganizationSendsCountryHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/organizations", r.URL.Path)
		require.Equal(t, "Chile", r.Header.Get("country"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]string{"email": "ana@example.com", "name": "Fletes Sur"}, body)

		_ = json.NewEncoder(w).Encode(CreateOrganizationResponse{OrganizationKey: "org-123", Message: "created"})
	})

	resp, err := c.CreateOrganization(context.Background(), CreateOrganizationRequest{Email: "ana@example.com", Name: "Fletes Sur"}, "Chile")
	require.NoError(t, err)
	require.True(t, resp.HasKey())
	require.Equal(t, "org-123", resp.OrganizationKey)
}

func TestCreateOrganizationEmptyKeyIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organizationKey":"","message":"quota exceeded"}`))
	})

	resp, err := c.CreateOrganization(context.Background(), CreateOrganizationRequest{Email: "ana@example.com", Name: "x"}, "Perú")
	require.NoError(t, err)
	require.False(t, resp.HasKey())
	require.Equal(t, "quota exceeded", resp.Message)
}

func TestCreateOrganizationServerErrorUsesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("name already taken"))
	})

	_, err := c.CreateOrganization(context.Background(), CreateOrganizationRequest{Email: "ana@example.com", Name: "x"}, "Chile")
	require.Equal(t, KindServer, KindOf(err))
	require.Equal(t, "Error en el servidor: name already taken", Message(err))
}

func TestCreateOrganizationServerErrorEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.CreateOrganization(context.Background(), CreateOrganizationRequest{Email: "ana@example.com", Name: "x"}, "Chile")
	require.Equal(t, "Error en el servidor: Internal Server Error", Message(err))
}

func TestCreateOrganizationForbidden(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.CreateOrganization(context.Background(), CreateOrganizationRequest{Email: "ana@example.com", Name: "x"}, "Chile")
	require.Equal(t, KindRejected, KindOf(err))
	require.Equal(t, "Error: Forbidden", Message(err))
}
