package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/einar/transportapp/internal/api"
)

// gatedBackend blocks each call until its email or name is released.
type gatedBackend struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	reg   map[string]func() (api.RegisterResponse, error)
	org   map[string]func() (api.CreateOrganizationResponse, error)
}

func newGatedBackend() *gatedBackend {
	return &gatedBackend{
		gates: map[string]chan struct{}{},
		reg:   map[string]func() (api.RegisterResponse, error){},
		org:   map[string]func() (api.CreateOrganizationResponse, error){},
	}
}

func (b *gatedBackend) gate(key string) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.gates[key]
	if !ok {
		g = make(chan struct{})
		b.gates[key] = g
	}
	return g
}

func (b *gatedBackend) release(key string) { close(b.gate(key)) }

func (b *gatedBackend) Register(ctx context.Context, req api.RegisterRequest) (api.RegisterResponse, error) {
	select {
	case <-b.gate(req.Email):
	case <-ctx.Done():
		return api.RegisterResponse{}, &api.Error{Kind: api.KindNetwork, Op: "register", Err: ctx.Err()}
	}
	b.mu.Lock()
	fn := b.reg[req.Email]
	b.mu.Unlock()
	return fn()
}

func (b *gatedBackend) CreateOrganization(ctx context.Context, req api.CreateOrganizationRequest, country string) (api.CreateOrganizationResponse, error) {
	select {
	case <-b.gate(req.Name):
	case <-ctx.Done():
		return api.CreateOrganizationResponse{}, &api.Error{Kind: api.KindNetwork, Op: "create organization", Err: ctx.Err()}
	}
	b.mu.Lock()
	fn := b.org[req.Name]
	b.mu.Unlock()
	return fn()
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed without a result")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	var zero T
	return zero
}

func TestRegistrationPublishesEmailOnSuccess(t *testing.T) {
	b := newGatedBackend()
	b.reg["ana@example.com"] = func() (api.RegisterResponse, error) {
		return api.RegisterResponse{Message: "Usuario creado"}, nil
	}
	h := NewRegistration(context.Background(), b, nil)
	defer h.Close()

	_, ok := h.Latest()
	require.False(t, ok)
	_, ok = h.RegisteredEmail()
	require.False(t, ok)

	ch := h.Register(api.RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	b.release("ana@example.com")
	res := recv(t, ch)
	require.True(t, res.OK())

	_, open := <-ch
	require.False(t, open, "channel must be closed after one result")

	latest, ok := h.Latest()
	require.True(t, ok)
	require.Equal(t, "Usuario creado", latest.Message())
	email, ok := h.RegisteredEmail()
	require.True(t, ok)
	require.Equal(t, "ana@example.com", email)
}

func TestRegistrationErrorPrefixIsNotSuccess(t *testing.T) {
	b := newGatedBackend()
	b.reg["ana@example.com"] = func() (api.RegisterResponse, error) {
		return api.RegisterResponse{Message: "error: cuenta bloqueada"}, nil
	}
	h := NewRegistration(context.Background(), b, nil)
	defer h.Close()

	ch := h.Register(api.RegisterRequest{Email: "ana@example.com", Password: "secret1"})
	b.release("ana@example.com")
	res := recv(t, ch)
	require.False(t, res.OK())
	_, ok := h.RegisteredEmail()
	require.False(t, ok)
}

func TestRegistrationDuplicateKeepsEarlierEmail(t *testing.T) {
	b := newGatedBackend()
	b.reg["ana@example.com"] = func() (api.RegisterResponse, error) {
		return api.RegisterResponse{Message: "ok"}, nil
	}
	b.reg["bob@example.com"] = func() (api.RegisterResponse, error) {
		return api.RegisterResponse{}, &api.Error{Kind: api.KindServer, Op: "register", StatusCode: 500, Err: api.ErrEmailTaken}
	}
	h := NewRegistration(context.Background(), b, nil)
	defer h.Close()

	b.release("ana@example.com")
	require.True(t, recv(t, h.Register(api.RegisterRequest{Email: "ana@example.com"})).OK())

	b.release("bob@example.com")
	res := recv(t, h.Register(api.RegisterRequest{Email: "bob@example.com"}))
	require.False(t, res.OK())
	require.ErrorIs(t, res.Err, api.ErrEmailTaken)
	require.Equal(t, "Error: El email ya está registrado. Intenta con otro email.", res.Message())

	latest, _ := h.Latest()
	require.Equal(t, res.Message(), latest.Message())
	email, _ := h.RegisteredEmail()
	require.Equal(t, "ana@example.com", email)
}

func TestRegistrationStaleResultDoesNotOverwrite(t *testing.T) {
	b := newGatedBackend()
	b.reg["slow@example.com"] = func() (api.RegisterResponse, error) {
		return api.RegisterResponse{Message: "slow"}, nil
	}
	b.reg["fast@example.com"] = func() (api.RegisterResponse, error) {
		return api.RegisterResponse{Message: "fast"}, nil
	}
	h := NewRegistration(context.Background(), b, nil)
	defer h.Close()

	slow := h.Register(api.RegisterRequest{Email: "slow@example.com"})
	fast := h.Register(api.RegisterRequest{Email: "fast@example.com"})

	b.release("fast@example.com")
	require.Equal(t, "fast", recv(t, fast).Message())
	b.release("slow@example.com")
	// the stale call still reaches its own caller
	require.Equal(t, "slow", recv(t, slow).Message())

	latest, _ := h.Latest()
	require.Equal(t, "fast", latest.Message())
	email, _ := h.RegisteredEmail()
	require.Equal(t, "fast@example.com", email)
}

func TestRegistrationCloseCancelsInFlight(t *testing.T) {
	b := newGatedBackend()
	h := NewRegistration(context.Background(), b, nil)

	ch := h.Register(api.RegisterRequest{Email: "never@example.com"})
	h.Close()

	res := recv(t, ch)
	require.ErrorIs(t, res.Err, context.Canceled)
	_, ok := h.Latest()
	require.False(t, ok, "a cancelled call must not publish")

	after := recv(t, h.Register(api.RegisterRequest{Email: "late@example.com"}))
	require.ErrorIs(t, after.Err, ErrClosed)

	h.Close() // idempotent
}

func TestRegistrationRestore(t *testing.T) {
	b := newGatedBackend()
	b.reg["new@example.com"] = func() (api.RegisterResponse, error) {
		return api.RegisterResponse{Message: "ok"}, nil
	}
	h := NewRegistration(context.Background(), b, nil)
	defer h.Close()

	h.Restore(" old@example.com ")
	email, ok := h.RegisteredEmail()
	require.True(t, ok)
	require.Equal(t, "old@example.com", email)

	b.release("new@example.com")
	recv(t, h.Register(api.RegisterRequest{Email: "new@example.com"}))
	h.Restore("old@example.com")
	email, _ = h.RegisteredEmail()
	require.Equal(t, "new@example.com", email)
}

func TestOrganizationEmptyKeyIsFailure(t *testing.T) {
	b := newGatedBackend()
	b.org["Fletes"] = func() (api.CreateOrganizationResponse, error) {
		return api.CreateOrganizationResponse{OrganizationKey: "", Message: "quota exceeded"}, nil
	}
	h := NewOrganization(context.Background(), b, nil)
	defer h.Close()

	b.release("Fletes")
	res := recv(t, h.CreateOrganization("Fletes", "Chile", "ana@example.com"))
	require.False(t, res.OK())
	require.NoError(t, res.Err)
	require.Equal(t, "quota exceeded", res.Message())

	latest, ok := h.Latest()
	require.True(t, ok)
	require.Empty(t, latest.Response.OrganizationKey)
	require.Equal(t, "Chile", latest.Country)
}

func TestOrganizationSuccessAndFailureMessages(t *testing.T) {
	b := newGatedBackend()
	b.org["ok"] = func() (api.CreateOrganizationResponse, error) {
		return api.CreateOrganizationResponse{OrganizationKey: "k-1", Message: "created"}, nil
	}
	b.org["boom"] = func() (api.CreateOrganizationResponse, error) {
		return api.CreateOrganizationResponse{}, &api.Error{Kind: api.KindServer, Op: "create organization", StatusCode: 500, Detail: "db down"}
	}
	h := NewOrganization(context.Background(), b, nil)
	defer h.Close()

	b.release("ok")
	res := recv(t, h.CreateOrganization("ok", "Perú", "ana@example.com"))
	require.True(t, res.OK())
	require.Equal(t, "k-1", res.Response.OrganizationKey)
	require.Equal(t, "ana@example.com", res.Request.Email)

	b.release("boom")
	res = recv(t, h.CreateOrganization("boom", "Perú", "ana@example.com"))
	require.False(t, res.OK())
	require.Equal(t, "Error en el servidor: db down", res.Message())
	var apiErr *api.Error
	require.True(t, errors.As(res.Err, &apiErr))
}

func TestOrganizationParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := newGatedBackend()
	h := NewOrganization(ctx, b, nil)
	defer h.Close()

	ch := h.CreateOrganization("pending", "Chile", "ana@example.com")
	cancel()
	res := recv(t, ch)
	require.ErrorIs(t, res.Err, context.Canceled)
	_, ok := h.Latest()
	require.False(t, ok)
}
