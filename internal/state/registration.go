package state

import (
	"context"
	"log/slog"
	"strings"

	"github.com/einar/transportapp/internal/api"
	"github.com/einar/transportapp/internal/logging"
)

// Registerer performs one registration call.
type Registerer interface {
	Register(ctx context.Context, req api.RegisterRequest) (api.RegisterResponse, error)
}

// RegisterResult is the outcome of one Register call. On failure Response
// carries the user-facing message derived from Err.
type RegisterResult struct {
	Request  api.RegisterRequest
	Response api.RegisterResponse
	Err      error
}

// OK reports a registration the backend accepted.
func (r RegisterResult) OK() bool {
	return r.Err == nil && !r.Response.HasErrorPrefix()
}

func (r RegisterResult) Message() string { return r.Response.Message }

// Registration is the registration state holder. It is shared by the
// authentication and organization screens: the latter reads RegisteredEmail.
type Registration struct {
	svc    Registerer
	log    *slog.Logger
	tasks  *tasks
	latest slot[RegisterResult]

	// email is written under latest.mu
	email string
}

func NewRegistration(ctx context.Context, svc Registerer, logger *slog.Logger) *Registration {
	return &Registration{svc: svc, log: logging.OrDiscard(logger), tasks: newTasks(ctx)}
}

// Register starts a registration and returns a channel that receives exactly
// one result and is then closed.
func (r *Registration) Register(req api.RegisterRequest) <-chan RegisterResult {
	out := make(chan RegisterResult, 1)
	seq := r.latest.next()
	started := r.tasks.launch(func(ctx context.Context) {
		defer close(out)
		resp, err := r.svc.Register(ctx, req)
		if err != nil {
			resp = api.RegisterResponse{Message: api.Message(err)}
		}
		res := RegisterResult{Request: req, Response: resp, Err: err}
		if ctx.Err() != nil {
			r.log.Debug("registration finished after close", "email", req.Email)
		} else if !r.latest.publish(seq, res, func() {
			if res.OK() {
				r.email = strings.TrimSpace(req.Email)
			}
		}) {
			r.log.Debug("stale registration result dropped", "email", req.Email)
		}
		out <- res
	})
	if !started {
		out <- RegisterResult{Request: req, Response: api.RegisterResponse{Message: api.Message(ErrClosed)}, Err: ErrClosed}
		close(out)
	}
	return out
}

// Latest returns the newest published result.
func (r *Registration) Latest() (RegisterResult, bool) {
	return r.latest.get()
}

// RegisteredEmail is the email of the last accepted registration.
func (r *Registration) RegisteredEmail() (string, bool) {
	r.latest.mu.Lock()
	defer r.latest.mu.Unlock()
	return r.email, r.email != ""
}

// Restore seeds RegisteredEmail, e.g. from local history at start-up. It does
// not override an email registered during this session.
func (r *Registration) Restore(email string) {
	r.latest.mu.Lock()
	defer r.latest.mu.Unlock()
	if r.email == "" {
		r.email = strings.TrimSpace(email)
	}
}

// Close cancels in-flight registrations and waits for them.
func (r *Registration) Close() {
	r.tasks.close()
}
