package state

import (
	"context"
	"log/slog"
	"strings"

	"github.com/einar/transportapp/internal/api"
	"github.com/einar/transportapp/internal/logging"
)

// OrganizationCreator performs one organization call.
type OrganizationCreator interface {
	CreateOrganization(ctx context.Context, req api.CreateOrganizationRequest, country string) (api.CreateOrganizationResponse, error)
}

type OrganizationResult struct {
	Request  api.CreateOrganizationRequest
	Country  string
	Response api.CreateOrganizationResponse
	Err      error
}

// OK reports that the backend issued an organization key. A 200 without a key
// is not OK.
func (r OrganizationResult) OK() bool {
	return r.Err == nil && r.Response.HasKey()
}

func (r OrganizationResult) Message() string { return r.Response.Message }

// Organization is the organization-creation state holder. Its lifetime is the
// organization screen's.
type Organization struct {
	svc    OrganizationCreator
	log    *slog.Logger
	tasks  *tasks
	latest slot[OrganizationResult]
}

func NewOrganization(ctx context.Context, svc OrganizationCreator, logger *slog.Logger) *Organization {
	return &Organization{svc: svc, log: logging.OrDiscard(logger), tasks: newTasks(ctx)}
}

// CreateOrganization starts the call and returns a channel that receives
// exactly one result and is then closed.
func (o *Organization) CreateOrganization(name, country, email string) <-chan OrganizationResult {
	req := api.CreateOrganizationRequest{Email: strings.TrimSpace(email), Name: name}
	out := make(chan OrganizationResult, 1)
	seq := o.latest.next()
	started := o.tasks.launch(func(ctx context.Context) {
		defer close(out)
		resp, err := o.svc.CreateOrganization(ctx, req, country)
		if err != nil {
			resp = api.CreateOrganizationResponse{Message: api.Message(err)}
		}
		res := OrganizationResult{Request: req, Country: country, Response: resp, Err: err}
		if ctx.Err() != nil {
			o.log.Debug("organization finished after close", "name", name)
		} else if !o.latest.publish(seq, res, nil) {
			o.log.Debug("stale organization result dropped", "name", name)
		}
		out <- res
	})
	if !started {
		out <- OrganizationResult{Request: req, Country: country, Response: api.CreateOrganizationResponse{Message: api.Message(ErrClosed)}, Err: ErrClosed}
		close(out)
	}
	return out
}

func (o *Organization) Latest() (OrganizationResult, bool) {
	return o.latest.get()
}

// Close cancels in-flight calls and waits for them.
func (o *Organization) Close() {
	o.tasks.close()
}
