package verify

import (
	"context"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/abstractapi"
	"github.com/sells-group/leadgen-cli/pkg/hunter"
)

// Provider is a third-party verification API. Providers translate their
// own status vocabulary into the canonical one; an unknown verdict sends
// the engine to the next provider.
type Provider interface {
	Name() string
	Verify(ctx context.Context, email string) (model.VerificationResult, error)
}

type hunterProvider struct {
	client hunter.Client
}

// NewHunterProvider verifies through the Hunter.io email-verifier endpoint.
func NewHunterProvider(client hunter.Client) Provider {
	return &hunterProvider{client: client}
}

func (p *hunterProvider) Name() string { return "hunter" }

func (p *hunterProvider) Verify(ctx context.Context, email string) (model.VerificationResult, error) {
	data, err := p.client.VerifyEmail(ctx, email)
	if err != nil {
		return model.VerificationResult{}, err
	}

	result := model.VerificationResult{Email: email}
	switch data.Status {
	case "valid":
		result.Status = model.EmailValid
		result.Reason = "Hunter.io verified"
	case "invalid":
		result.Status = model.EmailInvalid
		result.Reason = "Hunter.io rejected"
	case "accept_all", "webmail":
		result.Status = model.EmailRisky
		result.Reason = "Hunter.io accept-all domain"
	default:
		result.Status = model.EmailUnknown
		result.Reason = "Hunter.io inconclusive"
	}
	if data.Disposable {
		result.Status = model.EmailRisky
		result.Reason = "disposable address"
	}
	return result, nil
}

type abstractProvider struct {
	client abstractapi.Client
}

// NewAbstractProvider verifies through the AbstractAPI validation endpoint.
func NewAbstractProvider(client abstractapi.Client) Provider {
	return &abstractProvider{client: client}
}

func (p *abstractProvider) Name() string { return "abstract" }

func (p *abstractProvider) Verify(ctx context.Context, email string) (model.VerificationResult, error) {
	data, err := p.client.ValidateEmail(ctx, email)
	if err != nil {
		return model.VerificationResult{}, err
	}

	result := model.VerificationResult{Email: email}
	switch {
	case data.IsDisposableEmail.Value:
		result.Status = model.EmailRisky
		result.Reason = "disposable address"
	case data.Deliverability == abstractapi.Deliverable && data.IsCatchallEmail.Value:
		result.Status = model.EmailRisky
		result.Reason = "catch-all domain"
	case data.Deliverability == abstractapi.Deliverable:
		result.Status = model.EmailValid
		result.Reason = "AbstractAPI verified"
	case data.Deliverability == abstractapi.Undeliverable:
		result.Status = model.EmailInvalid
		result.Reason = "AbstractAPI rejected"
	default:
		result.Status = model.EmailUnknown
		result.Reason = "AbstractAPI inconclusive"
	}
	return result, nil
}
