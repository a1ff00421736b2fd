package privacy

import (
	"context"

	dErrors "govintel/pkg/domain-errors"
	audit "govintel/pkg/platform/audit"
)

// SealingPublisher seals the client address on every audit event before it
// reaches the sink, so the trail keeps no plaintext caller IPs. A disabled
// sealer passes events through unchanged.
type SealingPublisher struct {
	sealer *Sealer
	next   AuditPublisher
}

func NewSealingPublisher(sealer *Sealer, next AuditPublisher) *SealingPublisher {
	return &SealingPublisher{sealer: sealer, next: next}
}

func (p *SealingPublisher) Emit(ctx context.Context, event audit.Event) error {
	if p.sealer.Enabled() && event.IP != "" {
		sealed, err := p.sealer.Seal(event.IP)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeAuditWrite, "seal audit event")
		}
		event.IP = sealed
	}
	return p.next.Emit(ctx, event)
}
