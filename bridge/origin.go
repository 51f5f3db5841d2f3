package bridge

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// OriginPolicy decides which peer origins may connect to a host.
//
// An empty allow-list trusts every origin and logs a warning the first time
// it is consulted. The entry "*" trusts every origin silently.
type OriginPolicy struct {
	allowed map[string]struct{}
	any     bool
	logger  *logrus.Entry
	warn    sync.Once
}

// NewOriginPolicy builds a policy from scheme://host[:port] entries.
func NewOriginPolicy(allowed []string, logger *logrus.Entry) *OriginPolicy {
	p := &OriginPolicy{
		allowed: make(map[string]struct{}, len(allowed)),
		logger:  logger,
	}
	for _, o := range allowed {
		o = normalizeOrigin(o)
		if o == "" {
			continue
		}
		if o == "*" {
			p.any = true
			continue
		}
		p.allowed[o] = struct{}{}
	}
	return p
}

// Allow reports whether origin may connect.
func (p *OriginPolicy) Allow(origin string) bool {
	if p.any {
		return true
	}
	if len(p.allowed) == 0 {
		p.warn.Do(func() {
			if p.logger != nil {
				p.logger.Warn("No bridge origin allow-list configured; accepting messages from any origin")
			}
		})
		return true
	}
	_, ok := p.allowed[normalizeOrigin(origin)]
	return ok
}

// Restricted reports whether the policy rejects some origins.
func (p *OriginPolicy) Restricted() bool {
	return !p.any && len(p.allowed) > 0
}

func normalizeOrigin(o string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(o)), "/")
}
