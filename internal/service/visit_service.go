package service

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mssola/useragent"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/geo"
	"github.com/initiative-bkd/petition-service/internal/observability"
	"github.com/initiative-bkd/petition-service/internal/repository"
)

const (
	visitOutcomeLogged   = "logged"
	visitOutcomeBot      = "bot"
	visitOutcomeDisabled = "disabled"
	visitOutcomeFailed   = "failed"

	maxSourceLength = 64
)

// VisitInput carries what the landing page request reveals about a visitor.
type VisitInput struct {
	Ref       string
	Referer   string
	UserAgent string
	IP        string
}

// VisitService records landing page visits. Every failure is swallowed.
type VisitService struct {
	visits  repository.VisitRepository
	geo     geo.Resolver
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
	enabled bool
	ownHost string
	timeout time.Duration
	wg      sync.WaitGroup
}

// VisitDependencies bundles collaborators for the visit service.
type VisitDependencies struct {
	VisitRepo repository.VisitRepository
	Geo       geo.Resolver
	Metrics   *observability.Metrics
	Logger    *zap.Logger
	Now       func() time.Time
	Enabled   bool
	// SiteURL identifies self-referrals, which count as direct visits.
	SiteURL string
	Timeout time.Duration
}

// NewVisitService constructs the service.
func NewVisitService(deps VisitDependencies) *VisitService {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &VisitService{
		visits:  deps.VisitRepo,
		geo:     deps.Geo,
		metrics: deps.Metrics,
		logger:  loggerOrNop(deps.Logger),
		now:     clockOrNow(deps.Now),
		enabled: deps.Enabled,
		ownHost: registrableDomain(deps.SiteURL),
		timeout: timeout,
	}
}

// Log stores one visit and reports the outcome.
func (s *VisitService) Log(ctx context.Context, in VisitInput) string {
	if !s.enabled {
		return visitOutcomeDisabled
	}
	if in.UserAgent != "" && useragent.New(in.UserAgent).Bot() {
		s.metrics.VisitLogged(visitOutcomeBot)
		return visitOutcomeBot
	}

	visit := &domain.VisitRecord{
		Timestamp: s.now().UTC(),
		Source:    s.Source(in.Ref, in.Referer),
		Country:   domain.UnknownLocation,
		City:      domain.UnknownLocation,
	}
	if s.geo != nil {
		loc, err := s.geo.Lookup(ctx, in.IP)
		if err != nil {
			s.logger.Debug("geo lookup failed", zap.Error(err))
		} else {
			if loc.Country != "" {
				visit.Country = loc.Country
			}
			if loc.City != "" {
				visit.City = loc.City
			}
		}
	}

	if err := s.visits.Create(ctx, visit); err != nil {
		s.logger.Warn("visit logging failed", zap.Error(err))
		s.metrics.VisitLogged(visitOutcomeFailed)
		return visitOutcomeFailed
	}
	s.metrics.VisitLogged(visitOutcomeLogged)
	return visitOutcomeLogged
}

// LogAsync logs in the background, detached from the request lifetime.
func (s *VisitService) LogAsync(in VisitInput) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.Log(ctx, in)
	}()
}

// Wait blocks until every background log has finished.
func (s *VisitService) Wait() {
	s.wg.Wait()
}

// Source picks the explicit ref tag, else the referring site's registrable
// domain, else "direct".
func (s *VisitService) Source(ref, referer string) string {
	if ref = truncateRunes(strings.TrimSpace(ref), maxSourceLength); ref != "" {
		return ref
	}
	if site := registrableDomain(referer); site != "" && site != s.ownHost {
		return site
	}
	return domain.VisitSourceDirect
}

// truncateRunes drops invalid UTF-8 and cuts s to at most n bytes on a rune boundary.
func truncateRunes(s string, n int) string {
	s = strings.ToValidUTF8(s, "")
	cut := 0
	for cut < len(s) {
		_, size := utf8.DecodeRuneInString(s[cut:])
		if cut+size > n {
			break
		}
		cut += size
	}
	return s[:cut]
}

func registrableDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}
