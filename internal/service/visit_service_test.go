package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/initiative-bkd/petition-service/internal/domain"
	"github.com/initiative-bkd/petition-service/internal/geo"
	"github.com/initiative-bkd/petition-service/internal/repository/memory"
	"github.com/initiative-bkd/petition-service/internal/repository/mocks"
)

type stubResolver struct {
	loc geo.Location
	err error
}

func (r stubResolver) Lookup(context.Context, string) (geo.Location, error) {
	return r.loc, r.err
}

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

func TestVisitSource(t *testing.T) {
	svc := NewVisitService(VisitDependencies{SiteURL: "https://www.initiative-bkd.de"})

	cases := []struct {
		name, ref, referer, want string
	}{
		{"explicit ref wins", "newsletter", "https://news.example.co.uk/a", "newsletter"},
		{"registrable domain of referer", "", "https://m.facebook.com/story", "facebook.com"},
		{"public suffix aware", "", "https://news.example.co.uk/a", "example.co.uk"},
		{"self referral is direct", "", "https://initiative-bkd.de/de", domain.VisitSourceDirect},
		{"nothing is direct", "", "", domain.VisitSourceDirect},
		{"garbage referer is direct", "", "::not a url", domain.VisitSourceDirect},
		{"long ref is cut", strings.Repeat("a", 70), "", strings.Repeat("a", 64)},
		{"cut keeps runes whole", strings.Repeat("a", 63) + "ü", "", strings.Repeat("a", 63)},
		{"multi-byte ref", strings.Repeat("ğ", 40), "", strings.Repeat("ğ", 32)},
		{"invalid bytes are dropped", "qr\xff", "", "qr"},
		{"only invalid bytes is direct", "\xff\xfe", "", domain.VisitSourceDirect},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.Source(tc.ref, tc.referer)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), maxSourceLength)
		})
	}
}

func TestLogStoresLocation(t *testing.T) {
	store := memory.NewVisitStore()
	svc := NewVisitService(VisitDependencies{
		VisitRepo: store,
		Geo:       stubResolver{loc: geo.Location{Country: "Germany", City: "Berlin"}},
		Enabled:   true,
		Now:       func() time.Time { return fixedNow },
	})

	assert.Equal(t, visitOutcomeLogged, svc.Log(context.Background(), VisitInput{Ref: "qr", UserAgent: browserUA, IP: "8.8.8.8"}))

	visits, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "qr", visits[0].Source)
	assert.Equal(t, "Germany", visits[0].Country)
	assert.Equal(t, "Berlin", visits[0].City)
	assert.Equal(t, fixedNow, visits[0].Timestamp)
}

func TestLogFallsBackToUnknownLocation(t *testing.T) {
	store := memory.NewVisitStore()
	svc := NewVisitService(VisitDependencies{
		VisitRepo: store,
		Geo:       stubResolver{err: geo.ErrNotRoutable},
		Enabled:   true,
	})

	svc.LogAsync(VisitInput{UserAgent: browserUA, IP: "10.0.0.1"})
	svc.Wait()

	visits, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, domain.UnknownLocation, visits[0].Country)
	assert.Equal(t, domain.UnknownLocation, visits[0].City)
	assert.Equal(t, domain.VisitSourceDirect, visits[0].Source)
}

func TestLogSkipsBotsAndDisabledTracking(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockVisitRepository(ctrl)

	svc := NewVisitService(VisitDependencies{VisitRepo: repo, Enabled: true})
	bot := "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
	assert.Equal(t, visitOutcomeBot, svc.Log(context.Background(), VisitInput{UserAgent: bot}))

	disabled := NewVisitService(VisitDependencies{VisitRepo: repo})
	assert.Equal(t, visitOutcomeDisabled, disabled.Log(context.Background(), VisitInput{UserAgent: browserUA}))
}

func TestLogSwallowsStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockVisitRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))

	svc := NewVisitService(VisitDependencies{VisitRepo: repo, Enabled: true})
	assert.Equal(t, visitOutcomeFailed, svc.Log(context.Background(), VisitInput{UserAgent: browserUA}))
}
