package login

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renanmoutaa/Portal-Cativo/db"
	"github.com/renanmoutaa/Portal-Cativo/internal/cache"
	"github.com/renanmoutaa/Portal-Cativo/internal/clients"
	"github.com/renanmoutaa/Portal-Cativo/internal/controller"
	"github.com/renanmoutaa/Portal-Cativo/models"
)

type fakeRepo struct {
	records   []*models.LoginRecord
	createErr error
}

func (r *fakeRepo) Close() error { return nil }

func (r *fakeRepo) Create(_ context.Context, record *models.LoginRecord) (*models.LoginRecord, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	record.ID = int64(len(r.records) + 1)
	record.CreatedAt = time.Now().UTC()
	r.records = append(r.records, record)
	return record, nil
}

func (r *fakeRepo) FindSince(_ context.Context, _ time.Time, _ string) ([]*models.LoginRecord, error) {
	return r.records, nil
}

func (r *fakeRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeUpstream struct {
	connectionErr error
	portalSiteID  string
	portalErr     error
	authorizeErr  error

	lastConnection *controller.ConnectionPayload
	lastAuthorize  *controller.AuthorizePayload
	lastController int
	portalCalls    int
}

func (u *fakeUpstream) CreateConnection(_ context.Context, payload controller.ConnectionPayload) error {
	u.lastConnection = &payload
	return u.connectionErr
}

func (u *fakeUpstream) PortalConfig(_ context.Context, controllerID int) (*models.PortalConfig, error) {
	u.portalCalls++
	u.lastController = controllerID
	if u.portalErr != nil {
		return nil, u.portalErr
	}
	var config models.PortalConfig
	config.Config.SiteID = u.portalSiteID
	return &config, nil
}

func (u *fakeUpstream) Authorize(_ context.Context, controllerID int, payload controller.AuthorizePayload) error {
	u.lastController = controllerID
	u.lastAuthorize = &payload
	return u.authorizeErr
}

func strPtr(value string) *string {
	return &value
}

func validRequest() *models.LoginRequest {
	return &models.LoginRequest{
		Name:        strPtr("Alice"),
		Email:       strPtr("alice@co.com"),
		AcceptTerms: true,
		SSID:        strPtr("GUEST"),
		ClientMAC:   strPtr("aa:bb:cc:dd:ee:ff"),
	}
}

func newTestService(repo *fakeRepo, upstream *fakeUpstream, cacheStore cache.Store) (*Service, func()) {
	manager := db.NewDBManager()
	return NewService(repo, manager, cacheStore, upstream), manager.Stop
}

func TestSubmit_Validation(t *testing.T) {
	service, stop := newTestService(&fakeRepo{}, &fakeUpstream{}, cache.NewMemoryStore())
	defer stop()

	t.Run("TermsRequired", func(t *testing.T) {
		req := validRequest()
		req.AcceptTerms = false
		_, err := service.Submit(context.Background(), req, "", "")
		assert.ErrorIs(t, err, ErrTermsNotAccepted)
	})

	t.Run("ContactRequired", func(t *testing.T) {
		req := validRequest()
		req.Email = nil
		req.Phone = nil
		_, err := service.Submit(context.Background(), req, "", "")
		assert.ErrorIs(t, err, ErrNoContact)
	})

	t.Run("PhoneAloneSuffices", func(t *testing.T) {
		req := validRequest()
		req.Email = nil
		req.Phone = strPtr("5551234567")
		response, err := service.Submit(context.Background(), req, "", "")
		require.NoError(t, err)
		assert.True(t, response.Success)
	})
}

func TestSubmit_HappyPath(t *testing.T) {
	repo := &fakeRepo{}
	upstream := &fakeUpstream{portalSiteID: "campus-a"}
	service, stop := newTestService(repo, upstream, cache.NewMemoryStore())
	defer stop()

	response, err := service.Submit(context.Background(), validRequest(), "192.168.1.10", "Mozilla/5.0 (iPhone)")
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.True(t, response.Saved)
	assert.True(t, response.Authorized)
	assert.True(t, strings.HasPrefix(response.Token, "session_"))

	require.NotNil(t, upstream.lastConnection)
	assert.Equal(t, response.Token, upstream.lastConnection.Token)

	require.NotNil(t, upstream.lastAuthorize)
	assert.Equal(t, "campus-a", upstream.lastAuthorize.SiteID)
	require.NotNil(t, upstream.lastAuthorize.MAC)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", *upstream.lastAuthorize.MAC)
	assert.Nil(t, upstream.lastAuthorize.IP, "mac is preferred over ip")

	require.Len(t, repo.records, 1)
	record := repo.records[0]
	assert.Equal(t, "GUEST", *record.SSID)
	assert.Equal(t, "192.168.1.10", *record.IP)
	assert.Equal(t, "Mozilla/5.0 (iPhone)", *record.UserAgent)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestSubmit_SiteIDResolution(t *testing.T) {
	t.Run("RequestValueWins", func(t *testing.T) {
		upstream := &fakeUpstream{portalSiteID: "from-config"}
		service, stop := newTestService(&fakeRepo{}, upstream, cache.NewMemoryStore())
		defer stop()

		req := validRequest()
		req.SiteID = strPtr("from-request")
		_, err := service.Submit(context.Background(), req, "", "")
		require.NoError(t, err)

		assert.Equal(t, "from-request", upstream.lastAuthorize.SiteID)
		assert.Equal(t, 0, upstream.portalCalls, "portal config is only fetched when the request omits siteId")
	})

	t.Run("PortalConfigFallback", func(t *testing.T) {
		upstream := &fakeUpstream{portalSiteID: "from-config"}
		service, stop := newTestService(&fakeRepo{}, upstream, cache.NewMemoryStore())
		defer stop()

		_, err := service.Submit(context.Background(), validRequest(), "", "")
		require.NoError(t, err)
		assert.Equal(t, "from-config", upstream.lastAuthorize.SiteID)
	})

	t.Run("DefaultWhenConfigUnavailable", func(t *testing.T) {
		upstream := &fakeUpstream{portalErr: errors.New("config down")}
		service, stop := newTestService(&fakeRepo{}, upstream, cache.NewMemoryStore())
		defer stop()

		_, err := service.Submit(context.Background(), validRequest(), "", "")
		require.NoError(t, err)
		assert.Equal(t, "default", upstream.lastAuthorize.SiteID)
	})
}

func TestSubmit_UpstreamFailuresDegradeToFlags(t *testing.T) {
	repo := &fakeRepo{}
	upstream := &fakeUpstream{
		connectionErr: errors.New("nest down"),
		authorizeErr:  errors.New("controller down"),
	}
	service, stop := newTestService(repo, upstream, cache.NewMemoryStore())
	defer stop()

	response, err := service.Submit(context.Background(), validRequest(), "192.168.1.10", "")
	require.NoError(t, err)

	assert.True(t, response.Success, "upstream failures never fail the request")
	assert.False(t, response.Saved)
	assert.False(t, response.Authorized)
	assert.Len(t, repo.records, 1, "the record is persisted regardless of upstream outcome")
}

func TestSubmit_StorageFailureDoesNotUnwind(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("disk full")}
	service, stop := newTestService(repo, &fakeUpstream{}, cache.NewMemoryStore())
	defer stop()

	response, err := service.Submit(context.Background(), validRequest(), "", "")
	require.NoError(t, err)
	assert.True(t, response.Success)
}

func TestSubmit_AuthorizationSkippedWithoutMACOrIP(t *testing.T) {
	upstream := &fakeUpstream{}
	service, stop := newTestService(&fakeRepo{}, upstream, cache.NewMemoryStore())
	defer stop()

	req := validRequest()
	req.ClientMAC = nil
	response, err := service.Submit(context.Background(), req, "", "")
	require.NoError(t, err)

	assert.False(t, response.Authorized)
	assert.Nil(t, upstream.lastAuthorize)
}

func TestSubmit_InvalidatesSSIDCacheNamespace(t *testing.T) {
	cacheStore := cache.NewMemoryStore()
	ctx := context.Background()
	cacheStore.Set(ctx, clients.CacheKey("GUEST", 1, "default"), []byte("stale"), time.Minute)
	cacheStore.Set(ctx, clients.CacheKey("OTHER", 0, ""), []byte("fresh"), time.Minute)

	service, stop := newTestService(&fakeRepo{}, &fakeUpstream{}, cacheStore)
	defer stop()

	_, err := service.Submit(ctx, validRequest(), "", "")
	require.NoError(t, err)

	_, ok := cacheStore.Get(ctx, clients.CacheKey("GUEST", 1, "default"))
	assert.False(t, ok, "cached views for the affected ssid must be dropped")
	_, ok = cacheStore.Get(ctx, clients.CacheKey("OTHER", 0, ""))
	assert.True(t, ok, "other ssids keep their cache entries")
}
