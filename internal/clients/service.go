package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/db"
	"github.com/renanmoutaa/Portal-Cativo/internal/cache"
	"github.com/renanmoutaa/Portal-Cativo/internal/classifier"
	"github.com/renanmoutaa/Portal-Cativo/models"
)

const (
	// retentionDays bounds both the sweep and every read, so no record
	// older than the retention floor is ever served.
	retentionDays = 15

	// onlineWindow is how long after login a client still counts as online.
	onlineWindow = 2 * time.Hour

	cacheNamespace = "clients_connected:"
)

// ControllerAPI is the slice of the upstream client the read path needs.
type ControllerAPI interface {
	Clients(ctx context.Context, controllerID int, siteID string) ([]models.WirelessClient, error)
	AccessPoints(ctx context.Context, controllerID int, siteID string) ([]models.AccessPoint, error)
}

// Service composes the login store, classifier, enrichment joiner and cache
// into the connected-clients view.
type Service struct {
	repo       db.LoginRepository
	cache      cache.Store
	controller ControllerAPI
	ttl        time.Duration
	now        func() time.Time
}

// NewService creates the connected-clients service
func NewService(repo db.LoginRepository, cacheStore cache.Store, controller ControllerAPI, ttl time.Duration) *Service {
	return &Service{
		repo:       repo,
		cache:      cacheStore,
		controller: controller,
		ttl:        ttl,
		now:        time.Now,
	}
}

// RetentionCutoff returns the oldest createdAt still retained and served.
func RetentionCutoff(now time.Time) time.Time {
	return now.Add(-retentionDays * 24 * time.Hour)
}

// CacheKey encodes the full filter set so distinct queries never share an
// entry. Missing filters serialize as empty segments.
func CacheKey(ssid string, controllerID int, siteID string) string {
	controllerSegment := ""
	if controllerID > 0 {
		controllerSegment = strconv.Itoa(controllerID)
	}
	return cacheNamespace + ssid + ":" + controllerSegment + ":" + siteID
}

// SSIDPrefix is the cache namespace dropped when a login lands on an SSID.
func SSIDPrefix(ssid string) string {
	return cacheNamespace + ssid + ":"
}

// GetConnected returns the filtered, enriched connected-clients view.
// Store failure is fatal to the request; enrichment and cache failures
// degrade to a less enriched or slower response.
func (s *Service) GetConnected(ctx context.Context, ssid string, controllerID int, siteID string) (*models.ConnectedClientsResponse, error) {
	key := CacheKey(ssid, controllerID, siteID)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached models.ConnectedClientsResponse
		if err := json.Unmarshal(raw, &cached); err == nil && cached.Clients != nil {
			return &cached, nil
		}
	}

	now := s.now().UTC()
	records, err := s.repo.FindSince(ctx, RetentionCutoff(now), ssid)
	if err != nil {
		return nil, fmt.Errorf("querying recent logins: %w", err)
	}

	views := make([]*models.ConnectedClient, 0, len(records))
	for _, record := range records {
		if classifier.IsSyntheticIdentity(deref(record.Name), deref(record.Email), deref(record.Phone)) {
			continue
		}
		views = append(views, buildView(record, now))
	}

	if controllerID > 0 && siteID != "" {
		s.enrich(ctx, views, controllerID, siteID)
	}

	response := &models.ConnectedClientsResponse{Clients: views}
	if raw, err := json.Marshal(response); err == nil {
		s.cache.Set(ctx, key, raw, s.ttl)
	}
	return response, nil
}

func buildView(record *models.LoginRecord, now time.Time) *models.ConnectedClient {
	seconds := int64(now.Sub(record.CreatedAt).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	status := models.ClientStatusIdle
	if time.Duration(seconds)*time.Second <= onlineWindow {
		status = models.ClientStatusOnline
	}

	return &models.ConnectedClient{
		ID:               record.ID,
		Name:             record.Name,
		Email:            record.Email,
		Phone:            record.Phone,
		SSID:             record.SSID,
		Device:           classifier.ClassifyDevice(deref(record.UserAgent)),
		IP:               record.IP,
		MAC:              record.ClientMAC,
		APMAC:            record.APMAC,
		ConnectedSeconds: seconds,
		BandwidthBytes:   0,
		CreatedAt:        record.CreatedAt,
		Status:           status,
		Location:         nil,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
