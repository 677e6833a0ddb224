package login

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/renanmoutaa/Portal-Cativo/db"
	"github.com/renanmoutaa/Portal-Cativo/internal/cache"
	"github.com/renanmoutaa/Portal-Cativo/internal/clients"
	"github.com/renanmoutaa/Portal-Cativo/internal/controller"
	"github.com/renanmoutaa/Portal-Cativo/models"
)

// Validation errors are the only failures Submit returns; they reject the
// request before any side effect runs.
var (
	ErrTermsNotAccepted = errors.New("terms of use must be accepted")
	ErrNoContact        = errors.New("either email or phone is required")
)

// defaultControllerID is assumed when the portal redirect carries none.
const defaultControllerID = 1

// ControllerAPI is the slice of the upstream client the login flow needs.
type ControllerAPI interface {
	CreateConnection(ctx context.Context, payload controller.ConnectionPayload) error
	PortalConfig(ctx context.Context, controllerID int) (*models.PortalConfig, error)
	Authorize(ctx context.Context, controllerID int, payload controller.AuthorizePayload) error
}

// Service runs the login submission flow: forward upstream, authorize the
// device, persist the record, invalidate cached views.
type Service struct {
	repo       db.LoginRepository
	manager    *db.DBManager
	cache      cache.Store
	controller ControllerAPI
}

// NewService creates the login service
func NewService(repo db.LoginRepository, manager *db.DBManager, cacheStore cache.Store, controllerClient ControllerAPI) *Service {
	return &Service{
		repo:       repo,
		manager:    manager,
		cache:      cacheStore,
		controller: controllerClient,
	}
}

// Submit runs the full login flow. Past validation it always succeeds:
// every upstream interaction degrades to a flag on the response, and a
// storage failure is logged without unwinding the request.
func (s *Service) Submit(ctx context.Context, req *models.LoginRequest, clientIP, userAgent string) (*models.LoginResponse, error) {
	if !req.AcceptTerms {
		return nil, ErrTermsNotAccepted
	}
	if deref(req.Email) == "" && deref(req.Phone) == "" {
		return nil, ErrNoContact
	}

	token := "session_" + uuid.New().String()

	saved := s.forward(ctx, req, token)
	authorized := s.authorize(ctx, req, clientIP)
	s.record(ctx, req, clientIP, userAgent)

	return &models.LoginResponse{
		Success:    true,
		Token:      token,
		Saved:      saved,
		Authorized: authorized,
	}, nil
}

func (s *Service) forward(ctx context.Context, req *models.LoginRequest, token string) bool {
	err := s.controller.CreateConnection(ctx, controller.ConnectionPayload{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		AcceptTerms: req.AcceptTerms,
		Token:       token,
	})
	if err != nil {
		log.Printf("Forwarding connection upstream failed: %v", err)
		return false
	}
	return true
}

func (s *Service) authorize(ctx context.Context, req *models.LoginRequest, clientIP string) bool {
	controllerID := defaultControllerID
	if req.ControllerID != nil && *req.ControllerID > 0 {
		controllerID = *req.ControllerID
	}

	payload := controller.AuthorizePayload{
		SiteID: s.resolveSiteID(ctx, controllerID, req.SiteID),
	}
	switch {
	case deref(req.ClientMAC) != "":
		payload.MAC = req.ClientMAC
	case clientIP != "":
		payload.IP = &clientIP
	default:
		log.Printf("No client MAC or IP available, skipping authorization")
		return false
	}
	if deref(req.APMAC) != "" {
		payload.APMAC = req.APMAC
	}
	if deref(req.SSID) != "" {
		payload.SSID = req.SSID
	}

	if err := s.controller.Authorize(ctx, controllerID, payload); err != nil {
		log.Printf("Authorization on controller %d failed: %v", controllerID, err)
		return false
	}
	return true
}

// resolveSiteID prefers the request value, then the controller's portal
// config, then the stock "default" site.
func (s *Service) resolveSiteID(ctx context.Context, controllerID int, requested *string) string {
	if deref(requested) != "" {
		return *requested
	}

	config, err := s.controller.PortalConfig(ctx, controllerID)
	if err != nil {
		log.Printf("Portal config lookup for controller %d failed: %v", controllerID, err)
	} else if config.Config.SiteID != "" {
		return config.Config.SiteID
	}
	return "default"
}

// record persists the login locally, runs the retention sweep and drops the
// cached views for the affected SSID.
func (s *Service) record(ctx context.Context, req *models.LoginRequest, clientIP, userAgent string) {
	record := &models.LoginRecord{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		SSID:      req.SSID,
		ClientMAC: req.ClientMAC,
		APMAC:     req.APMAC,
	}
	if clientIP != "" {
		record.IP = &clientIP
	}
	if userAgent != "" {
		record.UserAgent = &userAgent
	}

	if _, err := s.manager.CreateLogin(s.repo, ctx, record); err != nil {
		log.Printf("Recording local login failed: %v", err)
		return
	}

	cutoff := clients.RetentionCutoff(time.Now().UTC())
	if deleted, err := s.manager.DeleteLoginsOlderThan(s.repo, ctx, cutoff); err != nil {
		log.Printf("Retention sweep failed: %v", err)
	} else if deleted > 0 {
		log.Printf("Retention sweep removed %d login records", deleted)
	}

	s.cache.InvalidatePrefix(ctx, clients.SSIDPrefix(deref(req.SSID)))
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
