package models

import (
	"time"
)

// LoginRecord is one guest login event as persisted in the store.
// CreatedAt and ID are assigned by the store at write time and never change.
type LoginRecord struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	SSID      *string   `json:"ssid"`
	ClientMAC *string   `json:"clientMac"`
	APMAC     *string   `json:"apMac"`
	IP        *string   `json:"ip"`
	UserAgent *string   `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

type ClientStatus string

const (
	ClientStatusOnline ClientStatus = "online"
	ClientStatusIdle   ClientStatus = "idle"
)

// ConnectedClient is the per-request view derived from a LoginRecord,
// optionally enriched with live controller data. Never persisted.
type ConnectedClient struct {
	ID               int64        `json:"id"`
	Name             *string      `json:"name"`
	Email            *string      `json:"email"`
	Phone            *string      `json:"phone"`
	SSID             *string      `json:"ssid"`
	Device           string       `json:"device"`
	IP               *string      `json:"ip"`
	MAC              *string      `json:"mac"`
	APMAC            *string      `json:"apMac"`
	ConnectedSeconds int64        `json:"connectedSeconds"`
	BandwidthBytes   int64        `json:"bandwidthBytes"`
	CreatedAt        time.Time    `json:"createdAt"`
	Status           ClientStatus `json:"status"`
	Location         *string      `json:"location"`
}

// ConnectedClientsResponse is the transport envelope for the connected
// clients view. The same shape goes into the cache verbatim.
type ConnectedClientsResponse struct {
	Clients []*ConnectedClient `json:"clients"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AcceptTerms  bool    `json:"acceptTerms"`
	ControllerID *int    `json:"controllerId"`
	SiteID       *string `json:"siteId"`
	ClientMAC    *string `json:"clientMac"`
	APMAC        *string `json:"apMac"`
	SSID         *string `json:"ssid"`
}

// LoginResponse always reports success on valid input; Saved and Authorized
// carry the outcome of the upstream calls without blocking the response.
type LoginResponse struct {
	Success    bool   `json:"success"`
	Token      string `json:"token"`
	Saved      bool   `json:"saved"`
	Authorized bool   `json:"authorized"`
}
