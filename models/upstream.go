package models

import (
	"encoding/json"
)

// WirelessClient is one entry of the live device inventory returned by the
// upstream controller-management service. Controller exports vary by
// firmware, so most fields carry alternate JSON keys reconciled through the
// Resolved* accessors.
type WirelessClient struct {
	MAC        string      `json:"mac"`
	MACAddress string      `json:"macAddress"`
	IP         string      `json:"ip"`
	IPAddress  string      `json:"ipAddress"`
	LastIP     string      `json:"lastIp"`
	APMAC      string      `json:"apMac"`
	APMACSnake string      `json:"ap_mac"`
	APMACAddr  string      `json:"ap_macaddr"`
	SSID       string      `json:"ssid"`
	ESSID      string      `json:"essid"`
	WLAN       string      `json:"wlan"`
	Bytes      json.Number `json:"bytes"`
	RxBytes    int64       `json:"rxBytes"`
	RxBytesAlt int64       `json:"rx_bytes"`
	TxBytes    int64       `json:"txBytes"`
	TxBytesAlt int64       `json:"tx_bytes"`
}

func (c *WirelessClient) ResolvedMAC() string {
	if c.MAC != "" {
		return c.MAC
	}
	return c.MACAddress
}

func (c *WirelessClient) ResolvedIP() string {
	if c.IP != "" {
		return c.IP
	}
	if c.IPAddress != "" {
		return c.IPAddress
	}
	return c.LastIP
}

func (c *WirelessClient) ResolvedAPMAC() string {
	if c.APMAC != "" {
		return c.APMAC
	}
	if c.APMACSnake != "" {
		return c.APMACSnake
	}
	return c.APMACAddr
}

func (c *WirelessClient) ResolvedSSID() string {
	if c.SSID != "" {
		return c.SSID
	}
	if c.ESSID != "" {
		return c.ESSID
	}
	return c.WLAN
}

// BandwidthBytes prefers the rx+tx sum when it is positive; otherwise the
// raw bytes counter is used if it parses to a positive value.
func (c *WirelessClient) BandwidthBytes() int64 {
	rx := c.RxBytes
	if rx == 0 {
		rx = c.RxBytesAlt
	}
	tx := c.TxBytes
	if tx == 0 {
		tx = c.TxBytesAlt
	}
	if total := rx + tx; total > 0 {
		return total
	}
	if c.Bytes != "" {
		if v, err := c.Bytes.Int64(); err == nil && v > 0 {
			return v
		}
		if f, err := c.Bytes.Float64(); err == nil && f > 0 {
			return int64(f)
		}
	}
	return 0
}

// AccessPoint is one entry of the upstream AP inventory. Keyed by MAC with
// the controller-internal id as fallback.
type AccessPoint struct {
	ID       string `json:"id"`
	MAC      string `json:"mac"`
	Name     string `json:"name"`
	Hostname string `json:"hostname"`
	Model    string `json:"model"`
}

func (a *AccessPoint) Key() string {
	if a.MAC != "" {
		return a.MAC
	}
	return a.ID
}

// DisplayName picks name, hostname or model, in that order. May be empty.
func (a *AccessPoint) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Hostname != "" {
		return a.Hostname
	}
	return a.Model
}

// PortalConfig is the controller portal configuration; only the site id is
// consumed here.
type PortalConfig struct {
	Config struct {
		SiteID string `json:"siteId"`
	} `json:"config"`
}
