package clients

import (
	"context"
	"log"
	"strings"

	"github.com/renanmoutaa/Portal-Cativo/models"
)

// enrich runs the device-inventory and AP-location passes over the drafts.
// The two fetches are independent; each failure skips only its own pass.
func (s *Service) enrich(ctx context.Context, views []*models.ConnectedClient, controllerID int, siteID string) {
	inventory, err := s.controller.Clients(ctx, controllerID, siteID)
	if err != nil {
		log.Printf("Device inventory unavailable for controller %d: %v", controllerID, err)
	} else {
		applyInventory(views, inventory)
	}

	aps, err := s.controller.AccessPoints(ctx, controllerID, siteID)
	if err != nil {
		log.Printf("AP inventory unavailable for controller %d: %v", controllerID, err)
	} else {
		resolveLocations(views, aps)
	}
}

// applyInventory joins live controller data into the drafts by lowercased
// MAC. Local data is authoritative unless it is empty or a loopback
// placeholder, so a flaky upstream never corrupts known fields.
func applyInventory(views []*models.ConnectedClient, inventory []models.WirelessClient) {
	index := make(map[string]*models.WirelessClient, len(inventory))
	for i := range inventory {
		mac := strings.ToLower(inventory[i].ResolvedMAC())
		if mac == "" {
			continue
		}
		index[mac] = &inventory[i]
	}

	for _, view := range views {
		mac := strings.ToLower(deref(view.MAC))
		if mac == "" {
			continue
		}
		live, ok := index[mac]
		if !ok {
			continue
		}

		if isPlaceholderIP(deref(view.IP)) {
			if ip := live.ResolvedIP(); ip != "" {
				view.IP = &ip
			}
		}
		if deref(view.APMAC) == "" {
			if apMac := live.ResolvedAPMAC(); apMac != "" {
				view.APMAC = &apMac
			}
		}
		if deref(view.SSID) == "" {
			if ssid := live.ResolvedSSID(); ssid != "" {
				view.SSID = &ssid
			}
		}
		if bandwidth := live.BandwidthBytes(); bandwidth > 0 {
			view.BandwidthBytes = bandwidth
		}
	}
}

// resolveLocations maps each draft's apMac to an AP display name, keeping
// the raw MAC visible when the AP is not in the inventory. Drafts without
// an apMac keep a null location.
func resolveLocations(views []*models.ConnectedClient, aps []models.AccessPoint) {
	names := make(map[string]string, len(aps))
	for i := range aps {
		key := strings.ToLower(aps[i].Key())
		if key == "" {
			continue
		}
		names[key] = aps[i].DisplayName()
	}

	for _, view := range views {
		apMac := deref(view.APMAC)
		if apMac == "" {
			continue
		}
		location := names[strings.ToLower(apMac)]
		if location == "" {
			location = "AP " + apMac
		}
		view.Location = &location
	}
}

func isPlaceholderIP(ip string) bool {
	switch strings.TrimSpace(ip) {
	case "", "127.0.0.1", "::1", "localhost", "0.0.0.0":
		return true
	}
	return false
}
