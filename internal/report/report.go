// Package report summarizes a message store per device and renders the
// summary as JSON or PDF.
package report

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"example.com/sbdgate/internal/storage"
)

// DeviceSummary aggregates the stored traffic of one IMEI.
type DeviceSummary struct {
	IMEI          string    `json:"imei"`
	Messages      int       `json:"messages"`
	PayloadBytes  int       `json:"payloadBytes"`
	LocationFixes int       `json:"locationFixes"`
	FirstSession  time.Time `json:"firstSession"`
	LastSession   time.Time `json:"lastSession"`
}

// DeliveryReport is the full summary across every device in a store.
type DeliveryReport struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Messages    int             `json:"messages"`
	Devices     []DeviceSummary `json:"devices"`
}

// Build reads every message from the store and aggregates per device. Devices
// are ordered by IMEI. When the store reports undecodable entries alongside
// the messages it could read, the report covers the readable ones and the
// error is passed through.
func Build(store storage.Storage) (DeliveryReport, error) {
	messages, err := store.Messages()
	byIMEI := make(map[string]*DeviceSummary)
	for _, m := range messages {
		imei := m.IMEI()
		summary, ok := byIMEI[imei]
		if !ok {
			summary = &DeviceSummary{IMEI: imei}
			byIMEI[imei] = summary
		}
		at := m.Header().TimeOfSession
		if summary.Messages == 0 || at.Before(summary.FirstSession) {
			summary.FirstSession = at
		}
		if at.After(summary.LastSession) {
			summary.LastSession = at
		}
		summary.Messages++
		summary.PayloadBytes += len(m.Payload())
		if _, ok, err := m.Location(); err == nil && ok {
			summary.LocationFixes++
		}
	}
	rep := DeliveryReport{
		GeneratedAt: time.Now().UTC(),
		Messages:    len(messages),
		Devices:     make([]DeviceSummary, 0, len(byIMEI)),
	}
	for _, summary := range byIMEI {
		rep.Devices = append(rep.Devices, *summary)
	}
	sort.Slice(rep.Devices, func(i, j int) bool {
		return rep.Devices[i].IMEI < rep.Devices[j].IMEI
	})
	return rep, err
}

func SaveDeliveryJSON(rep DeliveryReport, out string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadDeliveryJSON(path string) (DeliveryReport, error) {
	var rep DeliveryReport
	b, err := os.ReadFile(path)
	if err != nil {
		return rep, err
	}
	err = json.Unmarshal(b, &rep)
	return rep, err
}
