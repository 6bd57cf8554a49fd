// Package display projects session records and state into the view models
// rendered by the dashboard: receiver cards, stat cards, source panel and
// system logs.
package display

import (
	"strconv"
	"time"

	"github.com/teslashibe/air-magic/pkg/raster"
	"github.com/teslashibe/air-magic/pkg/transfer"
)

// Fixed labels.
const (
	EmptyText       = "Waiting for incoming data packets..."
	OfflineText     = "Source Node Offline"
	LiveText        = "LIVE FEED"
	ProcessingText  = "Perception Engine Active"
	ReceiverTitle   = "Receiver Desktop View"
	ReceiverOnline  = "Online"
	thumbnailMIME   = "image/png"
	badgeReceived   = "RECEIVED"
	badgeInTransfer = "TRANSFERRING"
	badgeUnknown    = "UNKNOWN"
)

// Color names understood by ColorClass.
const (
	Blue   = "blue"
	Green  = "green"
	Orange = "orange"
	Red    = "red"
	Slate  = "slate"
)

// ColorClass maps a color name to its text style class. Unknown names fall
// back to slate.
func ColorClass(color string) string {
	switch color {
	case Blue:
		return "text-blue-600"
	case Green:
		return "text-green-600"
	case Orange:
		return "text-orange-600"
	case Red:
		return "text-red-600"
	default:
		return "text-slate-900"
	}
}

// Badge is the status pill of a card.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Class string `json:"class"`
}

// BadgeFor maps a record status to its badge.
func BadgeFor(s transfer.Status) Badge {
	var b Badge
	switch s {
	case transfer.Received:
		b = Badge{Label: badgeReceived, Color: Green}
	case transfer.Transferring:
		b = Badge{Label: badgeInTransfer, Color: Orange}
	default:
		b = Badge{Label: badgeUnknown, Color: Slate}
	}
	b.Class = ColorClass(b.Color)
	return b
}

// Card is one received capture.
type Card struct {
	ID        string `json:"id"`
	TimeLabel string `json:"time_label"`
	Thumbnail string `json:"thumbnail"`
	Status    string `json:"status"`
	Badge     Badge  `json:"badge"`
}

// Receiver is the receiver panel.
type Receiver struct {
	Title     string `json:"title"`
	Online    string `json:"online"`
	Cards     []Card `json:"cards"`
	Empty     bool   `json:"empty"`
	EmptyText string `json:"empty_text,omitempty"`
}

// Project renders records in the order given, newest first as stored.
func Project(records []transfer.Record) Receiver {
	r := Receiver{
		Title:  ReceiverTitle,
		Online: ReceiverOnline,
		Cards:  make([]Card, 0, len(records)),
		Empty:  len(records) == 0,
	}
	if r.Empty {
		r.EmptyText = EmptyText
	}
	for _, rec := range records {
		r.Cards = append(r.Cards, Card{
			ID:        rec.ID,
			TimeLabel: rec.TimeLabel,
			Thumbnail: raster.DataURL(thumbnailMIME, rec.Image),
			Status:    rec.Status.String(),
			Badge:     BadgeFor(rec.Status),
		})
	}
	return r
}

// StatCard is a labelled figure below the receiver.
type StatCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
	Class string `json:"class"`
}

func newStatCard(label, value, color string) StatCard {
	return StatCard{Label: label, Value: value, Color: color, Class: ColorClass(color)}
}

// StatCards returns the packet counter and network state cards.
func StatCards(received int) []StatCard {
	return []StatCard{
		newStatCard("Packets Rcvd", strconv.Itoa(received), Blue),
		newStatCard("Network State", "Stable", Green),
	}
}

// Source describes the camera panel.
type Source struct {
	Online     bool   `json:"online"`
	Label      string `json:"label"`
	Processing bool   `json:"processing"`
	Indicator  string `json:"indicator,omitempty"`
}

// SourcePanel renders the camera panel for the given flags.
func SourcePanel(active, processing bool) Source {
	s := Source{Online: active, Label: OfflineText, Processing: processing}
	if active {
		s.Label = LiveText
	}
	if processing {
		s.Indicator = ProcessingText
	}
	return s
}

// LogLine is one entry of the system log panel.
type LogLine struct {
	Time    string `json:"time"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Logs renders the system log: two boot lines, a monitoring line while the
// camera is active and one success line per record.
func Logs(cameraActive bool, records []transfer.Record, now time.Time) []LogLine {
	stamp := now.Format(transfer.TimeLayout)
	lines := []LogLine{
		{Time: stamp, Message: "System core initialized."},
		{Time: stamp, Message: "HTTP Handshake with Node Receiver successful."},
	}
	if cameraActive {
		lines = append(lines, LogLine{Time: stamp, Message: "Perception module: Monitoring spatial configurations."})
	}
	for _, rec := range records {
		lines = append(lines, LogLine{
			Time:    rec.TimeLabel,
			Message: "Event: Gesture detected. Capture ID " + rec.ID + " sent.",
			Success: true,
		})
	}
	return lines
}

// Banner is the status message box under the camera panel.
type Banner struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// StatusBanner colours a status message by its tone: green for success,
// red for errors and blue otherwise.
func StatusBanner(message, tone string) Banner {
	switch tone {
	case "success":
		return Banner{Text: message, Color: Green}
	case "error":
		return Banner{Text: message, Color: Red}
	default:
		return Banner{Text: message, Color: Blue}
	}
}
