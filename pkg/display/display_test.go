package display

import (
	"strings"
	"testing"
	"time"

	"github.com/teslashibe/air-magic/pkg/transfer"
)

func TestProjectEmpty(t *testing.T) {
	r := Project(nil)
	if !r.Empty || r.EmptyText != EmptyText {
		t.Errorf("Expected empty receiver, got %+v", r)
	}
	if r.Cards == nil || len(r.Cards) != 0 {
		t.Error("Expected non-nil empty cards so JSON renders []")
	}
}

func TestProjectCards(t *testing.T) {
	records := []transfer.Record{
		{ID: "b", TimeLabel: "10:00:02", Image: []byte{1, 2, 3}, Status: transfer.Transferring},
		{ID: "a", TimeLabel: "10:00:01", Image: []byte{4}, Status: transfer.Received},
	}
	r := Project(records)

	if r.Empty || r.EmptyText != "" {
		t.Errorf("Expected non-empty receiver, got %+v", r)
	}
	if len(r.Cards) != 2 || r.Cards[0].ID != "b" || r.Cards[1].ID != "a" {
		t.Fatalf("Expected cards in record order, got %+v", r.Cards)
	}
	if r.Cards[0].Badge.Label != "TRANSFERRING" || r.Cards[0].Badge.Color != Orange {
		t.Errorf("Unexpected badge: %+v", r.Cards[0].Badge)
	}
	if r.Cards[1].Badge.Label != "RECEIVED" || r.Cards[1].Badge.Color != Green {
		t.Errorf("Unexpected badge: %+v", r.Cards[1].Badge)
	}
	if r.Cards[0].Thumbnail != "data:image/png;base64,AQID" {
		t.Errorf("Unexpected thumbnail: %s", r.Cards[0].Thumbnail)
	}
	if r.Cards[0].TimeLabel != "10:00:02" {
		t.Errorf("Unexpected time label: %s", r.Cards[0].TimeLabel)
	}
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		status transfer.Status
		label  string
		class  string
	}{
		{transfer.Received, "RECEIVED", "text-green-600"},
		{transfer.Transferring, "TRANSFERRING", "text-orange-600"},
		{transfer.Status("captured"), "UNKNOWN", "text-slate-900"},
	}
	for _, tt := range tests {
		b := BadgeFor(tt.status)
		if b.Label != tt.label || b.Class != tt.class {
			t.Errorf("BadgeFor(%s) = %+v", tt.status, b)
		}
	}
}

func TestColorClass(t *testing.T) {
	tests := map[string]string{
		Blue:     "text-blue-600",
		Green:    "text-green-600",
		Orange:   "text-orange-600",
		Red:      "text-red-600",
		"purple": "text-slate-900",
		"":       "text-slate-900",
	}
	for color, want := range tests {
		if got := ColorClass(color); got != want {
			t.Errorf("ColorClass(%q) = %s, want %s", color, got, want)
		}
	}
}

func TestStatCards(t *testing.T) {
	cards := StatCards(12)
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}
	if cards[0].Label != "Packets Rcvd" || cards[0].Value != "12" || cards[0].Color != Blue {
		t.Errorf("Unexpected packets card: %+v", cards[0])
	}
	if cards[1].Label != "Network State" || cards[1].Value != "Stable" || cards[1].Class != "text-green-600" {
		t.Errorf("Unexpected network card: %+v", cards[1])
	}
}

func TestSourcePanel(t *testing.T) {
	off := SourcePanel(false, false)
	if off.Online || off.Label != OfflineText || off.Indicator != "" {
		t.Errorf("Unexpected offline panel: %+v", off)
	}
	on := SourcePanel(true, true)
	if !on.Online || on.Label != LiveText || on.Indicator != ProcessingText {
		t.Errorf("Unexpected live panel: %+v", on)
	}
}

func TestLogs(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 8, 7, 0, time.Local)

	idle := Logs(false, nil, now)
	if len(idle) != 2 {
		t.Fatalf("Expected 2 boot lines, got %d", len(idle))
	}
	if idle[0].Time != "09:08:07" || idle[0].Success {
		t.Errorf("Unexpected boot line: %+v", idle[0])
	}

	records := []transfer.Record{{ID: "abc", TimeLabel: "09:00:00"}}
	active := Logs(true, records, now)
	if len(active) != 4 {
		t.Fatalf("Expected 4 lines, got %d", len(active))
	}
	if !strings.Contains(active[2].Message, "Monitoring") {
		t.Errorf("Expected monitoring line, got %q", active[2].Message)
	}
	last := active[3]
	if last.Message != "Event: Gesture detected. Capture ID abc sent." || !last.Success || last.Time != "09:00:00" {
		t.Errorf("Unexpected capture line: %+v", last)
	}
}

func TestStatusBanner(t *testing.T) {
	if b := StatusBanner("Gesture Detected!", "success"); b.Color != Green {
		t.Errorf("Expected green, got %s", b.Color)
	}
	if b := StatusBanner("Error: x", "error"); b.Color != Red {
		t.Errorf("Expected red, got %s", b.Color)
	}
	if b := StatusBanner("Ready", "info"); b.Color != Blue || b.Text != "Ready" {
		t.Errorf("Unexpected banner: %+v", b)
	}
}
