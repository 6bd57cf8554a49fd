package views

import (
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/air-magic/internal/log"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want View
	}{
		{"overview", Overview},
		{"simulation", Simulation},
		{"tech", Tech},
		{"team", Team},
		{" TEAM ", Team},
		{"", Overview},
		{"settings", Overview},
	}
	for _, tt := range tests {
		if got := Parse(tt.in); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("tech") || Valid("settings") || Valid("") {
		t.Error("Unexpected Valid results")
	}
}

func TestContentFallsBackToOverview(t *testing.T) {
	p := Content("nope")
	if p.Name != Overview {
		t.Errorf("Expected overview, got %s", p.Name)
	}
	oc, ok := p.Content.(OverviewContent)
	if !ok {
		t.Fatalf("Expected OverviewContent, got %T", p.Content)
	}
	if len(oc.Features) != 5 || len(oc.Advantages) != 5 || len(oc.Workflow) != 4 {
		t.Errorf("Unexpected overview content sizes: %d/%d/%d", len(oc.Features), len(oc.Advantages), len(oc.Workflow))
	}
}

func TestContentPerView(t *testing.T) {
	if _, ok := Content("tech").Content.(TechContent); !ok {
		t.Error("Expected TechContent")
	}
	team, ok := Content("team").Content.(TeamContent)
	if !ok {
		t.Fatal("Expected TeamContent")
	}
	if len(team.Members) != 3 || len(team.Mentors) != 3 {
		t.Errorf("Unexpected team: %+v", team)
	}
	if _, ok := Content("simulation").Content.(SimulationContent); !ok {
		t.Error("Expected SimulationContent")
	}
}

func TestPageLayout(t *testing.T) {
	l := PageLayout()
	if l.College != "Narayana Engineering College" || l.Badge != "BATCH NO: 17" {
		t.Errorf("Unexpected layout header: %+v", l)
	}
	if len(l.Nav) != 4 || l.Nav[1].Label != "Live Interaction" {
		t.Errorf("Unexpected nav: %+v", l.Nav)
	}
}

func TestRouterSelect(t *testing.T) {
	r := NewRouter(log.Discard())
	if r.Current() != Overview {
		t.Fatalf("Expected overview start, got %s", r.Current())
	}

	var entered, left int
	r.OnEnter(Simulation, func() { entered++ })
	r.OnLeave(Simulation, func() { left++ })

	if v := r.Select("simulation"); v != Simulation {
		t.Errorf("Expected simulation, got %s", v)
	}
	r.Select("simulation")
	if entered != 1 || left != 0 {
		t.Errorf("Reselecting must not rerun hooks: entered=%d left=%d", entered, left)
	}

	if v := r.Select("bogus"); v != Overview {
		t.Errorf("Expected fallback to overview, got %s", v)
	}
	if left != 1 {
		t.Errorf("Expected leave hook once, got %d", left)
	}
}

func TestRouterHooksFollowSwitchOrder(t *testing.T) {
	r := NewRouter(log.Discard())

	var mu sync.Mutex
	var events []string
	record := func(ev string) func() {
		return func() {
			time.Sleep(time.Millisecond)
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		}
	}
	r.OnEnter(Simulation, record("enter"))
	r.OnLeave(Simulation, record("leave"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Select("simulation")
		}()
		go func() {
			defer wg.Done()
			r.Select("overview")
		}()
	}
	wg.Wait()

	for i, ev := range events {
		want := "enter"
		if i%2 == 1 {
			want = "leave"
		}
		if ev != want {
			t.Fatalf("Hook %d = %s, want %s (events %v)", i, ev, want, events)
		}
	}
	if last := len(events) % 2; (last == 1) != (r.Current() == Simulation) {
		t.Errorf("Hooks disagree with current view %s: %v", r.Current(), events)
	}
}
