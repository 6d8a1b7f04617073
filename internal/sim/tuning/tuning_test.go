package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaults_Validate(t *testing.T) {
	d := Defaults()
	if err := d.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if got, want := d.Dt, 1.0/60; got != want {
		t.Fatalf("dt=%v want %v", got, want)
	}
	empty, err := Load("")
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if empty != d {
		t.Fatalf("empty path should give defaults: %+v", empty)
	}
}

func TestLoad_RepoConfigs(t *testing.T) {
	y, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if y != Defaults() {
		t.Fatalf("configs/tuning.yaml drifted from Defaults: %+v", y)
	}
	tm, err := Load("../../../configs/tuning.toml")
	if err != nil {
		t.Fatalf("load toml: %v", err)
	}
	if tm.SpatialIndex != "rtree" || tm.World.AgentCount != 2000 || tm.Workers != 4 {
		t.Fatalf("toml tuning: %+v", tm)
	}
}

func TestLoad_YAMLAndTOMLAgree(t *testing.T) {
	yp := writeFile(t, "t.yaml", `
agent:
  neighbor_distance: 2.5
  max_speed: 8
world:
  half_extents: [10, 4, 10]
  agent_count: 50
  seed: 99
tick_rate_hz: 20
update_model: single_pass
`)
	tp := writeFile(t, "t.toml", `
tick_rate_hz = 20
update_model = "single_pass"

[agent]
neighbor_distance = 2.5
max_speed = 8.0

[world]
half_extents = [10.0, 4.0, 10.0]
agent_count = 50
seed = 99
`)
	y, err := Load(yp)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	tm, err := Load(tp)
	if err != nil {
		t.Fatalf("toml: %v", err)
	}
	if y != tm {
		t.Fatalf("yaml/toml mismatch:\n%+v\n%+v", y, tm)
	}
	if y.Dt != 0.05 {
		t.Fatalf("dt should follow tick_rate_hz, got %v", y.Dt)
	}
	if y.Agent.NeighborFov != 90 || y.Agent.MinSpeed != 2 {
		t.Fatalf("unset agent fields should keep defaults: %+v", y.Agent)
	}
	if y.World.SpawnFill != 0.8 {
		t.Fatalf("spawn fill=%v", y.World.SpawnFill)
	}
}

func TestLoad_SchemaRejects(t *testing.T) {
	cases := map[string]string{
		"unknown.yaml":  "agent:\n  neighbour_distance: 2\n",
		"fov.yaml":      "agent:\n  neighbor_fov: 200\n",
		"model.yaml":    "update_model: leapfrog\n",
		"extents.yaml":  "world:\n  half_extents: [1, 2]\n",
		"unknown.toml":  "tick_rate = 30\n",
		"wall.toml":     "[agent]\nwall_distance = 0.0\n",
		"negative.toml": "[world]\nagent_count = -3\n",
	}
	for name, body := range cases {
		_, err := Load(writeFile(t, name, body))
		if err == nil {
			t.Fatalf("%s: expected schema error", name)
		}
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("%s: error should name the file: %v", name, err)
		}
	}
}

func TestLoad_ValidateRejectsMinAboveMax(t *testing.T) {
	_, err := Load(writeFile(t, "speeds.yaml", "agent:\n  min_speed: 6\n  max_speed: 3\n"))
	if err == nil || !strings.Contains(err.Error(), "agent.min_speed") {
		t.Fatalf("expected min/max speed error, got %v", err)
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	if _, err := Load(writeFile(t, "t.json", "{}")); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNewSimulator(t *testing.T) {
	tu := Defaults()
	tu.World.AgentCount = 25
	tu.SpatialIndex = "rtree"
	sim, err := tu.NewSimulator()
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}
	if got := len(sim.Agents()); got != 25 {
		t.Fatalf("agents=%d", got)
	}
	if cfg := sim.Config(); string(cfg.Index) != "rtree" || cfg.Dt != tu.Dt || cfg.TickRateHz != 60 {
		t.Fatalf("config=%+v", cfg)
	}
	first := sim.Agents()[0].Params()
	for _, a := range sim.Agents() {
		if a.Params() != first {
			t.Fatalf("agents should share one params value")
		}
	}
	tu.Agent.MaxSpeed = 100
	if first.MaxSpeed == 100 {
		t.Fatalf("simulator params alias the tuning value")
	}
}
