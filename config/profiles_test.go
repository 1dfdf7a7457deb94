package config

import (
	"testing"
)

func TestLoadAllCreatesDefaultProfile(t *testing.T) {
	store := NewProfileStore(t.TempDir())

	profiles, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	def, ok := profiles["default"]
	if !ok {
		t.Fatal("LoadAll() did not create a default profile")
	}
	if def.Temperature != DefaultTemperature {
		t.Errorf("default temperature = %v, want %v", def.Temperature, DefaultTemperature)
	}
	if def.APIKey != "" || def.BaseURL != "" || def.Model != "" {
		t.Errorf("default profile should have empty connection settings, got %+v", def)
	}

	// A second load must read the file written by the first, not reseed
	profiles2, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() second call error = %v", err)
	}
	if len(profiles2) != len(profiles) {
		t.Errorf("second LoadAll() returned %d profiles, want %d", len(profiles2), len(profiles))
	}
}

func TestUpsertLastWriteWins(t *testing.T) {
	store := NewProfileStore(t.TempDir())

	if err := store.Upsert("default", Profile{Temperature: 0.3, Model: "gpt-4o-mini"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Upsert("default", Profile{Temperature: 0.9, Model: "gpt-4o-mini"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	profiles, err := store.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if got := profiles["default"].Temperature; got != 0.9 {
		t.Errorf("temperature after two saves = %v, want 0.9", got)
	}
}

func TestDeleteProfile(t *testing.T) {
	store := NewProfileStore(t.TempDir())

	if err := store.Upsert("work", Profile{BaseURL: "https://api.example.com/v1"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Delete("work"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, ok, err := store.Get("work")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("profile still present after Delete()")
	}
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if got := LoadState(dir).LastProfile; got != "" {
		t.Errorf("LoadState() on empty dir = %q, want empty", got)
	}

	if err := SaveState(dir, &State{LastProfile: "work"}); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}
	if got := LoadState(dir).LastProfile; got != "work" {
		t.Errorf("LastProfile = %q, want %q", got, "work")
	}
}
