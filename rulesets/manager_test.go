package rulesets

import (
	"testing"
	"time"

	"github.com/ruleflow/ruleflow/rules"
)

func TestManagerCreateAssignsID(t *testing.T) {
	m := NewManager(NewInMemoryRuleSetStore())

	rs := validRuleSet()
	rs.ID = ""
	if err := m.Create(rs); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if rs.ID == "" {
		t.Fatal("Create() should assign an ID when none is supplied")
	}

	retrieved, err := m.Get(rs.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if retrieved.Name != rs.Name {
		t.Errorf("Name = %s, want %s", retrieved.Name, rs.Name)
	}
}

func TestManagerCreateRejectsInvalid(t *testing.T) {
	m := NewManager(NewInMemoryRuleSetStore())

	rs := validRuleSet()
	rs.Fields = nil
	if err := m.Create(rs); err == nil {
		t.Fatal("Create() should reject an invalid rule set")
	}

	// Nothing should have been stored.
	all, err := m.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("List() returned %d rule sets, want 0", len(all))
	}
}

func TestManagerListUsesCache(t *testing.T) {
	store := NewInMemoryRuleSetStore()
	m := NewManager(store)

	if err := m.Create(validRuleSet()); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	if _, err := m.List(); err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if !m.cache.IsValid() {
		t.Fatal("cache should be warm after List()")
	}

	// Mutations invalidate the cache.
	second := validRuleSet()
	second.ID = "rs-2"
	if err := m.Create(second); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if m.cache.IsValid() {
		t.Fatal("cache should be invalidated by Create()")
	}

	all, err := m.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() returned %d rule sets, want 2", len(all))
	}
}

func TestManagerUpdateAndDelete(t *testing.T) {
	m := NewManager(NewInMemoryRuleSetStore())

	rs := validRuleSet()
	if err := m.Create(rs); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	rs.Description = "updated"
	if err := m.Update(rs); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	bad := validRuleSet()
	bad.Rules[0].Outcome = ""
	if err := m.Update(bad); err == nil {
		t.Fatal("Update() should reject an invalid rule set")
	}

	if err := m.Delete(rs.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := m.Get(rs.ID); err == nil {
		t.Fatal("Get() after Delete() should return error")
	}
}

func TestManagerEvaluate(t *testing.T) {
	at, _ := time.Parse(time.RFC3339, "2025-06-15T12:00:00Z")
	m := NewManagerWithEngine(NewInMemoryRuleSetStore(),
		rules.NewEngineAt(func() time.Time { return at }))

	rs := validRuleSet()
	if err := m.Create(rs); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	result, err := m.Evaluate(rs.ID, rules.Record{
		"ticketPrice": rules.Number(100),
		"age":         rules.Number(25),
	})
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if !result.IsValid || result.Outcome != "Front Rows" {
		t.Errorf("result = %+v, want Front Rows match", result)
	}

	if _, err := m.Evaluate("missing", rules.Record{}); err == nil {
		t.Fatal("Evaluate() of missing rule set should return error")
	}
}
