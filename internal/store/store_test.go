package store

import (
	"reflect"
	"testing"
)

func TestObjectSetCreateDeleteRoundTrip(t *testing.T) {
	s := NewObjectSet()
	if err := s.Create("photo"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !s.Has("photo") {
		t.Fatal("expected photo to be present")
	}
	s.Delete("photo")
	if s.Has("photo") {
		t.Fatal("expected photo to be removed")
	}
	if got := s.Names(); len(got) != 0 {
		t.Errorf("Names() = %v, want empty", got)
	}
}

func TestObjectSetDuplicateCreateIsNoop(t *testing.T) {
	s := NewObjectSet()
	if err := s.Create("photo"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Create("photo"); err != nil {
		t.Fatalf("second Create returned error, want no-op success: %v", err)
	}
	if got := s.Names(); !reflect.DeepEqual(got, []string{"photo"}) {
		t.Errorf("Names() = %v, want [photo]", got)
	}
}

func TestObjectSetRejectsInvalidName(t *testing.T) {
	s := NewObjectSet()
	if err := s.Create("bad name"); err == nil {
		t.Error("expected error creating name containing whitespace")
	}
}

func TestCacheFIFOEviction(t *testing.T) {
	c := NewCache(2)
	if _, evicted := c.Insert("a"); evicted {
		t.Fatal("unexpected eviction on first insert")
	}
	if _, evicted := c.Insert("b"); evicted {
		t.Fatal("unexpected eviction on second insert")
	}
	evictedName, evicted := c.Insert("c")
	if !evicted || evictedName != "a" {
		t.Errorf("Insert(c) evicted=%v name=%q, want true, \"a\"", evicted, evictedName)
	}
	if c.Has("a") {
		t.Error("a should have been evicted")
	}
	if !c.Has("b") || !c.Has("c") {
		t.Error("b and c should remain cached")
	}
	if got := c.Names(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Names() = %v, want [b c]", got)
	}
}

func TestCacheDuplicateInsertIsNoop(t *testing.T) {
	c := NewCache(2)
	c.Insert("a")
	if _, evicted := c.Insert("a"); evicted {
		t.Error("duplicate insert should not evict")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheCapacityBoundary(t *testing.T) {
	c := NewCache(3)
	c.Insert("a")
	c.Insert("b")
	c.Insert("c")
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	_, evicted := c.Insert("d")
	if !evicted {
		t.Fatal("expected eviction once at capacity")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after eviction", c.Len())
	}
}
