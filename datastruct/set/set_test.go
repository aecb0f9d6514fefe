package set

import (
	"sort"
	"testing"
)

func TestSetAddRemove(t *testing.T) {
	s := Make("a", "b", "a")
	if s.Len() != 2 {
		t.Errorf("expected 2 members, got %d", s.Len())
	}
	if s.Add("a") != 0 {
		t.Error("adding an existing member should return 0")
	}
	if s.Add("c") != 1 {
		t.Error("adding a new member should return 1")
	}
	if !s.Has("c") {
		t.Error("c should exist")
	}
	if s.Remove("c") != 1 {
		t.Error("removing an existing member should return 1")
	}
	if s.Remove("c") != 0 {
		t.Error("removing a missing member should return 0")
	}
	if s.Has("c") {
		t.Error("c should be gone")
	}
}

func TestSetToSlice(t *testing.T) {
	s := Make("b", "a", "c")
	slice := s.ToSlice()
	sort.Strings(slice)
	if len(slice) != 3 || slice[0] != "a" || slice[2] != "c" {
		t.Errorf("unexpected slice: %v", slice)
	}
}

func TestSetForEach(t *testing.T) {
	s := Make("a", "b", "c")
	visited := 0
	s.ForEach(func(member string) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("ForEach should stop when the consumer returns false, visited %d", visited)
	}
}

func TestNilSet(t *testing.T) {
	var s *Set
	if s.Has("a") || s.Len() != 0 {
		t.Error("nil set should behave as empty")
	}
	s.ForEach(func(string) bool { return true })
}
