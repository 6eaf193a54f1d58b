package server

import (
	"regexp"
	"strconv"
	"testing"
)

func TestMatcherCache_GetMiss(t *testing.T) {
	c := newMatcherCache(4)
	if got := c.Get("absent"); got != nil {
		t.Errorf("Get on empty cache = %v, want nil", got)
	}
}

func TestMatcherCache_SetGet(t *testing.T) {
	c := newMatcherCache(4)
	re := regexp.MustCompile("hello")
	c.Set("k", re)

	if got := c.Get("k"); got != re {
		t.Errorf("Get returned %v, want the stored matcher", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestMatcherCache_EvictsOldest(t *testing.T) {
	c := newMatcherCache(2)
	c.Set("a", regexp.MustCompile("a"))
	c.Set("b", regexp.MustCompile("b"))

	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Set("c", regexp.MustCompile("c"))

	if c.Get("b") != nil {
		t.Error("expected b to be evicted")
	}
	if c.Get("a") == nil {
		t.Error("expected a to survive eviction")
	}
	if c.Get("c") == nil {
		t.Error("expected c to be present")
	}
}

func TestMatcherCache_Clear(t *testing.T) {
	c := newMatcherCache(4)
	c.Set("a", regexp.MustCompile("a"))
	c.Set("b", regexp.MustCompile("b"))

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	if c.Get("a") != nil {
		t.Error("Get after Clear should return nil")
	}
}

func TestMatcherCache_SetOverwrites(t *testing.T) {
	c := newMatcherCache(4)
	c.Set("k", regexp.MustCompile("old"))
	newRe := regexp.MustCompile("new")
	c.Set("k", newRe)

	if got := c.Get("k"); got != newRe {
		t.Errorf("Get returned %v, want the overwritten matcher", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestMatcherCache_DefaultSize(t *testing.T) {
	c := newMatcherCache(0)
	for i := range 200 {
		c.Set(strconv.Itoa(i), regexp.MustCompile("x"))
	}
	if c.Len() != 128 {
		t.Errorf("Len = %d, want default capacity 128", c.Len())
	}
}
