package infra_test

import (
	"strings"
	"testing"

	"voxassist/internal/infra"
)

func TestCombineItems_CapsAndFilters(t *testing.T) {
	long := strings.Repeat("content that is clearly long enough to keep ", 3)

	var items []infra.SearchItem
	for _, url := range []string{"u1", "u2", "u3", "u4", "u5", "u6"} {
		items = append(items, infra.SearchItem{Title: "t " + url, URL: url, Content: long})
	}

	combined, kept := infra.CombineItems(items)
	if kept != infra.MaxSearchItems {
		t.Errorf("kept: got %d, want %d", kept, infra.MaxSearchItems)
	}
	if strings.Contains(combined, "u5") || strings.Contains(combined, "u6") {
		t.Errorf("items past the cap should be dropped:\n%s", combined)
	}
}

func TestCombineItems_TitleAndURLPrefix(t *testing.T) {
	long := strings.Repeat("a perfectly reasonable amount of content here ", 2)

	combined, kept := infra.CombineItems([]infra.SearchItem{
		{Title: "A headline", URL: "https://a.example", Content: long},
		{URL: "https://b.example", Content: long},
	})

	if kept != 2 {
		t.Fatalf("kept: got %d, want 2", kept)
	}
	if !strings.Contains(combined, "A headline (https://a.example)") {
		t.Errorf("titled item should show title and URL:\n%s", combined)
	}
	if !strings.Contains(combined, "https://b.example\n") {
		t.Errorf("untitled item should fall back to the bare URL:\n%s", combined)
	}
}

func TestCombineItems_Empty(t *testing.T) {
	combined, kept := infra.CombineItems([]infra.SearchItem{
		{URL: "https://a.example", Content: "tiny"},
	})
	if kept != 0 || combined != "" {
		t.Errorf("got kept=%d combined=%q, want nothing", kept, combined)
	}
}
