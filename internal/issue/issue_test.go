// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

// allIds lists every catalog id in declaration order.
var allIds = []Id{
	FileNotFoundId,
	UnsupportedFormatId,
	ModelParseErrorId,
	FileTooLargeId,
	FeatureNotFoundId,
	ConfigLoadFailedId,
	InvalidFormatId,
	RequiresCycleId,
	ConstraintConflictId,
	PermissionDeniedId,
	WatchFailedId,
}

func TestId_Constants(t *testing.T) {
	seen := make(map[Id]bool)
	for _, id := range allIds {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}
	if FileNotFoundId != 1 {
		t.Errorf("FileNotFoundId = %d, want 1", FileNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{FileNotFoundId, false, "Model file not found"},
		{UnsupportedFormatId, false, "Unsupported model format"},
		{ModelParseErrorId, false, "Failed to parse feature model"},
		{FileTooLargeId, false, "too large"},
		{FeatureNotFoundId, false, "Feature not found"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{InvalidFormatId, false, "Invalid format name"},
		{RequiresCycleId, false, "Requires cycle"},
		{ConstraintConflictId, false, "Conflicting constraints"},
		{PermissionDeniedId, false, "Permission denied"},
		{WatchFailedId, false, "watcher failed"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}
			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestValues(t *testing.T) {
	issues := Values()
	if len(issues) != len(allIds) {
		t.Errorf("Values() returned %d issues, want %d", len(issues), len(allIds))
	}
	for _, issue := range issues {
		if issue.Id() == 0 {
			t.Error("found issue with ID 0")
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("Issue %d has empty MarkdownMsg", issue.Id())
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	issue := Get(UnsupportedFormatId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("UnsupportedFormatId should carry an external link")
	}
	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
	if issue.DocLinks() != nil {
		t.Errorf("DocLinks() = %v, want nil", issue.DocLinks())
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	withLinks, err := Get(WatchFailedId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(withLinks, "See also") || !strings.Contains(withLinks, "fsnotify") {
		t.Errorf("Render() with links should list them, got:\n%s", withLinks)
	}

	noLinks, err := Get(FeatureNotFoundId).Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(noLinks, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}

	for _, issue := range Values() {
		if rendered, err := issue.Render(""); err != nil || rendered == "" {
			t.Errorf("Issue %d failed to render: %q, %v", issue.Id(), rendered, err)
		}
	}
}

func TestActionableError_Guide(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	err := NewErrorContext().WithOperation("check models").WithIssue(RequiresCycleId).Build()
	guide, gerr := err.Guide("dark")
	if gerr != nil {
		t.Fatalf("Guide() error: %v", gerr)
	}
	if !strings.Contains(guide, "Requires cycle detected") {
		t.Errorf("Guide() = %q", guide)
	}

	plain := NewActionableError("check models")
	if guide, _ := plain.Guide("dark"); guide != "" {
		t.Errorf("Guide() without issue = %q, want empty", guide)
	}
}
