// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/fmkit/fmkit/internal/issue"
	"github.com/fmkit/fmkit/pkg/types"
)

func TestShowCommand_AllFormats(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"bamboobike.fm4conf",
		"bamboobike.sxfm",
		"bamboobike.xml",
		"bamboobike.json",
		"bamboobike.cue",
		"bamboobike.toml",
		"bamboobike.yaml",
		"bamboobike.doc.json",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := runCLI(t, staticConfig{}, "show", fixture(name))
			if err != nil {
				t.Fatalf("show error = %v, stderr = %s", err, stderr)
			}
			if stdout != bambooBikeCanonical {
				t.Errorf("show output =\n%s\nwant\n%s", stdout, bambooBikeCanonical)
			}
		})
	}
}

func TestShowCommand_ForcedFormat(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "bike.fm4conf", bambooBikeCanonical)

	_, _, err := runCLI(t, staticConfig{}, "show", "--format", "sxfm", path)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitUnreadable {
		t.Fatalf("show --format sxfm error = %v, want exit %d", err, types.ExitUnreadable)
	}
	if id, ok := issue.IssueOf(err); !ok || id != issue.UnsupportedFormatId {
		t.Errorf("IssueOf() = %v, %v, want UnsupportedFormatId", id, ok)
	}

	stdout, _, err := runCLI(t, staticConfig{}, "show", "-f", "descriptive", path)
	if err != nil {
		t.Fatalf("show -f descriptive error = %v", err)
	}
	if stdout != bambooBikeCanonical {
		t.Errorf("show -f descriptive output = %q", stdout)
	}
}

func TestShowCommand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name     string
		args     []string
		wantCode types.ExitCode
		wantID   issue.Id
	}{
		{
			name:     "missing file",
			args:     []string{"show", writeFile(t, dir, "x.txt", "") + ".sxfm"},
			wantCode: types.ExitUnreadable,
			wantID:   issue.FileNotFoundId,
		},
		{
			name:     "unknown extension",
			args:     []string{"show", writeFile(t, dir, "model.txt", bambooBikeCanonical)},
			wantCode: types.ExitUnreadable,
			wantID:   issue.UnsupportedFormatId,
		},
		{
			name:     "broken model",
			args:     []string{"show", writeFile(t, dir, "broken.fm4conf", "FEATURES:\n\tA\nRELATIONSHIPS:\n\tmandatory(A, Missing)\n")},
			wantCode: types.ExitUnreadable,
			wantID:   issue.ModelParseErrorId,
		},
		{
			name:     "invalid format flag",
			args:     []string{"show", "--format", "visio", fixture("bamboobike.sxfm")},
			wantCode: types.ExitFindings,
			wantID:   issue.InvalidFormatId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := runCLI(t, staticConfig{}, tt.args...)
			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("error = %v, want *ExitError", err)
			}
			if exitErr.Code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", exitErr.Code, tt.wantCode)
			}
			if id, _ := issue.IssueOf(err); id != tt.wantID {
				t.Errorf("IssueOf() = %d, want %d", id, tt.wantID)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
			if !strings.Contains(stderr, "Error:") {
				t.Errorf("stderr = %q, want rendered error", stderr)
			}
		})
	}
}

func TestInfoCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, staticConfig{}, "info", fixture("bamboobike.sxfm"))
	if err != nil {
		t.Fatalf("info error = %v", err)
	}
	for _, want := range []string{"Bamboo Bike", "features", "11", "alternative", "excludes", "root"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("info output missing %q:\n%s", want, stdout)
		}
	}
}

func TestFeaturesCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, staticConfig{}, "features", fixture("bamboobike.sxfm"))
	if err != nil {
		t.Fatalf("features error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) != 11 {
		t.Fatalf("features printed %d lines, want 11:\n%s", len(lines), stdout)
	}
	for i, want := range map[int]string{
		0:  "R Bamboo Bike (bamboo_bike)",
		1:  "M Frame (frame)",
		3:  "O Engine (engine)",
		5:  "O Female (female)",
		10: "O Back-pedal (back_pedal)",
	} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestFeatureQueries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "children of root",
			args: []string{"children", fixture("bamboobike.fm4conf"), "Bamboo Bike"},
			want: "Frame\nBrake\nEngine\nDrop Handlebar\n",
		},
		{
			name: "children of group parent",
			args: []string{"children", fixture("bamboobike.fm4conf"), "Frame"},
			want: "Female\nMale\nStep-through\n",
		},
		{
			name: "children by id",
			args: []string{"children", fixture("bamboobike.sxfm"), "brake"},
			want: "Front\nRear\nBack-pedal\n",
		},
		{
			name: "relations",
			args: []string{"relations", fixture("bamboobike.fm4conf"), "Male"},
			want: "alternative(Frame, Female, Male, Step-through)\nrequires(Drop Handlebar, Male)\n",
		},
		{
			name: "parents",
			args: []string{"parents", fixture("bamboobike.fm4conf"), "Male"},
			want: "Frame\n",
		},
		{
			name: "parents of root",
			args: []string{"parents", fixture("bamboobike.fm4conf"), "Bamboo Bike"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr, err := runCLI(t, staticConfig{}, tt.args...)
			if err != nil {
				t.Fatalf("error = %v, stderr = %s", err, stderr)
			}
			if stdout != tt.want {
				t.Errorf("output = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestFeatureQueries_UnknownFeature(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCLI(t, staticConfig{}, "parents", fixture("bamboobike.fm4conf"), "Sidecar")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFindings {
		t.Fatalf("error = %v, want exit %d", err, types.ExitFindings)
	}
	if id, _ := issue.IssueOf(err); id != issue.FeatureNotFoundId {
		t.Errorf("IssueOf() = %d, want FeatureNotFoundId", id)
	}
	if !strings.Contains(stderr, "Sidecar") {
		t.Errorf("stderr = %q, want the feature name", stderr)
	}
}
