// SPDX-License-Identifier: MPL-2.0

package featuremodel

import "testing"

func TestString_BambooBike(t *testing.T) {
	t.Parallel()

	fm := bambooBike().build(t)
	if got := fm.String(); got != bambooBikeText {
		t.Errorf("String() =\n%s\nwant:\n%s", got, bambooBikeText)
	}
	if fm.String() != fm.String() {
		t.Error("String() must be idempotent")
	}
}

func TestString_FM100(t *testing.T) {
	t.Parallel()

	want := "FEATURES:\n" +
		"\tFM_10_0\n\tF1\n\tF2\n\tF8\n\tF3\n\tF4\n\tF5\n\tF6\n\tF7\n" +
		"RELATIONSHIPS:\n" +
		"\toptional(F1, FM_10_0)\n" +
		"\tmandatory(FM_10_0, F2)\n" +
		"\tor(FM_10_0, F3, F4, F5)\n" +
		"\talternative(FM_10_0, F6, F7)\n" +
		"\toptional(F8, F2)\n" +
		"CONSTRAINTS:\n" +
		"\trequires(F8, F6)\n" +
		"\texcludes(F4, F1)\n" +
		"\t3cnf(~F1, F7, F8)\n" +
		"\trequires(F2, F6)\n"

	if got := buildFM100(t).String(); got != want {
		t.Errorf("String() =\n%s\nwant:\n%s", got, want)
	}
}

func TestString_Empty(t *testing.T) {
	t.Parallel()

	if got := New(Options{}).String(); got != "" {
		t.Errorf("empty model String() = %q, want empty", got)
	}
}

func TestString_FeaturesOnly(t *testing.T) {
	t.Parallel()

	fm := New(Options{})
	_ = fm.AddFeature("Solo", "solo")
	want := "FEATURES:\n\tSolo\nRELATIONSHIPS:\nCONSTRAINTS:\n"
	if got := fm.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
