// SPDX-License-Identifier: MPL-2.0

package featuremodel

import "strings"

// String renders the model in canonical form:
//
//	FEATURES:
//		<name>
//	RELATIONSHIPS:
//		<confRule>
//	CONSTRAINTS:
//		<confRule>
//
// Every entry line is tab-prefixed and newline-terminated. A model without
// features renders as "".
func (m *FeatureModel) String() string {
	if len(m.features) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("FEATURES:\n")
	for _, f := range m.features {
		writeEntry(&sb, f.Name())
	}
	sb.WriteString("RELATIONSHIPS:\n")
	for _, r := range m.relationships {
		writeEntry(&sb, r.ConfRule())
	}
	sb.WriteString("CONSTRAINTS:\n")
	for _, c := range m.constraints {
		writeEntry(&sb, c.ConfRule())
	}
	return sb.String()
}

func writeEntry(sb *strings.Builder, line string) {
	sb.WriteByte('\t')
	sb.WriteString(line)
	sb.WriteByte('\n')
}
