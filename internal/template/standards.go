package template

import (
	"sort"
	"strings"
)

// Standard is an entry in the standards reference database.
type Standard struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Category     string `json:"category"`
	Organization string `json:"organization"`
	Description  string `json:"description"`
}

var standardsDB = map[string]Standard{
	"IEC 61215": {
		ID:           "IEC 61215",
		FullName:     "IEC 61215: Terrestrial photovoltaic (PV) modules - Design qualification and type approval",
		Category:     "Solar PV",
		Organization: "IEC",
		Description:  "Design qualification and type approval for crystalline silicon PV modules",
	},
	"IEC 61730": {
		ID:           "IEC 61730",
		FullName:     "IEC 61730: Photovoltaic (PV) module safety qualification",
		Category:     "Solar PV",
		Organization: "IEC",
		Description:  "Safety qualification requirements for PV modules",
	},
	"IEC 61853": {
		ID:           "IEC 61853",
		FullName:     "IEC 61853: Photovoltaic (PV) module performance testing and energy rating",
		Category:     "Solar PV",
		Organization: "IEC",
		Description:  "PV module performance testing procedures and energy rating methodologies",
	},
	"IEC 62804": {
		ID:           "IEC 62804",
		FullName:     "IEC 62804: Test methods for the detection of potential-induced degradation of crystalline silicon PV modules",
		Category:     "Solar PV",
		Organization: "IEC",
		Description:  "Methods for detecting potential-induced degradation (PID) in PV modules",
	},
	"ISO 9001": {
		ID:           "ISO 9001",
		FullName:     "ISO 9001: Quality management systems - Requirements",
		Category:     "Quality Management",
		Organization: "ISO",
		Description:  "Requirements for quality management systems",
	},
	"ISO 14001": {
		ID:           "ISO 14001",
		FullName:     "ISO 14001: Environmental management systems - Requirements with guidance for use",
		Category:     "Environmental Management",
		Organization: "ISO",
		Description:  "Environmental management system requirements",
	},
	"ISO 45001": {
		ID:           "ISO 45001",
		FullName:     "ISO 45001: Occupational health and safety management systems - Requirements with guidance for use",
		Category:     "Health & Safety",
		Organization: "ISO",
		Description:  "Occupational health and safety management requirements",
	},
	"ISO 27001": {
		ID:           "ISO 27001",
		FullName:     "ISO 27001: Information security management systems - Requirements",
		Category:     "Information Security",
		Organization: "ISO",
		Description:  "Information security management system requirements",
	},
	"ISO 17025": {
		ID:           "ISO 17025",
		FullName:     "ISO/IEC 17025: General requirements for the competence of testing and calibration laboratories",
		Category:     "Laboratory Testing",
		Organization: "ISO",
		Description:  "Requirements for competence of testing and calibration laboratories",
	},
	"ASTM E1036": {
		ID:           "ASTM E1036",
		FullName:     "ASTM E1036: Standard Test Methods for Electrical Performance of Nonconcentrator Terrestrial Photovoltaic Modules and Arrays Using Reference Cells",
		Category:     "Solar PV",
		Organization: "ASTM",
		Description:  "Test methods for PV module electrical performance",
	},
	"ASTM D7866": {
		ID:           "ASTM D7866",
		FullName:     "ASTM D7866: Standard Test Method for Determining the Biobased Content of Solid, Liquid, and Gaseous Samples Using Radiocarbon Analysis",
		Category:     "Materials Testing",
		Organization: "ASTM",
		Description:  "Radiocarbon analysis for biobased content",
	},
}

// Standards returns all known standards sorted by id.
func Standards() []Standard {
	out := make([]Standard, 0, len(standardsDB))
	for _, std := range standardsDB {
		out = append(out, std)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupStandard returns the standard with the given id.
func LookupStandard(id string) (Standard, bool) {
	std, ok := standardsDB[id]
	return std, ok
}

// SearchStandards returns standards whose id, full name or category contains
// the query, case-insensitive.
func SearchStandards(query string) []Standard {
	query = strings.ToLower(query)

	var out []Standard
	for _, std := range Standards() {
		if strings.Contains(strings.ToLower(std.ID), query) ||
			strings.Contains(strings.ToLower(std.FullName), query) ||
			strings.Contains(strings.ToLower(std.Category), query) {
			out = append(out, std)
		}
	}

	return out
}

// Citation returns a formatted citation for a standard id. Unknown ids are
// returned as-is so documents can reference internal standards.
func Citation(id string) string {
	if std, ok := standardsDB[id]; ok {
		return std.ID + ": " + std.FullName
	}

	return id
}
