package formats

import (
	"encoding/json"
	"path/filepath"

	"semant/internal/core/diag"
	"semant/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDNaming      = "SEM001"
	ruleIDHierarchy   = "SEM002"
	ruleIDType        = "SEM003"
	ruleIDControlFlow = "SEM004"
	ruleIDSignature   = "SEM005"
)

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

type ruleInfo struct {
	id   string
	name string
	desc string
}

var rulesByCategory = map[diag.Category]ruleInfo{
	diag.CategoryNaming:      {ruleIDNaming, "NamingError", "A name is undeclared, redeclared or reserved."},
	diag.CategoryHierarchy:   {ruleIDHierarchy, "ClassHierarchyError", "The class hierarchy is malformed."},
	diag.CategoryType:        {ruleIDType, "TypeError", "An expression or declaration is ill-typed."},
	diag.CategoryControlFlow: {ruleIDControlFlow, "ControlFlowError", "A statement is used where control flow forbids it."},
	diag.CategorySignature:   {ruleIDSignature, "SignatureError", "A method signature or entry point is invalid."},
}

// GenerateSARIF builds a SARIF v2.1.0 document from semantic reports.
// File URIs are made relative to projectRoot.
func GenerateSARIF(projectRoot string, reports []diag.Report) ([]byte, error) {
	results := make([]sarifResult, 0, len(reports))
	seen := make(map[diag.Category]bool)
	for _, r := range reports {
		seen[r.Category] = true
		result := sarifResult{
			RuleID:  ruleFor(r.Category).id,
			Level:   severityToLevel(r.Severity),
			Message: sarifMessage{Text: r.Message},
		}
		if r.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativeURI(projectRoot, r.File),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if r.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: r.Line}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "semant",
						Version: version.Version,
						Rules:   buildSARIFRules(seen),
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns only the rules that have at least one result.
func buildSARIFRules(seen map[diag.Category]bool) []sarifRule {
	rules := make([]sarifRule, 0, len(seen))
	for _, cat := range diag.Categories {
		if !seen[cat] {
			continue
		}
		info := ruleFor(cat)
		rules = append(rules, sarifRule{
			ID:               info.id,
			Name:             info.name,
			ShortDescription: sarifMessage{Text: info.desc},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "error"},
		})
	}
	return rules
}

func ruleFor(cat diag.Category) ruleInfo {
	if info, ok := rulesByCategory[cat]; ok {
		return info
	}
	return rulesByCategory[diag.CategoryType]
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot. If the path is already relative or projectRoot is
// empty, the original path (with forward slashes) is returned.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}

func severityToLevel(sev diag.Severity) string {
	switch {
	case sev >= diag.SeverityError:
		return "error"
	case sev == diag.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
