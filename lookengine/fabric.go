package lookengine

import (
	"regexp"
	"strconv"
	"strings"

	"looksapi/languageutil"
)

// FabricClass drives the FitAdvisor upsize rules.
type FabricClass int

const (
	FabricNeutral FabricClass = iota
	FabricStretch
	FabricRigid
	FabricStructured
)

func (c FabricClass) String() string {
	switch c {
	case FabricStretch:
		return "stretch"
	case FabricRigid:
		return "rigid"
	case FabricStructured:
		return "structured"
	default:
		return "neutral"
	}
}

type fabricComponent struct {
	Name  string
	Share float64 // percent, 0 when the label carries no number
}

var componentShareRegex = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%\s*(?:de\s+)?([^,;/]+)`)

// parseFabric reads composition labels like "92% viscose, 8% elastano" or
// "100% algodão". Components without a percentage keep Share == 0 and are
// ordered as listed, first one assumed dominant.
func parseFabric(fabric string) []fabricComponent {
	folded := languageutil.Fold(fabric)
	var components []fabricComponent
	matches := componentShareRegex.FindAllStringSubmatch(folded, -1)
	for _, match := range matches {
		share, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", "."), 64)
		if err != nil {
			continue
		}
		components = append(components, fabricComponent{
			Name:  strings.TrimSpace(match[2]),
			Share: share,
		})
	}
	if len(components) > 0 {
		return components
	}
	// no percentages at all, split the label into named parts
	for _, part := range strings.FieldsFunc(folded, func(r rune) bool {
		return r == ',' || r == ';' || r == '/'
	}) {
		part = strings.TrimSpace(part)
		if part != "" {
			components = append(components, fabricComponent{Name: part})
		}
	}
	return components
}

// term lists are folded already (no diacritics, lowercase)
var stretchTerms = []string{"elastano", "elastane", "spandex", "lycra"}
var stretchBlendTerms = []string{"jersey", "jersei", "malha", "stretch"}
var rigidDominantTerms = []string{"algodao", "cotton"}
var rigidTerms = []string{"linho", "linen", "couro", "leather"}
var structuredTerms = []string{"wool", "crepe"}

func componentMatches(name string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// stretchShareThreshold: elastane above this percentage makes the whole
// composition behave as a stretch fabric.
const stretchShareThreshold = 3.0

// classifyFabric maps a composition label to its fit behavior. Stretch wins
// over everything else because even a cotton blend with real elastane content
// gives; rigid beats structured; anything unrecognized is neutral.
func classifyFabric(fabric string) FabricClass {
	components := parseFabric(fabric)
	if len(components) == 0 {
		return FabricNeutral
	}

	for _, component := range components {
		if componentMatches(component.Name, stretchTerms) {
			if component.Share > stretchShareThreshold || component.Share == 0 {
				return FabricStretch
			}
		}
		if componentMatches(component.Name, stretchBlendTerms) {
			return FabricStretch
		}
	}

	dominant := components[0]
	for _, component := range components {
		if component.Share > dominant.Share {
			dominant = component
		}
	}
	if componentMatches(dominant.Name, rigidDominantTerms) {
		return FabricRigid
	}
	for _, component := range components {
		if componentMatches(component.Name, rigidTerms) {
			return FabricRigid
		}
	}
	for _, component := range components {
		if componentMatches(component.Name, structuredTerms) || isWoolWord(component.Name) {
			return FabricStructured
		}
	}
	return FabricNeutral
}

// "lã" folds to "la", which also appears inside words like "flanela", so
// wool needs a whole-word match instead of Contains.
func isWoolWord(name string) bool {
	for _, word := range strings.Fields(name) {
		if word == "la" {
			return true
		}
	}
	return false
}
