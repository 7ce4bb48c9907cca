package productivity

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	FallbackFamily     = "Outros"
	FallbackConfidence = 10.0
	prefixBonus        = 30.0
)

// FamilyRule binds a family to the keywords that identify it. Rules are
// evaluated in order; an earlier rule wins a tie.
type FamilyRule struct {
	Family      string   `yaml:"family"`
	Description string   `yaml:"description"`
	Color       string   `yaml:"color"`
	Keywords    []string `yaml:"keywords"`
}

type Classification struct {
	FamilyName string
	Confidence float64
}

// Taxonomy is immutable once built.
type Taxonomy struct {
	rules    []compiledRule
	fallback FamilyRule
}

type compiledRule struct {
	rule     FamilyRule
	keywords []string
}

func NewTaxonomy(rules []FamilyRule, fallback FamilyRule) (Taxonomy, error) {
	if strings.TrimSpace(fallback.Family) == "" {
		return Taxonomy{}, errors.New("taxonomy fallback family is required")
	}
	seen := map[string]bool{fallback.Family: true}
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		name := strings.TrimSpace(r.Family)
		if name == "" {
			return Taxonomy{}, errors.New("taxonomy rule without family name")
		}
		if seen[name] {
			return Taxonomy{}, errors.New("duplicate taxonomy family: " + name)
		}
		seen[name] = true

		keywords := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if folded := foldText(kw); folded != "" {
				keywords = append(keywords, folded)
			}
		}
		r.Family = name
		r.Keywords = append([]string(nil), r.Keywords...)
		compiled = append(compiled, compiledRule{rule: r, keywords: keywords})
	}
	return Taxonomy{rules: compiled, fallback: fallback}, nil
}

// Rules returns the ordered rules followed by the fallback family.
func (t Taxonomy) Rules() []FamilyRule {
	out := make([]FamilyRule, 0, len(t.rules)+1)
	for _, r := range t.rules {
		out = append(out, r.rule)
	}
	return append(out, t.fallback)
}

func (t Taxonomy) FallbackFamily() string {
	return t.fallback.Family
}

func (t Taxonomy) Classify(productName string) Classification {
	name := foldText(productName)
	nameLen := utf8.RuneCountInString(name)
	if nameLen == 0 {
		return Classification{FamilyName: t.fallback.Family, Confidence: FallbackConfidence}
	}

	best := Classification{}
	bestScore := -1.0
	for _, r := range t.rules {
		for _, kw := range r.keywords {
			if !strings.Contains(name, kw) {
				continue
			}
			score := keywordScore(name, nameLen, kw)
			if score > bestScore {
				bestScore = score
				best = Classification{FamilyName: r.rule.Family, Confidence: score}
			}
		}
	}
	if bestScore < 0 {
		return Classification{FamilyName: t.fallback.Family, Confidence: FallbackConfidence}
	}
	best.Confidence = Round2(best.Confidence)
	return best
}

func keywordScore(name string, nameLen int, kw string) float64 {
	if name == kw {
		return 100
	}
	score := 100 * float64(utf8.RuneCountInString(kw)) / float64(nameLen)
	if score > 100 {
		score = 100
	}
	if strings.HasPrefix(name, kw) {
		score += prefixBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

// foldText lowercases, strips diacritics and collapses whitespace so that
// "LETRA CAIXA" and "letra  caixa" compare equal and "acrílico" matches "acrilico".
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

func DefaultTaxonomy() Taxonomy {
	t, err := NewTaxonomy(defaultRules, FamilyRule{
		Family:      FallbackFamily,
		Description: "Produtos sem família identificada",
		Color:       "#6B7280",
	})
	if err != nil {
		panic(err)
	}
	return t
}

// "Letras Caixa" precedes "Chapas e Placas": "letra caixa em ACM" must not be
// captured by the generic ACM keyword.
var defaultRules = []FamilyRule{
	{
		Family:      "Letras Caixa",
		Description: "Letras caixa e letreiros tridimensionais",
		Color:       "#F59E0B",
		Keywords:    []string{"letra caixa", "letras caixa", "letra-caixa", "letreiro", "letras em relevo"},
	},
	{
		Family:      "Painéis Luminosos",
		Description: "Luminosos, backlights e painéis com iluminação",
		Color:       "#EAB308",
		Keywords:    []string{"luminoso", "backlight", "back light", "neon", "painel led", "led"},
	},
	{
		Family:      "Totens",
		Description: "Totens e estruturas autoportantes",
		Color:       "#8B5CF6",
		Keywords:    []string{"totem", "toten"},
	},
	{
		Family:      "Adesivos",
		Description: "Adesivos, vinil e envelopamento",
		Color:       "#10B981",
		Keywords:    []string{"adesivo", "vinil", "envelopamento", "plotagem", "jateado", "perfurado"},
	},
	{
		Family:      "Lonas e Banners",
		Description: "Lonas, banners e faixas",
		Color:       "#3B82F6",
		Keywords:    []string{"lona", "banner", "faixa", "front light", "frontlight"},
	},
	{
		Family:      "Chapas e Placas",
		Description: "Placas rígidas: ACM, PVC, acrílico, PS",
		Color:       "#EF4444",
		Keywords:    []string{"placa", "chapa", "acm", "pvc", "acrilico", "mdf", "poliestireno"},
	},
	{
		Family:      "Displays e PDV",
		Description: "Displays, wobblers e materiais de ponto de venda",
		Color:       "#EC4899",
		Keywords:    []string{"display", "wobbler", "mobile", "pdv", "stopper"},
	},
	{
		Family:      "Tecidos",
		Description: "Tecidos sublimados e estruturas tensionadas",
		Color:       "#14B8A6",
		Keywords:    []string{"tecido", "sublimacao", "tensionado"},
	},
}
