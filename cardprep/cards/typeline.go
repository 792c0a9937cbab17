package cards

import (
	"fmt"
	"sort"
	"strings"
)

// NoneType fills an empty side of a parsed type line so the categorical
// encoder always sees a value.
const NoneType = "[none]"

// PhysicalKind buckets every printing into one coarse physical category.
type PhysicalKind string

const (
	KindCreature     PhysicalKind = "creature"
	KindToken        PhysicalKind = "token"
	KindLand         PhysicalKind = "land"
	KindArtifact     PhysicalKind = "artifact"
	KindEnchantment  PhysicalKind = "enchantment"
	KindPlaneswalker PhysicalKind = "planeswalker"
	KindInstant      PhysicalKind = "instant"
	KindSorcery      PhysicalKind = "sorcery"
	KindBattle       PhysicalKind = "battle"
	KindConspiracy   PhysicalKind = "conspiracy"
	KindAdventure    PhysicalKind = "adventure"
	KindSagaLike     PhysicalKind = "saga-like"
	KindSplit        PhysicalKind = "split"
	KindFlip         PhysicalKind = "flip"
	KindPlaytest     PhysicalKind = "playtest"
	KindPlanar       PhysicalKind = "planar"
	KindScheme       PhysicalKind = "scheme"
	KindEmblem       PhysicalKind = "emblem"
	KindVanguard     PhysicalKind = "vanguard"
	KindOther        PhysicalKind = "other"
)

// ParsedTypeLine splits a type line into its card types (left of the em dash)
// and subtypes (right of it), merged across both halves of split cards and
// returned as sorted space-joined sets. Empty sides become NoneType.
func (p *PhysicalCard) ParsedTypeLine() (string, string, error) {
	lhs := map[string]struct{}{}
	rhs := map[string]struct{}{}

	for _, part := range strings.Split(strings.ToLower(p.TypeLine), "//") {
		part = strings.TrimSpace(part)
		parts := strings.Split(part, "—")

		switch len(parts) {
		case 1:
			for _, w := range strings.Fields(parts[0]) {
				lhs[w] = struct{}{}
			}
		case 2:
			for _, w := range strings.Fields(parts[0]) {
				lhs[w] = struct{}{}
			}
			for _, w := range strings.Fields(parts[1]) {
				rhs[w] = struct{}{}
			}
		default:
			return "", "", fmt.Errorf("type line with more than two parts: %q", p.TypeLine)
		}
	}

	// Atinlay Igpay is a creature - pig, but its type line is written in
	// pig latin: https://scryfall.com/card/unh/1/atinlay-igpay
	if _, ok := lhs["eaturecray"]; ok {
		delete(lhs, "eaturecray")
		lhs["creature"] = struct{}{}
	}
	if _, ok := rhs["igpay"]; ok {
		delete(rhs, "igpay")
		rhs["pig"] = struct{}{}
	}

	if len(lhs) == 0 {
		lhs[NoneType] = struct{}{}
	}
	if len(rhs) == 0 {
		rhs[NoneType] = struct{}{}
	}

	return joinSorted(lhs), joinSorted(rhs), nil
}

// Kind classifies the printing into a PhysicalKind. type1 is the card-type
// half of ParsedTypeLine. Unknown combinations are an error rather than a
// silent bucket.
func (p *PhysicalCard) Kind(type1 string) (PhysicalKind, error) {
	t := map[string]struct{}{}
	for _, w := range strings.Fields(type1) {
		t[w] = struct{}{}
	}

	// Mystery Booster playtest cards have a visually distinct look.
	if p.SetCode == "cmb1" || p.SetCode == "cmb2" {
		return KindPlaytest, nil
	}

	switch p.Layout {
	case "saga", "class":
		return KindSagaLike, nil
	case "adventure", "vanguard", "scheme", "emblem", "split", "flip", "planar":
		return PhysicalKind(p.Layout), nil
	case "token", "double_faced_token":
		return KindToken, nil
	}

	switch {
	case hasAny(t, "creature", "summon"):
		return KindCreature, nil
	case hasAny(t, "land"):
		return KindLand, nil
	case hasAny(t, "artifact"):
		return KindArtifact, nil
	case hasAny(t, "enchantment"):
		return KindEnchantment, nil
	case hasAny(t, "planeswalker", "universewalker"):
		return KindPlaneswalker, nil
	case hasAny(t, "instant"):
		return KindInstant, nil
	case hasAny(t, "sorcery"):
		return KindSorcery, nil
	case hasAny(t, "battle"):
		return KindBattle, nil
	case hasAny(t, "conspiracy"):
		return KindConspiracy, nil
	case hasAny(t, "stickers", "card", "hero", "dungeon"):
		return KindOther, nil
	}

	return "", fmt.Errorf("unknown physical kind for %q (%q)", p.Name, type1)
}

// ParsedColors normalizes the color list into a sorted lowercase string,
// "c" for colorless.
func (p *PhysicalCard) ParsedColors() string {
	if len(p.Colors) == 0 {
		return "c"
	}
	letters := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		letters[i] = string(c)
	}
	sort.Strings(letters)
	return strings.ToLower(strings.Join(letters, ""))
}

func joinSorted(set map[string]struct{}) string {
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}

func hasAny(set map[string]struct{}, words ...string) bool {
	for _, w := range words {
		if _, ok := set[w]; ok {
			return true
		}
	}
	return false
}
