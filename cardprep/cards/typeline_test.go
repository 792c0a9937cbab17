package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsedTypeLine(t *testing.T) {
	tests := []struct {
		name      string
		typeLine  string
		wantType1 string
		wantType2 string
	}{
		{
			name:      "creature with subtype",
			typeLine:  "Creature — Bear",
			wantType1: "creature",
			wantType2: "bear",
		},
		{
			name:      "legendary sorts before creature",
			typeLine:  "Legendary Creature — Elder Dragon",
			wantType1: "creature legendary",
			wantType2: "dragon elder",
		},
		{
			name:      "no subtype",
			typeLine:  "Sorcery",
			wantType1: "sorcery",
			wantType2: "[none]",
		},
		{
			name:      "split card merges both halves",
			typeLine:  "Instant // Sorcery",
			wantType1: "instant sorcery",
			wantType2: "[none]",
		},
		{
			name:      "pig latin type line",
			typeLine:  "Eaturecray — Igpay",
			wantType1: "creature",
			wantType2: "pig",
		},
		{
			name:      "empty type line",
			typeLine:  "",
			wantType1: "[none]",
			wantType2: "[none]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PhysicalCard{TypeLine: tt.typeLine}
			type1, type2, err := p.ParsedTypeLine()
			require.NoError(t, err)
			assert.Equal(t, tt.wantType1, type1)
			assert.Equal(t, tt.wantType2, type2)
		})
	}
}

func TestParsedTypeLineTooManyParts(t *testing.T) {
	p := PhysicalCard{TypeLine: "A — B — C"}
	_, _, err := p.ParsedTypeLine()
	assert.Error(t, err)
}

func TestKind(t *testing.T) {
	tests := []struct {
		name    string
		card    PhysicalCard
		type1   string
		want    PhysicalKind
		wantErr bool
	}{
		{name: "creature", card: PhysicalCard{Layout: "normal"}, type1: "creature legendary", want: KindCreature},
		{name: "old summon wording", card: PhysicalCard{Layout: "normal"}, type1: "summon", want: KindCreature},
		{name: "land", card: PhysicalCard{Layout: "normal"}, type1: "land", want: KindLand},
		{name: "artifact creature is a creature", card: PhysicalCard{Layout: "normal"}, type1: "artifact creature", want: KindCreature},
		{name: "artifact", card: PhysicalCard{Layout: "normal"}, type1: "artifact", want: KindArtifact},
		{name: "planeswalker", card: PhysicalCard{Layout: "normal"}, type1: "planeswalker", want: KindPlaneswalker},
		{name: "universewalker", card: PhysicalCard{Layout: "normal"}, type1: "universewalker", want: KindPlaneswalker},
		{name: "instant", card: PhysicalCard{Layout: "normal"}, type1: "instant", want: KindInstant},
		{name: "playtest set wins", card: PhysicalCard{SetCode: "cmb1", Layout: "normal"}, type1: "creature", want: KindPlaytest},
		{name: "saga layout", card: PhysicalCard{Layout: "saga"}, type1: "enchantment", want: KindSagaLike},
		{name: "class layout", card: PhysicalCard{Layout: "class"}, type1: "enchantment", want: KindSagaLike},
		{name: "split layout", card: PhysicalCard{Layout: "split"}, type1: "instant sorcery", want: KindSplit},
		{name: "token layout", card: PhysicalCard{Layout: "token"}, type1: "creature", want: KindToken},
		{name: "double faced token", card: PhysicalCard{Layout: "double_faced_token"}, type1: "creature", want: KindToken},
		{name: "dungeon is other", card: PhysicalCard{Layout: "normal"}, type1: "dungeon", want: KindOther},
		{name: "unknown errors", card: PhysicalCard{Layout: "normal"}, type1: "mystery", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.card.Kind(tt.type1)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsedColors(t *testing.T) {
	tests := []struct {
		name   string
		colors []Color
		want   string
	}{
		{"colorless", nil, "c"},
		{"mono", []Color{"G"}, "g"},
		{"sorted multicolor", []Color{"U", "B", "W"}, "buw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PhysicalCard{Colors: tt.colors}
			assert.Equal(t, tt.want, p.ParsedColors())
		})
	}
}
