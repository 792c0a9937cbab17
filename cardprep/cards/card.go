// Package cards models Scryfall card records and flattens them into the
// physical printings the preprocessing pipeline consumes.
package cards

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"

	"github.com/google/uuid"
)

// Color is a single mana color letter as Scryfall prints it.
type Color string

// Frame is the card frame generation.
type Frame string

// ImageStatus describes the quality of the card scan Scryfall holds.
type ImageStatus string

const (
	ImageMissing     ImageStatus = "missing"
	ImagePlaceholder ImageStatus = "placeholder"
	ImageLowres      ImageStatus = "lowres"
	ImageHighres     ImageStatus = "highres_scan"
)

// Layout is the printed layout of a card or card face.
type Layout string

// ImageURIs holds the scan URLs for one card face.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	PNG        string `json:"png"`
	ArtCrop    string `json:"art_crop"`
	BorderCrop string `json:"border_crop"`
}

// CardFace is one face of a multi-faced card. Most fields are optional and
// fall back to the parent card.
type CardFace struct {
	Name        string     `json:"name"`
	PrintedName string     `json:"printed_name,omitempty"`
	Colors      []Color    `json:"colors,omitempty"`
	Layout      Layout     `json:"layout,omitempty"`
	TypeLine    string     `json:"type_line,omitempty"`
	ImageURIs   *ImageURIs `json:"image_uris,omitempty"`
}

// Card is one Scryfall oracle card record, possibly covering several physical
// faces.
type Card struct {
	OracleID uuid.UUID `json:"oracle_id"`
	Lang     string    `json:"lang"`

	Digital bool `json:"digital"`

	ImageStatus ImageStatus `json:"image_status"`
	ImageURIs   *ImageURIs  `json:"image_uris,omitempty"`

	Name        string `json:"name"`
	FlavorName  string `json:"flavor_name,omitempty"`
	PrintedName string `json:"printed_name,omitempty"`

	SetCode string `json:"set"`
	SetType string `json:"set_type"`

	Layout Layout `json:"layout"`
	Frame  Frame  `json:"frame"`

	TypeLine   string  `json:"type_line"`
	Colors     []Color `json:"colors,omitempty"`
	OracleText string  `json:"oracle_text,omitempty"`

	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// CoalesceName picks the display name a player would see: printed name over
// flavor name over the canonical oracle name.
func (c *Card) CoalesceName() string {
	if c.PrintedName != "" {
		return c.PrintedName
	}
	if c.FlavorName != "" {
		return c.FlavorName
	}
	return c.Name
}

// PhysicalCard is one printable face, flattened for downstream encoding. It
// is what one CSV row, one database row and one dataset record describe.
type PhysicalCard struct {
	OracleID  uuid.UUID
	Name      string
	SetCode   string
	Layout    Layout
	Frame     Frame
	TypeLine  string
	Colors    []Color
	ImageURIs ImageURIs
}

// PhysicalCards flattens a card into its physical faces. Digital-only cards
// and cards without a usable scan flatten to nothing. A card whose images
// live on its faces fans out one PhysicalCard per face.
func (c *Card) PhysicalCards() ([]PhysicalCard, error) {
	if c.Digital {
		return nil, nil
	}
	if c.ImageStatus == ImageMissing || c.ImageStatus == ImagePlaceholder {
		return nil, nil
	}

	if c.ImageURIs == nil && len(c.CardFaces) > 0 {
		out := make([]PhysicalCard, 0, len(c.CardFaces))
		for _, face := range c.CardFaces {
			pc, err := face.physicalCard(c)
			if err != nil {
				return nil, err
			}
			out = append(out, pc)
		}
		return out, nil
	}

	if c.ImageURIs == nil {
		return nil, fmt.Errorf("card %q has neither images nor card faces", c.Name)
	}

	return []PhysicalCard{{
		OracleID:  c.OracleID,
		Name:      c.CoalesceName(),
		SetCode:   c.SetCode,
		Layout:    c.Layout,
		Frame:     c.Frame,
		TypeLine:  c.TypeLine,
		Colors:    c.Colors,
		ImageURIs: *c.ImageURIs,
	}}, nil
}

func (f *CardFace) physicalCard(c *Card) (PhysicalCard, error) {
	layout := f.Layout
	if layout == "" {
		layout = c.Layout
	}
	if layout == "" {
		return PhysicalCard{}, fmt.Errorf("card face %q has no layout", f.Name)
	}
	if f.ImageURIs == nil {
		return PhysicalCard{}, fmt.Errorf("card face %q has no image_uris", f.Name)
	}
	if f.Colors == nil {
		return PhysicalCard{}, fmt.Errorf("card face %q has no colors", f.Name)
	}

	name := f.Name
	if f.PrintedName != "" {
		name = f.PrintedName
	}

	typeLine := f.TypeLine
	if typeLine == "" {
		typeLine = c.TypeLine
	}

	return PhysicalCard{
		OracleID:  c.OracleID,
		Name:      name,
		SetCode:   c.SetCode,
		Layout:    layout,
		Frame:     c.Frame,
		TypeLine:  typeLine,
		Colors:    f.Colors,
		ImageURIs: *f.ImageURIs,
	}, nil
}

// PreferredFilename derives a stable local filename for the card's small
// image: md5 of the image URL plus the URL path's extension.
func (p *PhysicalCard) PreferredFilename() string {
	small := p.ImageURIs.Small
	digest := md5.Sum([]byte(small))

	suffix := ""
	if u, err := url.Parse(small); err == nil {
		suffix = path.Ext(u.Path)
	}
	return hex.EncodeToString(digest[:]) + suffix
}
