package cards

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xremming/cardprep/cardprep/dataset"
)

// CSVHeader is the column layout of the exported card table.
func CSVHeader() []string {
	return []string{
		"Oracle ID",
		"Name",
		"Set",
		"Layout",
		"Frame",
		"Kind",
		"Type1",
		"Type2",
		"Colors",
		"Image URL",
		"Image Filename",
	}
}

// Row renders one printing as a CSV row matching CSVHeader.
func (p *PhysicalCard) Row() ([]string, error) {
	type1, type2, err := p.ParsedTypeLine()
	if err != nil {
		return nil, err
	}
	kind, err := p.Kind(type1)
	if err != nil {
		return nil, err
	}

	return []string{
		p.OracleID.String(),
		p.Name,
		p.SetCode,
		string(p.Layout),
		string(p.Frame),
		string(kind),
		type1,
		type2,
		p.ParsedColors(),
		p.ImageURIs.Small,
		p.PreferredFilename(),
	}, nil
}

// WriteCSV writes the header and one row per printing. Printings that fail to
// classify are reported to invalid (when non-nil) and skipped.
func WriteCSV(w io.Writer, printings []PhysicalCard, invalid func(p *PhysicalCard, err error)) error {
	out := csv.NewWriter(w)
	if err := out.Write(CSVHeader()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range printings {
		row, err := printings[i].Row()
		if err != nil {
			if invalid != nil {
				invalid(&printings[i], err)
			}
			continue
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}

// Records converts printings into dataset-shaped rows keyed like CSVHeader,
// for feeding the batching helper directly instead of round-tripping through
// a file.
func Records(printings []PhysicalCard) ([]dataset.Record, error) {
	out := make([]dataset.Record, 0, len(printings))
	for i := range printings {
		p := &printings[i]
		type1, type2, err := p.ParsedTypeLine()
		if err != nil {
			return nil, err
		}
		kind, err := p.Kind(type1)
		if err != nil {
			return nil, err
		}
		out = append(out, dataset.Record{
			"oracle_id": p.OracleID.String(),
			"name":      p.Name,
			"set":       p.SetCode,
			"layout":    string(p.Layout),
			"frame":     string(p.Frame),
			"kind":      string(kind),
			"type1":     type1,
			"type2":     type2,
			"colors":    p.ParsedColors(),
		})
	}
	return out, nil
}
