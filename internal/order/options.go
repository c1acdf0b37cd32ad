package order

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nikhilbhutani/dinehub/internal/models"
)

// defaultDrinkLabel is recorded when a client only says "a drink was chosen".
const defaultDrinkLabel = "Drink"

// DrinkChoice accepts the three shapes client apps send for a drink
// selection: a boolean flag, a single name, or a list of names.
type DrinkChoice struct {
	Names []string
}

func (d *DrinkChoice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.Names = nil
		return nil
	}

	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("drink: %w", err)
		}
		d.Names = nil
		if b {
			d.Names = []string{defaultDrinkLabel}
		}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("drink: %w", err)
		}
		d.Names = compact([]string{s})
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("drink: expected a list of names: %w", err)
		}
		d.Names = compact(list)
	default:
		return fmt.Errorf("drink: unsupported value %s", data)
	}
	return nil
}

// IDList is a list of option identifiers sent either as strings or numbers.
type IDList []string

func (l *IDList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("accompaniments: expected a list: %w", err)
	}

	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) == 0 || bytes.Equal(r, []byte("null")) {
			continue
		}
		if r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return fmt.Errorf("accompaniments: %w", err)
			}
			out = append(out, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err != nil {
			return fmt.Errorf("accompaniments: unsupported value %s", r)
		}
		out = append(out, n.String())
	}
	*l = compact(out)
	return nil
}

// OptionsInput is the wire shape of a line item's selected options.
type OptionsInput struct {
	Accompaniments IDList      `json:"accompaniments"`
	Drink          DrinkChoice `json:"drink"`
}

// Normalize returns the canonical form stored with the order. Slices are
// never nil so the stored JSON is stable.
func (o OptionsInput) Normalize() models.SelectedOptions {
	opts := models.SelectedOptions{
		Accompaniments: []string{},
		Drinks:         []string{},
	}
	opts.Accompaniments = append(opts.Accompaniments, o.Accompaniments...)
	opts.Drinks = append(opts.Drinks, o.Drink.Names...)
	return opts
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
