package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/emersion/go-vcard"

	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// VCardMIMEType is the content type of WriteVCards output.
const VCardMIMEType = "text/vcard; charset=utf-8"

// bdayLayouts are the BDAY forms accepted on import. Year-less dates
// (--MMDD) are rejected: a record needs a full birth date.
var bdayLayouts = []string{
	"2006-01-02",
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"20060102T150405Z",
}

// Card converts b to a vCard 4.0 card.
func Card(b types.Birthday) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, b.Name)
	card.SetValue(vcard.FieldBirthday, b.BirthDate.String())
	card.SetCategories([]string{string(b.Category)})
	if b.Email != "" {
		card.SetValue(vcard.FieldEmail, b.Email)
	}
	if b.Phone != "" {
		card.SetValue(vcard.FieldTelephone, b.Phone)
	}
	if b.Notes != "" {
		card.SetValue(vcard.FieldNote, b.Notes)
	}
	vcard.ToV4(card)
	return card
}

// WriteVCards encodes one card per item to w.
func WriteVCards(w io.Writer, items []types.Birthday) error {
	enc := vcard.NewEncoder(w)
	for _, b := range items {
		if err := enc.Encode(Card(b)); err != nil {
			return fmt.Errorf("encode vcard for %q: %w", b.ID, err)
		}
	}
	return nil
}

// Skipped describes a card that could not become a record.
type Skipped struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// ErrNoBirthday marks cards without a usable BDAY.
var ErrNoBirthday = errors.New("no full birth date")

// ReadVCards decodes every card in r. Cards lacking a name or a complete
// BDAY, or rejected by check when it is not nil, are reported in skipped
// rather than failing the whole stream; a malformed stream is an error.
func ReadVCards(r io.Reader, check func(types.BirthdayInput) error) ([]types.BirthdayInput, []Skipped, error) {
	var (
		records []types.BirthdayInput
		skipped []Skipped
	)
	dec := vcard.NewDecoder(r)
	for i := 0; ; i++ {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("decode vcard #%d: %w", i, err)
		}

		in, err := FromCard(card)
		if err == nil && check != nil {
			err = check(in)
		}
		if err != nil {
			skipped = append(skipped, Skipped{Index: i, Name: in.Name, Reason: err.Error()})
			continue
		}
		records = append(records, in)
	}
	return records, skipped, nil
}

// FromCard maps a card onto a create payload. Name comes from FN, or from
// N when FN is absent. The first CATEGORIES value naming a known category
// wins; anything else becomes "other". The payload is not validated.
func FromCard(card vcard.Card) (types.BirthdayInput, error) {
	in := types.BirthdayInput{
		Name:     strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)),
		Category: types.CategoryOther,
		Email:    card.PreferredValue(vcard.FieldEmail),
		Phone:    card.PreferredValue(vcard.FieldTelephone),
		Notes:    card.Value(vcard.FieldNote),
	}
	if in.Name == "" {
		if n := card.Name(); n != nil {
			in.Name = strings.TrimSpace(strings.Join([]string{n.GivenName, n.FamilyName}, " "))
		}
	}
	if in.Name == "" {
		return in, errors.New("no name")
	}

	for _, c := range card.Categories() {
		if cat := types.Category(strings.ToLower(strings.TrimSpace(c))); cat.Valid() {
			in.Category = cat
			break
		}
	}

	date, err := parseBirthday(card.Value(vcard.FieldBirthday))
	if err != nil {
		return in, err
	}
	in.BirthDate = date
	return in, nil
}

func parseBirthday(value string) (civil.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "--") {
		return civil.Date{}, ErrNoBirthday
	}
	for _, layout := range bdayLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("%w: %q", ErrNoBirthday, value)
}
