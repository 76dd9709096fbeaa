package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CardStatus is a set of progress flags of a single card. Flags are only ever added.
type CardStatus uint8

const (
	CardStatusNone   CardStatus = 0
	CardShown        CardStatus = 1 << 0
	RightActionTaken CardStatus = 1 << 1
	LeftActionTaken  CardStatus = 1 << 2
)

var cardStatusNames = []struct {
	flag CardStatus
	name string
}{
	{CardShown, "shown"},
	{RightActionTaken, "right"},
	{LeftActionTaken, "left"},
}

// Has reports whether every flag of mask is set.
func (s CardStatus) Has(mask CardStatus) bool {
	return s&mask == mask
}

// With returns the status with the given flags added.
func (s CardStatus) With(flags CardStatus) CardStatus {
	return s | flags
}

// Flags returns the names of the set flags in a stable order.
func (s CardStatus) Flags() []string {
	flags := make([]string, 0, len(cardStatusNames))
	for _, n := range cardStatusNames {
		if s&n.flag != 0 {
			flags = append(flags, n.name)
		}
	}
	return flags
}

func (s CardStatus) String() string {
	flags := s.Flags()
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, "|")
}

// ParseCardStatus builds a status from flag names ("shown", "left", "right").
func ParseCardStatus(flags []string) (CardStatus, error) {
	var s CardStatus
	for _, f := range flags {
		name := strings.ToLower(strings.TrimSpace(f))
		found := false
		for _, n := range cardStatusNames {
			if n.name == name {
				s |= n.flag
				found = true
				break
			}
		}
		if !found && name != "none" && name != "" {
			return CardStatusNone, fmt.Errorf("%w: unknown card status flag %q", ErrInvalidInput, f)
		}
	}
	return s, nil
}

// MarshalJSON пишет статус списком флагов, например ["shown","left"].
func (s CardStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flags())
}

// UnmarshalJSON принимает как список флагов, так и число (старый формат сохранений).
func (s *CardStatus) UnmarshalJSON(data []byte) error {
	var flags []string
	if err := json.Unmarshal(data, &flags); err == nil {
		parsed, err := ParseCardStatus(flags)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}
	var raw uint8
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: card status must be a list of flags or a number", ErrInvalidInput)
	}
	*s = CardStatus(raw) & (CardShown | RightActionTaken | LeftActionTaken)
	return nil
}

// UnmarshalYAML allows statuses in collection files to be written as flag lists.
func (s *CardStatus) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var flags []string
	if err := unmarshal(&flags); err != nil {
		return err
	}
	parsed, err := ParseCardStatus(flags)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
