package calldata

import "fmt"

type field struct {
	key, name string
	r         Range
}

func parseFields(v any, what string, fields []field) (map[string]any, error) {
	m, err := asMap(v, what)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		n, err := f.r.Parse(m[f.key], f.name)
		if err != nil {
			return nil, err
		}
		out[f.key] = n
	}
	return out, nil
}

var attributeFields = []field{
	{"strength", "Strength", Percent},
	{"vitality", "Vitality", Percent},
	{"dexterity", "Dexterity", Percent},
	{"luck", "Luck", Percent},
	{"bludgeon_resistance", "Bludgeon Resistance", Percent},
	{"magic_resistance", "Magic Resistance", Percent},
	{"pierce_resistance", "Pierce Resistance", Percent},
	{"bludgeon_vulnerability", "Bludgeon Vulnerability", U16},
	{"magic_vulnerability", "Magic Vulnerability", U16},
	{"pierce_vulnerability", "Pierce Vulnerability", U16},
}

var partialAttributeFields = []field{
	{"strength", "Strength", I8},
	{"vitality", "Vitality", I8},
	{"dexterity", "Dexterity", I8},
	{"luck", "Luck", I8},
	{"bludgeon_resistance", "Bludgeon Resistance", Percent},
	{"magic_resistance", "Magic Resistance", Percent},
	{"pierce_resistance", "Pierce Resistance", Percent},
	{"bludgeon_vulnerability", "Bludgeon Vulnerability", I16},
	{"magic_vulnerability", "Magic Vulnerability", I16},
	{"pierce_vulnerability", "Pierce Vulnerability", I16},
}

var abilityModFields = []field{
	{"strength", "Strength", Signed100},
	{"vitality", "Vitality", Signed100},
	{"dexterity", "Dexterity", Signed100},
	{"luck", "Luck", Signed100},
}

var resistanceModFields = []field{
	{"bludgeon_resistance", "Bludgeon Resistance", Signed100},
	{"magic_resistance", "Magic Resistance", Signed100},
	{"pierce_resistance", "Pierce Resistance", Signed100},
}

var vulnerabilityModFields = []field{
	{"bludgeon_vulnerability", "Bludgeon Vulnerability", I16},
	{"magic_vulnerability", "Magic Vulnerability", I16},
	{"pierce_vulnerability", "Pierce Vulnerability", I16},
}

// Attributes parses a full attribute set.
func Attributes(v any) (map[string]any, error) {
	return parseFields(v, "attributes", attributeFields)
}

// PartialAttributes parses signed attribute offsets, as used by loadout items.
func PartialAttributes(v any) (map[string]any, error) {
	return parseFields(v, "attributes", partialAttributeFields)
}

func AbilityMods(v any) (map[string]any, error) {
	return parseFields(v, "abilities", abilityModFields)
}

func ResistanceMods(v any) (map[string]any, error) {
	return parseFields(v, "resistances", resistanceModFields)
}

func VulnerabilityMods(v any) (map[string]any, error) {
	return parseFields(v, "vulnerabilities", vulnerabilityModFields)
}

// withItem prefixes err with the item being parsed.
func withItem(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
