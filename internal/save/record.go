// Package save persists a game in progress as a single JSON file.
package save

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Version is written into every record.
const Version = "1.0"

var (
	// ErrNoSave is returned when there is no save file.
	ErrNoSave = errors.New("no save file")
	// ErrCorruptSave is returned when a save file cannot be parsed or is missing required data.
	ErrCorruptSave = errors.New("corrupt save file")
)

// Record is the on-disk save format.
type Record struct {
	Player  *PlayerRecord `json:"player" validate:"required"`
	World   *WorldRecord  `json:"world" validate:"required"`
	Version string        `json:"version" validate:"required"`
}

// PlayerRecord holds the hero's scalar stats and gear.
type PlayerRecord struct {
	Name           string           `json:"name" validate:"required"`
	Health         int              `json:"health" validate:"min=0"`
	MaxHealth      int              `json:"max_health" validate:"min=1"`
	BaseAttack     int              `json:"base_attack"`
	Attack         float64          `json:"attack"` // informational; recomputed on load
	Defense        int              `json:"defense"`
	Position       [2]int           `json:"position"`
	Level          int              `json:"level" validate:"min=1"`
	Experience     int              `json:"experience" validate:"min=0"`
	Gold           int              `json:"gold" validate:"min=0"`
	MovesCount     int              `json:"moves_count" validate:"min=0"`
	EquippedWeapon *WeaponSnapshot  `json:"equipped_weapon"`
	Inventory      []InventoryEntry `json:"inventory" validate:"dive"`
}

// WeaponSnapshot is a weapon as it was when saved.
type WeaponSnapshot struct {
	Name          string  `json:"name" validate:"required"`
	Attack        float64 `json:"attack"`
	Rarity        string  `json:"rarity"`
	Durability    int     `json:"durability" validate:"min=0"`
	MaxDurability int     `json:"max_durability" validate:"min=0"`
	Cost          int     `json:"cost"`
	WeaponType    string  `json:"weapon_type"`
	SpecialEffect string  `json:"special_effect"`
	Description   string  `json:"description"`
}

// InventoryEntry is either a weapon snapshot or a plain named item.
// On disk a weapon is its snapshot object and a plain item is {"item_name": "..."}.
type InventoryEntry struct {
	Weapon   *WeaponSnapshot
	ItemName string
}

// MarshalJSON writes the entry in its on-disk shape.
func (e InventoryEntry) MarshalJSON() ([]byte, error) {
	if e.Weapon != nil {
		return json.Marshal(e.Weapon)
	}
	return json.Marshal(struct {
		ItemName string `json:"item_name"`
	}{e.ItemName})
}

// UnmarshalJSON reads a weapon when the object has "name" and a plain item when it has "item_name".
func (e *InventoryEntry) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	if _, ok := keys["name"]; ok {
		var w WeaponSnapshot
		if err := json.Unmarshal(data, &w); err != nil {
			return err
		}
		*e = InventoryEntry{Weapon: &w}
		return nil
	}
	if raw, ok := keys["item_name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return err
		}
		*e = InventoryEntry{ItemName: name}
		return nil
	}
	return errors.New("inventory entry has neither name nor item_name")
}

// WorldRecord holds the grid size and the visited cells. The size limit
// matches the largest world the balance file may ask for.
type WorldRecord struct {
	Width      int      `json:"width" validate:"min=1,max=100"`
	Height     int      `json:"height" validate:"min=1,max=100"`
	Discovered [][2]int `json:"discovered"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Decode parses and validates a save file's contents.
func Decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if err := validate.Struct(&rec); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptSave, describe(err))
	}
	return &rec, nil
}

// Encode renders a record as indented JSON with a trailing newline.
func Encode(rec *Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("marshal save: %w", err)
	}
	return buf.Bytes(), nil
}

// describe flattens validation errors into "field: rule" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Record.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}
