// Package idl models the JSON interface description published for an
// on-chain program: its instructions, their accounts and arguments, and
// its custom error codes.
package idl

import (
	"crypto/sha256"
	"os"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const DiscriminatorLen = 8

var ErrInstructionNotFound = errors.New("instruction not found in IDL")

type IDL struct {
	Version      string        `json:"version"`
	Name         string        `json:"name"`
	Instructions []Instruction `json:"instructions"`
	Accounts     []TypeDef     `json:"accounts,omitempty"`
	Types        []TypeDef     `json:"types,omitempty"`
	Errors       []ErrorCode   `json:"errors,omitempty"`
	Metadata     *Metadata     `json:"metadata,omitempty"`
}

type Metadata struct {
	Address string `json:"address,omitempty"`
}

type Instruction struct {
	Name     string        `json:"name"`
	Docs     []string      `json:"docs,omitempty"`
	Accounts []AccountItem `json:"accounts"`
	Args     []Field       `json:"args"`
}

type AccountItem struct {
	Name       string   `json:"name"`
	IsMut      bool     `json:"isMut"`
	IsSigner   bool     `json:"isSigner"`
	IsOptional bool     `json:"isOptional,omitempty"`
	Docs       []string `json:"docs,omitempty"`

	// set when the item is a nested account group
	Accounts []AccountItem `json:"accounts,omitempty"`
}

type Field struct {
	Name string   `json:"name"`
	Docs []string `json:"docs,omitempty"`
	Type Type     `json:"type"`
}

// Type is a primitive name ("u64", "publicKey", ...) or a composite
// descriptor such as {"defined": "Foo"} or {"vec": "u8"}.
type Type struct {
	Primitive string
	Composite map[string]json.RawMessage
}

func (t *Type) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Primitive)
	}
	return json.Unmarshal(data, &t.Composite)
}

func (t Type) MarshalJSON() ([]byte, error) {
	if t.Primitive != "" {
		return json.Marshal(t.Primitive)
	}
	return json.Marshal(t.Composite)
}

func (t Type) String() string {
	if t.Primitive != "" {
		return t.Primitive
	}
	bz, _ := json.Marshal(t.Composite)
	return string(bz)
}

type TypeDef struct {
	Name string `json:"name"`
	Type struct {
		Kind   string  `json:"kind"`
		Fields []Field `json:"fields,omitempty"`
	} `json:"type"`
}

type ErrorCode struct {
	Code uint32 `json:"code"`
	Name string `json:"name"`
	Msg  string `json:"msg,omitempty"`
}

func Parse(data []byte) (*IDL, error) {
	var out IDL
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode IDL")
	}
	if len(out.Instructions) == 0 {
		return nil, errors.Errorf("IDL %q declares no instructions", out.Name)
	}
	return &out, nil
}

func LoadFile(path string) (*IDL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read IDL file %s", path)
	}
	return Parse(data)
}

// Instruction looks an instruction up by name; "initialize_game" and
// "initializeGame" resolve to the same entry.
func (i *IDL) Instruction(name string) (*Instruction, error) {
	want := ToSnakeCase(name)
	for idx := range i.Instructions {
		if ToSnakeCase(i.Instructions[idx].Name) == want {
			return &i.Instructions[idx], nil
		}
	}
	return nil, errors.Wrapf(ErrInstructionNotFound, "%s.%s", i.Name, name)
}

func (i *IDL) ErrorByCode(code uint32) (ErrorCode, bool) {
	for _, e := range i.Errors {
		if e.Code == code {
			return e, true
		}
	}
	return ErrorCode{}, false
}

// Discriminator is the 8 byte instruction tag Anchor programs dispatch on:
// sha256("global:<snake_case_name>")[:8].
func Discriminator(name string) [DiscriminatorLen]byte {
	var out [DiscriminatorLen]byte
	sum := sha256.Sum256([]byte("global:" + ToSnakeCase(name)))
	copy(out[:], sum[:DiscriminatorLen])
	return out
}

func ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && runes[i-1] != '_' && startsWord(runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// startsWord reports whether the upper-case rune at i opens a new word:
// after a lower-case rune or digit, or as the last capital of an acronym
// run ("HTTPServer" splits before "Server").
func startsWord(runes []rune, i int) bool {
	if !unicode.IsUpper(runes[i-1]) {
		return true
	}
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
