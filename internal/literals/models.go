package literals

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// Literal is one UI literal value in one language, addressed by key.
type Literal struct {
	bun.BaseModel `bun:"table:traduccion_literal,alias:tl"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Key        string `bun:"clave,notnull"       json:"clave"`
	LanguageID int64  `bun:"idiomaId,notnull"    json:"idiomaId"`
	Value      string `bun:"valor"               json:"valor"`
}

// Validate checks literal fields before persistence.
func (l *Literal) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Key, validation.Required, validation.Length(1, 255)),
		validation.Field(&l.LanguageID, validation.Required, validation.Min(int64(1))),
	)
}

// KeyRow is one pivoted listing row: a literal key with its value per
// language ISO code.
type KeyRow struct {
	Key    string            `json:"clave"`
	Values map[string]string `json:"valores"`
}
