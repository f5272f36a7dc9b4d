package exclusions

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// RuleKind partitions how a rule value is interpreted: COLUMNA and TABLA
// match schema identifiers case-insensitively, VALOR_EXACTO and
// TEXTO_CONTENIDO match literal field content.
type RuleKind string

const (
	RuleKindColumn     RuleKind = "COLUMNA"
	RuleKindTable      RuleKind = "TABLA"
	RuleKindExactValue RuleKind = "VALOR_EXACTO"
	RuleKindSubstring  RuleKind = "TEXTO_CONTENIDO"
)

const (
	activeYes = "S"
	activeNo  = "N"
)

// Rule is a persisted exclusion policy entry. Rules are maintained through
// the admin API and are read-only to the translation engine, which only
// consults active rows.
type Rule struct {
	bun.BaseModel `bun:"table:traduccion_exclusiones,alias:te"`

	ID          int64      `bun:"id,pk,autoincrement"                           json:"id"`
	Kind        RuleKind   `bun:"tipoExclusion,notnull"                         json:"tipoExclusion"`
	Value       string     `bun:"valor,notnull"                                 json:"valor"`
	Description *string    `bun:"descripcion"                                   json:"descripcion,omitempty"`
	Active      string     `bun:"activoSn,notnull,default:'S'"                  json:"activoSn"`
	CreatedAt   time.Time  `bun:"fechaCreacion,nullzero,default:current_timestamp" json:"fechaCreacion"`
	ModifiedAt  *time.Time `bun:"fechaModificacion,nullzero"                    json:"fechaModificacion,omitempty"`
	CreatedBy   int64      `bun:"usuarioCreacion"                               json:"usuarioCreacion"`
	ModifiedBy  *int64     `bun:"usuarioModificacion"                           json:"usuarioModificacion,omitempty"`
}

// IsActive reports whether the rule participates in engine decisions.
func (r *Rule) IsActive() bool {
	return r != nil && r.Active == activeYes
}

// Validate checks rule fields before persistence.
func (r *Rule) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind, validation.Required, validation.In(
			RuleKindColumn, RuleKindTable, RuleKindExactValue, RuleKindSubstring,
		)),
		validation.Field(&r.Value, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Active, validation.Required, validation.In(activeYes, activeNo)),
	)
}
