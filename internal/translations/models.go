package translations

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"
)

// Record is one translated field value. The (tablaReferencia, idReferencia,
// campo, idiomaId) tuple is unique; writers go through Upsert so concurrent
// runs cannot produce duplicates.
type Record struct {
	bun.BaseModel `bun:"table:traduccion_contenido,alias:tc"`

	ID         int64      `bun:"id,pk,autoincrement"        json:"id"`
	Table      string     `bun:"tablaReferencia,notnull"    json:"tablaReferencia"`
	RowID      int64      `bun:"idReferencia,notnull"       json:"idReferencia"`
	Field      string     `bun:"campo,notnull"              json:"campo"`
	LanguageID int64      `bun:"idiomaId,notnull"           json:"idiomaId"`
	Value      string     `bun:"valor"                      json:"valor"`
	CreatedAt  time.Time  `bun:"fechaCreacion,nullzero,default:current_timestamp" json:"fechaCreacion"`
	ModifiedAt *time.Time `bun:"fechaModificacion,nullzero" json:"fechaModificacion,omitempty"`
	CreatedBy  int64      `bun:"usuarioCreacion"            json:"usuarioCreacion"`
	ModifiedBy *int64     `bun:"usuarioModificacion"        json:"usuarioModificacion,omitempty"`
}

// Validate checks record fields before persistence.
func (r *Record) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Table, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.RowID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Field, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.LanguageID, validation.Required, validation.Min(int64(1))),
	)
}

// Language is a row of the idioma catalog. Languages without an ISO code
// cannot be used as provider targets and are skipped by active listings.
type Language struct {
	bun.BaseModel `bun:"table:idioma,alias:i"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	Name   string `bun:"nombre,notnull"      json:"nombre"`
	ISO    string `bun:"iso"                 json:"iso"`
	Active string `bun:"activoSn,notnull,default:'S'" json:"activoSn"`
}

// IsUsable reports whether the language can participate in translation runs.
func (l *Language) IsUsable() bool {
	return l != nil && l.Active == "S" && l.ISO != ""
}

// DefaultTranslatableFields is the fallback field set for tables that have no
// translation records yet, so first-time rows still get their prose columns
// deferred and translated.
var DefaultTranslatableFields = []string{
	"nombre", "titulo", "descripcion", "nombrePlantilla", "contenido", "texto",
}
