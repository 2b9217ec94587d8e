package models

import (
	"time"
)

// Category : Category Model
//
// Kind is resolved once at creation time; the deletion cascades switch on
// it instead of re-deriving semantics from the display name, so renaming
// or localizing a category cannot silently break the cascades.
type Category struct {
	ID        int64     `bun:",pk,autoincrement"`
	Name      string    `bun:",notnull"`
	Kind      string    `bun:",notnull"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
