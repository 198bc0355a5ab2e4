package model

// User represents a creator account holding the extracted persona
type User struct {
	ID      string           `json:"id" db:"id"`
	Email   string           `json:"email" db:"email"`
	Name    string           `json:"name" db:"name"`
	Persona *PersonaDocument `json:"persona,omitempty" db:"persona"`
	Meta    *ExtractionMeta  `json:"extraction_meta,omitempty"`
}
