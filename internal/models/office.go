package models

// Office is a DXN directory entry, embedded in office-reference
// envelopes.
type Office struct {
	ID           int     `db:"id" json:"id"`
	Country      string  `db:"country" json:"country"`
	Person       string  `db:"person" json:"person"`
	Position     *string `db:"position" json:"position,omitempty"`
	Phone1       *string `db:"phone1" json:"phone1,omitempty"`
	Phone2       *string `db:"phone2" json:"phone2,omitempty"`
	Whatsapp1    *string `db:"whatsapp1" json:"whatsapp1,omitempty"`
	Email1       *string `db:"email1" json:"email1,omitempty"`
	Website      *string `db:"website" json:"website,omitempty"`
	AddressLine1 *string `db:"address_line1" json:"address_line1,omitempty"`
	City         *string `db:"city" json:"city,omitempty"`
}
