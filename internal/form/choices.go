package form

import "slices"

// GenreChoices lists the genres offered by the venue and artist forms.
var GenreChoices = []string{
	"Alternative", "Blues", "Classical", "Country", "Electronic", "Folk",
	"Funk", "Hip-Hop", "Heavy Metal", "Instrumental", "Jazz",
	"Musical Theatre", "Pop", "Punk", "R&B", "Reggae", "Rock n Roll",
	"Soul", "Swing", "Other",
}

// StateChoices lists the US state codes offered by the forms.
var StateChoices = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI",
	"ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MT", "NE", "NV", "NH",
	"NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "MD", "MA", "MI", "MN",
	"MS", "MO", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA",
	"WV", "WI", "WY",
}

func (c *checker) choice(field, value string, choices []string) {
	if value == "" {
		return
	}
	if !slices.Contains(choices, value) {
		c.errs = append(c.errs, FieldError{Field: field, Message: "Not a valid choice."})
	}
}

func (c *checker) choices(field string, values, choices []string) {
	for _, v := range values {
		if v = trim(v); v != "" && !slices.Contains(choices, v) {
			c.errs = append(c.errs, FieldError{Field: field, Message: "'" + v + "' is not a valid choice for this field."})
			return
		}
	}
}
