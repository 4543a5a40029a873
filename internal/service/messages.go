package service

import "strings"

// Entities and verbs used in flash messages.
const (
	EntityVenue  = "Venue"
	EntityArtist = "Artist"
	EntityShow   = "Show"

	VerbListed  = "listed"
	VerbUpdated = "updated"
	VerbDeleted = "deleted"
)

// Message builds the flash text for one mutation outcome, for example
// "Venue The Musical Hop was successfully listed!" or "An error occurred.
// Show could not be listed.".
func Message(entity, name, verb string, err error) string {
	subject := entity
	if name = strings.TrimSpace(name); name != "" {
		subject += " " + name
	}
	if err != nil {
		return "An error occurred. " + subject + " could not be " + verb + "."
	}
	if verb == VerbDeleted {
		return subject + " was successfully deleted."
	}
	return subject + " was successfully " + verb + "!"
}
