// Package interchange converts the address book to and from standard contact
// formats: vCard for exchanging contacts and iCalendar for a birthday feed.
package interchange
