package gmail

import (
	"fmt"
	"strings"

	"google.golang.org/api/people/v1"
)

// contactReadMask selects the person fields returned by the People API
const contactReadMask = "names,emailAddresses,phoneNumbers"

// Contact represents a contact from the Google People API
type Contact struct {
	ResourceName string `json:"resource_name"`
	DisplayName  string `json:"display_name"`
	EmailAddress string `json:"email_address,omitempty"`
	PhoneNumber  string `json:"phone_number,omitempty"`
}

// SearchContacts searches the user's contacts, other contacts (autocomplete
// suggestions from past interactions) and the domain directory for people
// matching the query. Results are deduplicated by email address and trimmed
// to maxResults.
func (c *Client) SearchContacts(query string, maxResults int64) ([]Contact, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	var contacts []Contact

	// Saved contacts
	res, err := c.peopleSvc.People.SearchContacts().
		Query(query).
		ReadMask(contactReadMask).
		PageSize(maxResults).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	for _, result := range res.Results {
		if result.Person != nil {
			contacts = append(contacts, extractContact(result.Person))
		}
	}

	// Other contacts have no server-side search, so list and filter locally
	pageToken := ""
	for page := 0; page < 10; page++ {
		req := c.peopleSvc.OtherContacts.List().
			ReadMask(contactReadMask).
			PageSize(1000)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		otherRes, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list other contacts: %w", err)
		}

		for _, person := range otherRes.OtherContacts {
			contact := extractContact(person)
			if matchesQuery(contact, query) {
				contacts = append(contacts, contact)
			}
		}

		if otherRes.NextPageToken == "" {
			break
		}
		pageToken = otherRes.NextPageToken
	}

	// Directory search only works on Workspace accounts, ignore failures
	dirRes, err := c.peopleSvc.People.SearchDirectoryPeople().
		Query(query).
		ReadMask(contactReadMask).
		Sources("DIRECTORY_SOURCE_TYPE_DOMAIN_PROFILE", "DIRECTORY_SOURCE_TYPE_DOMAIN_CONTACT").
		PageSize(maxResults).
		Do()
	if err == nil {
		for _, person := range dirRes.People {
			contacts = append(contacts, extractContact(person))
		}
	}

	contacts = dedupeContacts(contacts)

	if int64(len(contacts)) > maxResults {
		contacts = contacts[:maxResults]
	}

	return contacts, nil
}

// dedupeContacts removes duplicate contacts, preferring the first occurrence.
// Contacts with an email address are deduplicated by email, the rest by
// resource name.
func dedupeContacts(contacts []Contact) []Contact {
	seen := make(map[string]bool)
	deduped := make([]Contact, 0, len(contacts))

	for _, contact := range contacts {
		key := strings.ToLower(contact.EmailAddress)
		if key == "" {
			key = contact.ResourceName
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, contact)
	}

	return deduped
}

// extractContact converts a People API person into a Contact, taking the
// first name, email address and phone number.
func extractContact(person *people.Person) Contact {
	contact := Contact{
		ResourceName: person.ResourceName,
	}

	if len(person.Names) > 0 {
		contact.DisplayName = person.Names[0].DisplayName
	}
	if len(person.EmailAddresses) > 0 {
		contact.EmailAddress = person.EmailAddresses[0].Value
	}
	if len(person.PhoneNumbers) > 0 {
		contact.PhoneNumber = person.PhoneNumbers[0].Value
	}

	return contact
}

// matchesQuery reports whether a contact matches the query by
// case-insensitive substring match on name and email
func matchesQuery(contact Contact, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(contact.DisplayName), q) ||
		strings.Contains(strings.ToLower(contact.EmailAddress), q)
}
