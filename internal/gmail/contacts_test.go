package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/people/v1"
)

func TestSearchContacts_Validation(t *testing.T) {
	c := &Client{}

	_, err := c.SearchContacts("", 10)
	require.Error(t, err, "SearchContacts() expected error for empty query")
	assert.Contains(t, err.Error(), "query is required")
}

func TestExtractContact(t *testing.T) {
	tests := []struct {
		name   string
		person *people.Person
		want   Contact
	}{
		{
			name: "full person",
			person: &people.Person{
				ResourceName: "people/c12345",
				Names: []*people.Name{
					{DisplayName: "Alice Example"},
				},
				EmailAddresses: []*people.EmailAddress{
					{Value: "alice@example.com"},
					{Value: "alice@work.example.com"},
				},
				PhoneNumbers: []*people.PhoneNumber{
					{Value: "+49 170 1234567"},
				},
			},
			want: Contact{
				ResourceName: "people/c12345",
				DisplayName:  "Alice Example",
				EmailAddress: "alice@example.com",
				PhoneNumber:  "+49 170 1234567",
			},
		},
		{
			name: "person with only email",
			person: &people.Person{
				ResourceName: "otherContacts/c678",
				EmailAddresses: []*people.EmailAddress{
					{Value: "noreply@example.com"},
				},
			},
			want: Contact{
				ResourceName: "otherContacts/c678",
				EmailAddress: "noreply@example.com",
			},
		},
		{
			name: "empty person",
			person: &people.Person{
				ResourceName: "people/c999",
			},
			want: Contact{
				ResourceName: "people/c999",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractContact(tt.person))
		})
	}
}

func TestMatchesQuery(t *testing.T) {
	contact := Contact{
		DisplayName:  "Alice Example",
		EmailAddress: "alice@example.com",
	}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{
			name:  "match on name",
			query: "alice",
			want:  true,
		},
		{
			name:  "match on name case insensitive",
			query: "ALICE",
			want:  true,
		},
		{
			name:  "match on email domain",
			query: "example.com",
			want:  true,
		},
		{
			name:  "no match",
			query: "bob",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesQuery(contact, tt.query))
		})
	}
}

func TestDedupeContacts(t *testing.T) {
	contacts := []Contact{
		{ResourceName: "people/c1", DisplayName: "Alice", EmailAddress: "alice@example.com"},
		{ResourceName: "otherContacts/c2", DisplayName: "Alice E.", EmailAddress: "ALICE@example.com"},
		{ResourceName: "people/c3", DisplayName: "Bob", EmailAddress: "bob@example.com"},
		{ResourceName: "people/c4", DisplayName: "No Email"},
		{ResourceName: "people/c4", DisplayName: "No Email"},
	}

	deduped := dedupeContacts(contacts)

	require.Len(t, deduped, 3)

	// First occurrence wins
	assert.Equal(t, "people/c1", deduped[0].ResourceName)
	assert.Equal(t, "bob@example.com", deduped[1].EmailAddress)
	assert.Equal(t, "No Email", deduped[2].DisplayName)
}
