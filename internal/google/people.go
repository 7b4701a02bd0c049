package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/mailmap/internal/domain"
	peopleapi "google.golang.org/api/people/v1"
)

const personFields = "names,emailAddresses"

// PeopleStore implements the contact store over the Google People API.
type PeopleStore struct {
	svc *peopleapi.Service
}

func NewPeopleStore(svc *peopleapi.Service) *PeopleStore {
	return &PeopleStore{svc: svc}
}

// FindByEmail searches the user's contacts for an exact address match.
// Returns (nil, nil) when no contact matches.
func (p *PeopleStore) FindByEmail(ctx context.Context, email string) (*domain.ExternalContact, error) {
	resp, err := p.svc.People.SearchContacts().
		Query(email).
		ReadMask(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search contacts: %w", err)
	}

	for _, result := range resp.Results {
		person := result.Person
		if person == nil {
			continue
		}
		for _, addr := range person.EmailAddresses {
			if strings.EqualFold(addr.Value, email) {
				return toExternalContact(person), nil
			}
		}
	}
	return nil, nil
}

func (p *PeopleStore) Create(ctx context.Context, c domain.ExternalContact) (*domain.ExternalContact, error) {
	created, err := p.svc.People.CreateContact(toPerson(c)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return toExternalContact(created), nil
}

// Update rewrites the contact's name and email fields. The People API
// requires the current etag, so the person is fetched first.
func (p *PeopleStore) Update(ctx context.Context, c domain.ExternalContact) (*domain.ExternalContact, error) {
	current, err := p.svc.People.Get(c.ResourceName).
		PersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get contact %s: %w", c.ResourceName, err)
	}

	person := toPerson(c)
	person.Etag = current.Etag

	updated, err := p.svc.People.UpdateContact(c.ResourceName, person).
		UpdatePersonFields(personFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("update contact %s: %w", c.ResourceName, err)
	}
	return toExternalContact(updated), nil
}

func toPerson(c domain.ExternalContact) *peopleapi.Person {
	person := &peopleapi.Person{
		Names: []*peopleapi.Name{{GivenName: c.GivenName, FamilyName: c.FamilyName}},
	}
	if c.Email != "" {
		person.EmailAddresses = []*peopleapi.EmailAddress{{Value: c.Email}}
	}
	return person
}

func toExternalContact(p *peopleapi.Person) *domain.ExternalContact {
	c := &domain.ExternalContact{ResourceName: p.ResourceName}
	if len(p.Names) > 0 {
		c.GivenName = p.Names[0].GivenName
		c.FamilyName = p.Names[0].FamilyName
	}
	if len(p.EmailAddresses) > 0 {
		c.Email = p.EmailAddresses[0].Value
	}
	return c
}
