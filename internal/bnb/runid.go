package bnb

import (
	"time"

	"github.com/google/uuid"
)

// RunIDProvider hands out the identifier stamped on each search.
type RunIDProvider interface {
	NextRunID() uuid.UUID
}

var _ RunIDProvider = &UUIDRunIDProvider{}

type UUIDProviderFn func() (uuid.UUID, error)

type UUIDRunIDProvider struct {
	nextUUIDFn UUIDProviderFn
}

func NewUUIDRunIDProvider() *UUIDRunIDProvider {
	return &UUIDRunIDProvider{
		nextUUIDFn: func() (uuid.UUID, error) { return uuid.NewRandom() },
	}
}

func NewCustomUUIDRunIDProvider(nextUUIDFn UUIDProviderFn) *UUIDRunIDProvider {
	return &UUIDRunIDProvider{
		nextUUIDFn: nextUUIDFn,
	}
}

// NextRunID falls back to a name-based UUID when the random source fails,
// so a run is always identifiable.
func (p *UUIDRunIDProvider) NextRunID() uuid.UUID {
	id, err := p.nextUUIDFn()
	if err != nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(err.Error()+time.Now().String()))
	}
	return id
}
