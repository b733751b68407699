package utils

import "github.com/google/uuid"

// UUIDProvider hands out identifiers for new import tasks
type UUIDProvider interface {
	NewUUID() (uuid.UUID, error)
}

type uuidProvider struct{}

func (*uuidProvider) NewUUID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func NewUUIDProvider() *uuidProvider {
	return &uuidProvider{}
}
