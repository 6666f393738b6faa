package usecases

import "github.com/keygate-app/keygate/internal/shared/id"

// shortIDGenerator is the default KeyGenerator backed by the shared id package.
type shortIDGenerator struct{}

// NewShortIDGenerator returns the default activation key generator.
func NewShortIDGenerator() KeyGenerator {
	return shortIDGenerator{}
}

func (shortIDGenerator) NewActivationKey() (string, error) {
	return id.NewActivationKey()
}

func (shortIDGenerator) NewClientSID() (string, error) {
	return id.NewClientSID()
}
