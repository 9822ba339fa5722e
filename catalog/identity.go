package catalog

import (
	"github.com/hazyhaar/prixwatch/docfile"
	"github.com/hazyhaar/prixwatch/offer"
)

// IdentityMap maps product id to the search identity used against vendors.
type IdentityMap map[string]offer.Identity

// LoadIdentities reads the identity-map document.
func LoadIdentities(path string) (IdentityMap, error) {
	var m IdentityMap
	if err := docfile.Read(path, &m); err != nil {
		return nil, err
	}
	return m, nil
}
