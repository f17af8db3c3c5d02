package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTypeKnownIdentifier(t *testing.T) {
	code, err := ResolveType("duplex")
	require.NoError(t, err)
	assert.Equal(t, TypeDuplex, code)
}

func TestResolveTypeUnknownIdentifierListsChoices(t *testing.T) {
	_, err := ResolveType("castle")
	require.Error(t, err)
	assert.Equal(t,
		"The property type identifier 'castle' does not exist. Value must be apartment,house,duplex,bungalow,land,office",
		err.Error())
}

func TestResolveStatusUnknownIdentifierListsChoices(t *testing.T) {
	_, err := ResolveStatus("pending")
	require.Error(t, err)
	assert.Equal(t,
		"The property status identifier 'pending' does not exist. Value must be for_sale,for_rent,sold,rented",
		err.Error())
}

func TestResolveFeaturesStopsAtFirstUnknown(t *testing.T) {
	codes, err := ResolveFeatures([]string{"garage", "gym"})
	require.NoError(t, err)
	assert.Equal(t, []int{FeatureGarage, FeatureGym}, codes)

	_, err = ResolveFeatures([]string{"garage", "helipad", "gym"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The property feature identifier 'helipad' does not exist.")
}

func TestReverseLookup(t *testing.T) {
	assert.Equal(t, "bungalow", TypeName(TypeBungalow))
	assert.Equal(t, "for_rent", StatusName(StatusForRent))
	assert.Equal(t, []string{"garden", "security"}, FeatureNames([]int{FeatureGarden, FeatureSecurity}))
	assert.Equal(t, "", TypeName(99))
}
