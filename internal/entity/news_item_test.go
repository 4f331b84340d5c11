package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_StableAndContentAddressed(t *testing.T) {
	a := Fingerprint("Gold rallies", "Gold rose 2% today.")
	b := Fingerprint("Gold rallies", "Gold rose 2% today.")
	c := Fingerprint("Gold rallies", "Gold fell 2% today.")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestAssetClasses_ContainsTheFixedSet(t *testing.T) {
	assert.Len(t, AssetClasses, 9)
	assert.Contains(t, AssetClasses, AssetClassOther)
	assert.Contains(t, AssetClasses, AssetClassRealEstate)
}
