package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSearchTerm_HyphenVariants(t *testing.T) {
	variants := NormalizeSearchTerm("bpc-157")
	assert.Contains(t, variants, "bpc-157")
	assert.Contains(t, variants, "bpc157")

	variants = NormalizeSearchTerm("BPC157")
	assert.Contains(t, variants, "bpc157")
	assert.Contains(t, variants, "bpc-157")
}

func TestNormalizeSearchTerm_PlainTerm(t *testing.T) {
	assert.Equal(t, []string{"simple"}, NormalizeSearchTerm("simple"))
	assert.Equal(t, []string{"trt"}, NormalizeSearchTerm("  TRT "))
}

func TestNormalizeSearchTerm_Empty(t *testing.T) {
	assert.Empty(t, NormalizeSearchTerm(""))
	assert.Empty(t, NormalizeSearchTerm("   "))
}

func TestDeriveSearchableTerms_Superset(t *testing.T) {
	terms := DeriveSearchableTerms(
		"Apex Men's Clinic",
		"Austin", "TX",
		[]string{"Peptide Therapy", "TRT"},
		[]string{"bpc-157"},
	)

	// Tokens from every source field are present.
	assert.Contains(t, terms, "apex")
	assert.Contains(t, terms, "peptide therapy")
	assert.Contains(t, terms, "peptide")
	assert.Contains(t, terms, "trt")
	assert.Contains(t, terms, "austin")
	assert.Contains(t, terms, "tx")
	// Treatment variants are included both ways.
	assert.Contains(t, terms, "bpc-157")
	assert.Contains(t, terms, "bpc157")
}

func TestDeriveSearchableTerms_Deduplicates(t *testing.T) {
	terms := DeriveSearchableTerms("TRT", "", "", []string{"TRT"}, []string{"trt"})
	assert.Equal(t, []string{"trt"}, terms)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "apex-men-s-clinic-austin-tx", Slugify("Apex Men's Clinic", "Austin", "TX"))
	assert.Equal(t, "vital-md-boise-id", Slugify("Vital MD", "Boise", "ID"))
}
