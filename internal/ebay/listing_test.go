package ebay

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ListingInput {
	return ListingInput{
		Title:       "Rolex Submariner Date 41mm",
		Description: "Excellent condition, box and papers included.",
		Price:       1234.5,
		PhotoURL:    "https://example.com/watch.jpg",
	}
}

func TestValidateInputAcceptsValidListing(t *testing.T) {
	input, err := ValidateInput(validInput())
	require.NoError(t, err)
	assert.Equal(t, DefaultConditionID, input.ConditionID)
	assert.Equal(t, "Rolex Submariner Date 41mm", input.Title)
}

func TestValidateInputRejectsMissingTitle(t *testing.T) {
	raw := validInput()
	raw.Title = "  "
	_, err := ValidateInput(raw)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "title")
}

func TestValidateInputRejectsLongTitle(t *testing.T) {
	raw := validInput()
	raw.Title = strings.Repeat("A", 81)
	_, err := ValidateInput(raw)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "80")

	// Exactly at the limit is fine.
	raw.Title = strings.Repeat("A", 80)
	_, err = ValidateInput(raw)
	assert.NoError(t, err)
}

func TestValidateInputRejectsMissingDescription(t *testing.T) {
	raw := validInput()
	raw.Description = ""
	_, err := ValidateInput(raw)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "description")
}

func TestValidateInputRejectsBadPrices(t *testing.T) {
	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		raw := validInput()
		raw.Price = price
		_, err := ValidateInput(raw)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "price %v should be rejected", price)
		assert.Contains(t, validationErr.Message, "price")
	}
}

func TestValidateInputRejectsNonHTTPSPhotoURL(t *testing.T) {
	for _, u := range []string{
		"",
		"http://example.com/watch.jpg",
		"ftp://example.com/watch.jpg",
		"/relative/watch.jpg",
		"https://",
	} {
		raw := validInput()
		raw.PhotoURL = u
		_, err := ValidateInput(raw)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr, "photoUrl %q should be rejected", u)
	}
}

func TestValidateInputFirstFailureWins(t *testing.T) {
	raw := ListingInput{Title: strings.Repeat("A", 81), Description: "", Price: -5}
	_, err := ValidateInput(raw)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	// Title check comes first.
	assert.Contains(t, validationErr.Message, "80")
}

func TestValidateInputKeepsConditionID(t *testing.T) {
	raw := validInput()
	raw.ConditionID = 1000
	input, err := ValidateInput(raw)
	require.NoError(t, err)
	assert.Equal(t, 1000, input.ConditionID)

	// Out-of-range values pass through for the marketplace to reject.
	raw.ConditionID = 99999
	input, err = ValidateInput(raw)
	require.NoError(t, err)
	assert.Equal(t, 99999, input.ConditionID)
}

func TestBuildAddItemXMLFormatsPriceWithTwoDecimals(t *testing.T) {
	input, err := ValidateInput(validInput())
	require.NoError(t, err)

	xml := BuildAddItemXML(input)
	assert.Contains(t, xml, `<StartPrice currencyID="USD">1234.50</StartPrice>`)
}

func TestBuildAddItemXMLEmbedsFields(t *testing.T) {
	input, err := ValidateInput(validInput())
	require.NoError(t, err)

	xml := BuildAddItemXML(input)
	assert.True(t, strings.HasPrefix(xml, `<?xml version="1.0" encoding="utf-8"?>`))
	assert.Contains(t, xml, "<Title>Rolex Submariner Date 41mm</Title>")
	assert.Contains(t, xml, "<Description><![CDATA[Excellent condition, box and papers included.]]></Description>")
	assert.Contains(t, xml, "<ConditionID>3000</ConditionID>")
	assert.Contains(t, xml, "<PictureURL>https://example.com/watch.jpg</PictureURL>")
	assert.Contains(t, xml, "<CategoryID>31387</CategoryID>")
	assert.Contains(t, xml, "<ListingDuration>GTC</ListingDuration>")
	assert.Contains(t, xml, `<ShippingServiceCost currencyID="USD">25.00</ShippingServiceCost>`)
}

func TestBuildAddItemXMLWrapsMarkupInDescription(t *testing.T) {
	raw := validInput()
	raw.Description = "Condition: <b>great</b> & authentic"
	input, err := ValidateInput(raw)
	require.NoError(t, err)

	xml := BuildAddItemXML(input)
	assert.Contains(t, xml, "<![CDATA[Condition: <b>great</b> & authentic]]>")
}
